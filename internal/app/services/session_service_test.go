package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/app/models/dto"
	"github.com/dojolink/dojolink/internal/pkg/apperrors"
)

// Mock stores for testing
type mockInstructorStore struct {
	getInstructorFunc func(ctx context.Context, id int64) (*models.User, error)
}

func (m *mockInstructorStore) GetInstructorByID(ctx context.Context, id int64) (*models.User, error) {
	if m.getInstructorFunc != nil {
		return m.getInstructorFunc(ctx, id)
	}
	return nil, apperrors.ErrInstructorNotFound
}

type mockSessionStore struct {
	insertFunc       func(ctx context.Context, session *models.Session) error
	getByIDFunc      func(ctx context.Context, id int64) (*models.Session, error)
	listActiveFunc   func(ctx context.Context, instructorID int64, date time.Time) ([]*models.Session, error)
	listByPartyFunc  func(ctx context.Context, userID int64, role models.RoleType) ([]*models.Session, error)
	updateStatusFunc func(ctx context.Context, session *models.Session) error
	attachReviewFunc func(ctx context.Context, sessionID int64, review *models.Review) error
}

func (m *mockSessionStore) Insert(ctx context.Context, session *models.Session) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, session)
	}
	session.ID = 1
	return nil
}

func (m *mockSessionStore) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.ErrSessionNotFound
}

func (m *mockSessionStore) ListActiveByInstructorDate(ctx context.Context, instructorID int64, date time.Time) ([]*models.Session, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx, instructorID, date)
	}
	return nil, nil
}

func (m *mockSessionStore) ListByParty(ctx context.Context, userID int64, role models.RoleType) ([]*models.Session, error) {
	if m.listByPartyFunc != nil {
		return m.listByPartyFunc(ctx, userID, role)
	}
	return nil, nil
}

func (m *mockSessionStore) UpdateStatus(ctx context.Context, session *models.Session) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) AttachReview(ctx context.Context, sessionID int64, review *models.Review) error {
	if m.attachReviewFunc != nil {
		return m.attachReviewFunc(ctx, sessionID, review)
	}
	return nil
}

type mockStagingStore struct {
	records map[string]json.RawMessage
}

func newMockStagingStore() *mockStagingStore {
	return &mockStagingStore{records: make(map[string]json.RawMessage)}
}

func (m *mockStagingStore) Create(ctx context.Context, key string, payload json.RawMessage, expiresAt time.Time) error {
	m.records[key] = payload
	return nil
}

func (m *mockStagingStore) Claim(ctx context.Context, key string) (json.RawMessage, error) {
	payload, ok := m.records[key]
	if !ok {
		return nil, apperrors.ErrStagedBookingNotFound
	}
	delete(m.records, key)
	return payload, nil
}

func (m *mockStagingStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func testInstructor() *models.User {
	rate := 80.0
	return &models.User{
		ID:        3,
		Email:     "sensei@example.com",
		Role:      models.RoleInstructor,
		FirstName: "Ana",
		LastName:  "Silva",
		SessionRate: &rate,
		Availability: models.WeeklyAvailability{
			{Day: "Monday", TimeSlots: []models.TimeWindow{{StartTime: "09:00", EndTime: "17:00"}}},
		},
	}
}

func validBooking() *dto.BookSessionRequest {
	return &dto.BookSessionRequest{
		InstructorID: 3,
		Date:         "2024-01-01", // a Monday
		StartTime:    "10:00",
		EndTime:      "11:00",
		Duration:     60,
		LocationType: models.LocationInstructor,
	}
}

func newTestService(users InstructorStore, sessions SessionStore, staging BookingStagingStore) SessionService {
	return NewSessionService(users, sessions, staging, nil, zerolog.Nop())
}

func TestBookSuccess(t *testing.T) {
	users := &mockInstructorStore{
		getInstructorFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return testInstructor(), nil
		},
	}
	var inserted *models.Session
	sessions := &mockSessionStore{
		insertFunc: func(ctx context.Context, session *models.Session) error {
			session.ID = 42
			inserted = session
			return nil
		},
	}

	svc := newTestService(users, sessions, newMockStagingStore())
	session, err := svc.Book(context.Background(), 7, validBooking())
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	if inserted == nil {
		t.Fatal("session was not persisted")
	}
	if session.Status != models.SessionPending {
		t.Errorf("new session status = %s, want pending", session.Status)
	}
	if session.Price != 80 {
		t.Errorf("price = %v, want 80 (rate 80/h for 60 min)", session.Price)
	}
	if session.PaymentStatus != models.PaymentPending {
		t.Errorf("payment status = %s, want pending", session.PaymentStatus)
	}
	if session.InstructorID != 3 || session.StudentID != 7 {
		t.Errorf("parties = (%d, %d), want (3, 7)", session.InstructorID, session.StudentID)
	}
}

func TestBookPriceFrozenFromRate(t *testing.T) {
	instructor := testInstructor()
	rate := 100.0
	instructor.SessionRate = &rate

	users := &mockInstructorStore{
		getInstructorFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return instructor, nil
		},
	}
	svc := newTestService(users, &mockSessionStore{}, newMockStagingStore())

	req := validBooking()
	req.EndTime = "11:30"
	req.Duration = 90

	session, err := svc.Book(context.Background(), 7, req)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if session.Price != 150 {
		t.Errorf("price = %v, want 150 (rate 100/h for 90 min)", session.Price)
	}
}

func TestBookOutsideAvailability(t *testing.T) {
	users := &mockInstructorStore{
		getInstructorFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return testInstructor(), nil
		},
	}
	svc := newTestService(users, &mockSessionStore{}, newMockStagingStore())

	req := validBooking()
	req.StartTime = "18:00"
	req.EndTime = "19:00"

	_, err := svc.Book(context.Background(), 7, req)
	if !errors.Is(err, apperrors.ErrInstructorUnavailable) {
		t.Errorf("expected ErrInstructorUnavailable, got %v", err)
	}
}

func TestBookExactSlotTaken(t *testing.T) {
	users := &mockInstructorStore{
		getInstructorFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return testInstructor(), nil
		},
	}
	sessions := &mockSessionStore{
		listActiveFunc: func(ctx context.Context, instructorID int64, date time.Time) ([]*models.Session, error) {
			return []*models.Session{
				{InstructorID: 3, Date: date, StartTime: "10:00", EndTime: "11:00", Status: models.SessionPending},
			}, nil
		},
	}
	svc := newTestService(users, sessions, newMockStagingStore())

	_, err := svc.Book(context.Background(), 7, validBooking())
	if !errors.Is(err, apperrors.ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken, got %v", err)
	}
}

func TestBookOverlappingButDistinctSlotAllowed(t *testing.T) {
	// With the default exact-match policy, an overlapping but non-identical
	// window does not conflict.
	users := &mockInstructorStore{
		getInstructorFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return testInstructor(), nil
		},
	}
	sessions := &mockSessionStore{
		listActiveFunc: func(ctx context.Context, instructorID int64, date time.Time) ([]*models.Session, error) {
			return []*models.Session{
				{InstructorID: 3, Date: date, StartTime: "10:00", EndTime: "11:00", Status: models.SessionConfirmed},
			}, nil
		},
	}
	svc := newTestService(users, sessions, newMockStagingStore())

	req := validBooking()
	req.StartTime = "10:30"
	req.EndTime = "11:30"

	if _, err := svc.Book(context.Background(), 7, req); err != nil {
		t.Errorf("overlapping distinct slot should book under exact policy, got %v", err)
	}
}

func TestBookNormalizesClockTimes(t *testing.T) {
	users := &mockInstructorStore{
		getInstructorFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return testInstructor(), nil
		},
	}

	t.Run("unpadded request collides with padded slot", func(t *testing.T) {
		sessions := &mockSessionStore{
			listActiveFunc: func(ctx context.Context, instructorID int64, date time.Time) ([]*models.Session, error) {
				return []*models.Session{
					{InstructorID: 3, Date: date, StartTime: "09:00", EndTime: "10:00", Status: models.SessionPending},
				}, nil
			},
		}
		svc := newTestService(users, sessions, newMockStagingStore())

		req := validBooking()
		req.StartTime = "9:00"
		req.EndTime = "10:00"

		_, err := svc.Book(context.Background(), 7, req)
		if !errors.Is(err, apperrors.ErrSlotTaken) {
			t.Errorf("expected ErrSlotTaken for the same slot written unpadded, got %v", err)
		}
	})

	t.Run("stored slot is zero padded", func(t *testing.T) {
		var inserted *models.Session
		sessions := &mockSessionStore{
			insertFunc: func(ctx context.Context, session *models.Session) error {
				session.ID = 1
				inserted = session
				return nil
			},
		}
		svc := newTestService(users, sessions, newMockStagingStore())

		req := validBooking()
		req.StartTime = "9:15"
		req.EndTime = "10:15"

		if _, err := svc.Book(context.Background(), 7, req); err != nil {
			t.Fatalf("Book returned error: %v", err)
		}
		if inserted.StartTime != "09:15" || inserted.EndTime != "10:15" {
			t.Errorf("stored slot = %s-%s, want 09:15-10:15", inserted.StartTime, inserted.EndTime)
		}
	})
}

func TestBookRejectsReversedTimes(t *testing.T) {
	svc := newTestService(&mockInstructorStore{}, &mockSessionStore{}, newMockStagingStore())

	req := validBooking()
	req.StartTime = "11:00"
	req.EndTime = "10:00"

	_, err := svc.Book(context.Background(), 7, req)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestBookUnknownInstructor(t *testing.T) {
	svc := newTestService(&mockInstructorStore{}, &mockSessionStore{}, newMockStagingStore())

	_, err := svc.Book(context.Background(), 7, validBooking())
	if !errors.Is(err, apperrors.ErrInstructorNotFound) {
		t.Errorf("expected ErrInstructorNotFound, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.SessionStatus
		to      models.SessionStatus
		wantErr error
	}{
		{"confirm pending", models.SessionPending, models.SessionConfirmed, nil},
		{"cancel pending", models.SessionPending, models.SessionCancelled, nil},
		{"complete confirmed", models.SessionConfirmed, models.SessionCompleted, nil},
		{"complete pending", models.SessionPending, models.SessionCompleted, apperrors.ErrInvalidTransition},
		{"revive cancelled", models.SessionCancelled, models.SessionPending, apperrors.ErrInvalidTransition},
		{"cancel completed", models.SessionCompleted, models.SessionCancelled, apperrors.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &mockSessionStore{
				getByIDFunc: func(ctx context.Context, id int64) (*models.Session, error) {
					return &models.Session{ID: id, InstructorID: 3, StudentID: 7, Status: tt.from}, nil
				},
			}
			svc := newTestService(&mockInstructorStore{}, sessions, newMockStagingStore())

			session, err := svc.UpdateStatus(context.Background(), 1, 7, tt.to, "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if session.Status != tt.to {
				t.Errorf("status = %s, want %s", session.Status, tt.to)
			}
		})
	}
}

func TestUpdateStatusNonPartyForbidden(t *testing.T) {
	sessions := &mockSessionStore{
		getByIDFunc: func(ctx context.Context, id int64) (*models.Session, error) {
			return &models.Session{ID: id, InstructorID: 3, StudentID: 7, Status: models.SessionPending}, nil
		},
	}
	svc := newTestService(&mockInstructorStore{}, sessions, newMockStagingStore())

	_, err := svc.UpdateStatus(context.Background(), 1, 99, models.SessionConfirmed, "")
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestUpdateStatusStoresCancellationReason(t *testing.T) {
	sessions := &mockSessionStore{
		getByIDFunc: func(ctx context.Context, id int64) (*models.Session, error) {
			return &models.Session{ID: id, InstructorID: 3, StudentID: 7, Status: models.SessionPending}, nil
		},
	}
	svc := newTestService(&mockInstructorStore{}, sessions, newMockStagingStore())

	session, err := svc.UpdateStatus(context.Background(), 1, 3, models.SessionCancelled, "instructor ill")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.CancellationReason == nil || *session.CancellationReason != "instructor ill" {
		t.Error("cancellation reason was not stored")
	}
}

func TestAttachReviewGuards(t *testing.T) {
	tests := []struct {
		name    string
		session *models.Session
		caller  int64
		rating  int
		wantErr error
	}{
		{
			"not completed yet",
			&models.Session{ID: 1, InstructorID: 3, StudentID: 7, Status: models.SessionConfirmed},
			7, 5, apperrors.ErrSessionNotCompleted,
		},
		{
			"cancelled session",
			&models.Session{ID: 1, InstructorID: 3, StudentID: 7, Status: models.SessionCancelled},
			7, 5, apperrors.ErrSessionNotCompleted,
		},
		{
			"instructor cannot review",
			&models.Session{ID: 1, InstructorID: 3, StudentID: 7, Status: models.SessionCompleted},
			3, 5, apperrors.ErrPermissionDenied,
		},
		{
			"already rated",
			&models.Session{ID: 1, InstructorID: 3, StudentID: 7, Status: models.SessionCompleted, Review: &models.Review{Rating: 4}},
			7, 5, apperrors.ErrSessionAlreadyRated,
		},
		{
			"rating out of range",
			&models.Session{ID: 1, InstructorID: 3, StudentID: 7, Status: models.SessionCompleted},
			7, 6, apperrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &mockSessionStore{
				getByIDFunc: func(ctx context.Context, id int64) (*models.Session, error) {
					return tt.session, nil
				},
			}
			svc := newTestService(&mockInstructorStore{}, sessions, newMockStagingStore())

			_, err := svc.AttachReview(context.Background(), 1, tt.caller, tt.rating, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAttachReviewSuccess(t *testing.T) {
	var stored *models.Review
	sessions := &mockSessionStore{
		getByIDFunc: func(ctx context.Context, id int64) (*models.Session, error) {
			return &models.Session{ID: id, InstructorID: 3, StudentID: 7, Status: models.SessionCompleted}, nil
		},
		attachReviewFunc: func(ctx context.Context, sessionID int64, review *models.Review) error {
			stored = review
			return nil
		},
	}
	svc := newTestService(&mockInstructorStore{}, sessions, newMockStagingStore())

	session, err := svc.AttachReview(context.Background(), 1, 7, 5, "great class")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.Rating != 5 || stored.Comment != "great class" {
		t.Error("review was not persisted with the submitted values")
	}
	if session.Review == nil {
		t.Error("returned session does not carry the review")
	}
}

func TestStageAndClaimBooking(t *testing.T) {
	staging := newMockStagingStore()
	svc := newTestService(&mockInstructorStore{}, &mockSessionStore{}, staging)

	req := validBooking()
	key, expiresAt, err := svc.StageBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("StageBooking returned error: %v", err)
	}
	if key == "" {
		t.Fatal("expected a non-empty staging key")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("staged booking should expire in the future")
	}

	claimed, err := svc.ClaimStagedBooking(context.Background(), key)
	if err != nil {
		t.Fatalf("ClaimStagedBooking returned error: %v", err)
	}
	if claimed.InstructorID != req.InstructorID || claimed.StartTime != req.StartTime {
		t.Error("claimed payload does not match the staged request")
	}

	// A claim consumes the record.
	if _, err := svc.ClaimStagedBooking(context.Background(), key); !errors.Is(err, apperrors.ErrStagedBookingNotFound) {
		t.Errorf("second claim: expected ErrStagedBookingNotFound, got %v", err)
	}
}

func TestStageBookingRejectsInvalidSlot(t *testing.T) {
	svc := newTestService(&mockInstructorStore{}, &mockSessionStore{}, newMockStagingStore())

	req := validBooking()
	req.Date = "01-01-2024"

	_, _, err := svc.StageBooking(context.Background(), req)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}
