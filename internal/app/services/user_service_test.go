package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/app/models/dto"
	"github.com/dojolink/dojolink/internal/pkg/apperrors"
)

type mockUserStore struct {
	getByIDFunc             func(ctx context.Context, id int64) (*models.User, error)
	getInstructorByIDFunc   func(ctx context.Context, id int64) (*models.User, error)
	updateProfileFunc       func(ctx context.Context, userID int64, update *models.ProfileUpdate) (*models.User, error)
	replaceAvailabilityFunc func(ctx context.Context, userID int64, availability models.WeeklyAvailability) error
	updateSessionRateFunc   func(ctx context.Context, userID int64, rate float64) error
	searchInstructorsFunc   func(ctx context.Context, filters models.InstructorFilters) ([]models.PublicProfile, error)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserStore) GetInstructorByID(ctx context.Context, id int64) (*models.User, error) {
	if m.getInstructorByIDFunc != nil {
		return m.getInstructorByIDFunc(ctx, id)
	}
	return nil, apperrors.ErrInstructorNotFound
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, userID int64, update *models.ProfileUpdate) (*models.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, userID, update)
	}
	return &models.User{ID: userID}, nil
}

func (m *mockUserStore) ReplaceAvailability(ctx context.Context, userID int64, availability models.WeeklyAvailability) error {
	if m.replaceAvailabilityFunc != nil {
		return m.replaceAvailabilityFunc(ctx, userID, availability)
	}
	return nil
}

func (m *mockUserStore) UpdateSessionRate(ctx context.Context, userID int64, rate float64) error {
	if m.updateSessionRateFunc != nil {
		return m.updateSessionRateFunc(ctx, userID, rate)
	}
	return nil
}

func (m *mockUserStore) SearchInstructors(ctx context.Context, filters models.InstructorFilters) ([]models.PublicProfile, error) {
	if m.searchInstructorsFunc != nil {
		return m.searchInstructorsFunc(ctx, filters)
	}
	return nil, nil
}

func TestReplaceAvailabilityRequiresInstructor(t *testing.T) {
	svc := NewUserService(&mockUserStore{})

	schedule := models.WeeklyAvailability{
		{Day: "Monday", TimeSlots: []models.TimeWindow{{StartTime: "09:00", EndTime: "12:00"}}},
	}

	_, err := svc.ReplaceAvailability(context.Background(), 7, models.RoleStudent, schedule)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for student caller, got %v", err)
	}
}

func TestReplaceAvailabilityValidatesSchedule(t *testing.T) {
	svc := NewUserService(&mockUserStore{})

	bad := models.WeeklyAvailability{
		{Day: "Monday", TimeSlots: []models.TimeWindow{
			{StartTime: "09:00", EndTime: "12:00"},
			{StartTime: "11:00", EndTime: "14:00"},
		}},
	}

	_, err := svc.ReplaceAvailability(context.Background(), 3, models.RoleInstructor, bad)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for overlapping windows, got %v", err)
	}
}

func TestReplaceAvailabilityWholesale(t *testing.T) {
	var stored models.WeeklyAvailability
	store := &mockUserStore{
		replaceAvailabilityFunc: func(ctx context.Context, userID int64, availability models.WeeklyAvailability) error {
			stored = availability
			return nil
		},
	}
	svc := NewUserService(store)

	// Replacing with a schedule that omits Monday must drop Monday entirely,
	// not merge with what was there before.
	next := models.WeeklyAvailability{
		{Day: "Tuesday", TimeSlots: []models.TimeWindow{{StartTime: "18:00", EndTime: "20:00"}}},
	}

	got, err := svc.ReplaceAvailability(context.Background(), 3, models.RoleInstructor, next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 || stored[0].Day != "Tuesday" {
		t.Errorf("stored schedule = %+v, want only Tuesday", stored)
	}
	if len(got) != 1 {
		t.Errorf("returned schedule = %+v, want the replacement set", got)
	}
}

func TestUpdateHourlyRateGuards(t *testing.T) {
	svc := NewUserService(&mockUserStore{})

	if err := svc.UpdateHourlyRate(context.Background(), 7, models.RoleStudent, 80); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student caller: expected ErrPermissionDenied, got %v", err)
	}
	if err := svc.UpdateHourlyRate(context.Background(), 3, models.RoleInstructor, 0); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("zero rate: expected ErrValidationFailed, got %v", err)
	}
	if err := svc.UpdateHourlyRate(context.Background(), 3, models.RoleInstructor, -5); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("negative rate: expected ErrValidationFailed, got %v", err)
	}
	if err := svc.UpdateHourlyRate(context.Background(), 3, models.RoleInstructor, 95.5); err != nil {
		t.Errorf("valid rate: unexpected error %v", err)
	}
}

func TestUpdateProfileRejectsUnknownExperienceLevel(t *testing.T) {
	svc := NewUserService(&mockUserStore{})

	bad := models.ExperienceLevel("grandmaster")
	_, err := svc.UpdateProfile(context.Background(), 7, &dto.UpdateProfileRequest{ExperienceLevel: &bad})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestSearchInstructorsPassesFilters(t *testing.T) {
	var seen models.InstructorFilters
	store := &mockUserStore{
		searchInstructorsFunc: func(ctx context.Context, filters models.InstructorFilters) ([]models.PublicProfile, error) {
			seen = filters
			return []models.PublicProfile{{ID: 3}}, nil
		},
	}
	svc := NewUserService(store)

	results, err := svc.SearchInstructors(context.Background(), models.InstructorFilters{City: "Austin", MaxRate: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.City != "Austin" || seen.MaxRate != 100 {
		t.Errorf("filters not forwarded: %+v", seen)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
}
