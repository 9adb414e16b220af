package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/app/models/dto"
	"github.com/dojolink/dojolink/internal/pkg/apperrors"
)

const dateLayout = "2006-01-02"

// How long a pre-login staged booking stays claimable.
const stagingTTL = 30 * time.Minute

// InstructorStore is the user lookup the reconciler needs.
type InstructorStore interface {
	GetInstructorByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionStore is the session persistence surface used by the reconciler.
type SessionStore interface {
	Insert(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	ListActiveByInstructorDate(ctx context.Context, instructorID int64, date time.Time) ([]*models.Session, error)
	ListByParty(ctx context.Context, userID int64, role models.RoleType) ([]*models.Session, error)
	UpdateStatus(ctx context.Context, session *models.Session) error
	AttachReview(ctx context.Context, sessionID int64, review *models.Review) error
}

// BookingStagingStore parks booking payloads for users who are not logged in
// yet.
type BookingStagingStore interface {
	Create(ctx context.Context, key string, payload json.RawMessage, expiresAt time.Time) error
	Claim(ctx context.Context, key string) (json.RawMessage, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionService reconciles booking requests against instructor availability
// and existing sessions, and manages the session lifecycle.
type SessionService interface {
	Book(ctx context.Context, studentID int64, req *dto.BookSessionRequest) (*models.Session, error)
	ListMySessions(ctx context.Context, userID int64, role models.RoleType) ([]*models.Session, error)
	UpdateStatus(ctx context.Context, sessionID, callerID int64, newStatus models.SessionStatus, cancellationReason string) (*models.Session, error)
	AttachReview(ctx context.Context, sessionID, callerID int64, rating int, comment string) (*models.Session, error)
	StageBooking(ctx context.Context, req *dto.BookSessionRequest) (key string, expiresAt time.Time, err error)
	ClaimStagedBooking(ctx context.Context, key string) (*dto.BookSessionRequest, error)
}

type sessionServiceImpl struct {
	users    InstructorStore
	sessions SessionStore
	staging  BookingStagingStore
	conflict models.ConflictPolicy
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSessionService creates a new session service. A nil conflict policy
// falls back to exact-slot matching, the default conflict rule.
func NewSessionService(
	users InstructorStore,
	sessions SessionStore,
	staging BookingStagingStore,
	conflict models.ConflictPolicy,
	logger zerolog.Logger,
) SessionService {
	if conflict == nil {
		conflict = models.ExactSlotConflict
	}
	return &sessionServiceImpl{
		users:    users,
		sessions: sessions,
		staging:  staging,
		conflict: conflict,
		logger:   logger,
		now:      time.Now,
	}
}

// validateSlot checks the requested slot and rewrites its clock strings into
// canonical zero-padded form, so "9:00" and "09:00" cannot end up as distinct
// slots downstream.
func validateSlot(req *dto.BookSessionRequest) (time.Time, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}

	start, err := models.CanonicalClock(req.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	end, err := models.CanonicalClock(req.EndTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	if start >= end {
		return time.Time{}, fmt.Errorf("%w: startTime must be before endTime", apperrors.ErrValidationFailed)
	}
	req.StartTime = start
	req.EndTime = end

	if !req.LocationType.Valid() {
		return time.Time{}, fmt.Errorf("%w: unknown location type %q", apperrors.ErrValidationFailed, req.LocationType)
	}

	return date, nil
}

// Book validates a booking request and materializes it into a pending
// session. The conflict scan plus insert is backed by the database's
// active-slot unique index, so a race between two identical requests resolves
// to one winner and one ErrSlotTaken.
func (s *sessionServiceImpl) Book(ctx context.Context, studentID int64, req *dto.BookSessionRequest) (*models.Session, error) {
	date, err := validateSlot(req)
	if err != nil {
		return nil, err
	}

	instructor, err := s.users.GetInstructorByID(ctx, req.InstructorID)
	if err != nil {
		return nil, err
	}

	if !instructor.Availability.IsAvailable(date, req.StartTime, req.EndTime) {
		return nil, apperrors.ErrInstructorUnavailable
	}

	existing, err := s.sessions.ListActiveByInstructorDate(ctx, instructor.ID, date)
	if err != nil {
		return nil, fmt.Errorf("error checking existing sessions: %w", err)
	}
	slot := models.Slot{Date: date, StartTime: req.StartTime, EndTime: req.EndTime}
	for _, other := range existing {
		if s.conflict(slot, other) {
			return nil, apperrors.ErrSlotTaken
		}
	}

	session := &models.Session{
		InstructorID: instructor.ID,
		StudentID:    studentID,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Duration:     req.Duration,
		Location: models.SessionLocation{
			Type:    req.LocationType,
			Address: req.Address,
		},
		Status: models.SessionPending,
		// Price is frozen here; later rate changes never reprice the session.
		Price:         models.SessionPrice(instructor.HourlyRate(), req.Duration),
		PaymentStatus: models.PaymentPending,
	}
	if req.Notes != "" {
		session.Notes = &req.Notes
	}

	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("sessionId", session.ID).
		Int64("instructorId", instructor.ID).
		Int64("studentId", studentID).
		Str("date", req.Date).
		Str("slot", req.StartTime+"-"+req.EndTime).
		Msg("Session booked")

	return session, nil
}

// ListMySessions lists the caller's sessions, filtered by their side of the
// booking and sorted by date then start time.
func (s *sessionServiceImpl) ListMySessions(ctx context.Context, userID int64, role models.RoleType) ([]*models.Session, error) {
	return s.sessions.ListByParty(ctx, userID, role)
}

// UpdateStatus transitions a session's status on behalf of one of its
// parties. Illegal transitions (leaving a terminal state, skipping
// confirmation backwards) are rejected.
func (s *sessionServiceImpl) UpdateStatus(ctx context.Context, sessionID, callerID int64, newStatus models.SessionStatus, cancellationReason string) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsParty(callerID) {
		return nil, apperrors.ErrPermissionDenied
	}

	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, newStatus)
	}
	if !session.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, session.Status, newStatus)
	}

	session.Status = newStatus
	if newStatus == models.SessionCancelled && cancellationReason != "" {
		session.CancellationReason = &cancellationReason
	}

	if err := s.sessions.UpdateStatus(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("sessionId", session.ID).
		Int64("callerId", callerID).
		Str("status", string(newStatus)).
		Msg("Session status updated")

	return session, nil
}

// AttachReview adds a student review to a completed session. Only the student
// party may review, only once, and only after completion.
func (s *sessionServiceImpl) AttachReview(ctx context.Context, sessionID, callerID int64, rating int, comment string) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != models.SessionCompleted {
		return nil, apperrors.ErrSessionNotCompleted
	}
	if session.StudentID != callerID {
		return nil, apperrors.ErrPermissionDenied
	}
	if session.Review != nil {
		return nil, apperrors.ErrSessionAlreadyRated
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrValidationFailed)
	}

	review := &models.Review{
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now(),
	}
	if err := s.sessions.AttachReview(ctx, session.ID, review); err != nil {
		return nil, err
	}
	session.Review = review

	return session, nil
}

// StageBooking parks a booking payload under a fresh UUID key until the user
// completes login. The record expires on its own.
func (s *sessionServiceImpl) StageBooking(ctx context.Context, req *dto.BookSessionRequest) (string, time.Time, error) {
	if _, err := validateSlot(req); err != nil {
		return "", time.Time{}, err
	}

	// Opportunistic sweep; the Claim expiry filter is the real guard.
	if swept, err := s.staging.DeleteExpired(ctx); err == nil && swept > 0 {
		s.logger.Debug().Int64("count", swept).Msg("Swept expired staged bookings")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error encoding staged booking: %w", err)
	}

	key := uuid.New().String()
	expiresAt := s.now().Add(stagingTTL)
	if err := s.staging.Create(ctx, key, payload, expiresAt); err != nil {
		return "", time.Time{}, err
	}

	return key, expiresAt, nil
}

// ClaimStagedBooking retrieves and consumes a staged booking payload.
func (s *sessionServiceImpl) ClaimStagedBooking(ctx context.Context, key string) (*dto.BookSessionRequest, error) {
	payload, err := s.staging.Claim(ctx, key)
	if err != nil {
		return nil, err
	}

	req := &dto.BookSessionRequest{}
	if err := json.Unmarshal(payload, req); err != nil {
		return nil, fmt.Errorf("error decoding staged booking: %w", err)
	}

	return req, nil
}
