package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/pkg/apperrors"
	"github.com/dojolink/dojolink/internal/pkg/dberrors"
)

// activeSlotConstraint is the partial unique index on
// (instructor_id, session_date, start_time, end_time) filtered to
// non-terminal statuses. It is the concurrency backstop for the
// check-then-insert booking sequence: two racing requests for the same slot
// cannot both commit.
const activeSlotConstraint = "sessions_active_slot_unique"

const sessionColumns = `id, instructor_id, student_id, session_date, start_time, end_time,
	duration_minutes, location, status, price, payment_status, notes,
	cancellation_reason, review, created_at, updated_at`

// SessionRepository handles session database operations
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func scanSession(row pgx.Row) (*models.Session, error) {
	s := &models.Session{}
	err := row.Scan(
		&s.ID, &s.InstructorID, &s.StudentID, &s.Date, &s.StartTime, &s.EndTime,
		&s.Duration, &s.Location, &s.Status, &s.Price, &s.PaymentStatus,
		&s.Notes, &s.CancellationReason, &s.Review, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Insert persists a new session. A unique violation on the active-slot index
// means another request booked the identical slot first and is surfaced as
// ErrSlotTaken.
func (r *SessionRepository) Insert(ctx context.Context, session *models.Session) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO sessions (instructor_id, student_id, session_date, start_time,
			end_time, duration_minutes, location, status, price, payment_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		session.InstructorID, session.StudentID, session.Date, session.StartTime,
		session.EndTime, session.Duration, session.Location, session.Status,
		session.Price, session.PaymentStatus, session.Notes).
		Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, activeSlotConstraint) {
			return apperrors.ErrSlotTaken
		}
		return fmt.Errorf("error inserting session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	session, err := scanSession(r.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = $1`,
		id))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error getting session: %w", err)
	}

	return session, nil
}

// ListActiveByInstructorDate lists the non-terminal (pending or confirmed)
// sessions of an instructor on a given date. The booking reconciler runs its
// conflict policy over this set.
func (r *SessionRepository) ListActiveByInstructorDate(ctx context.Context, instructorID int64, date time.Time) ([]*models.Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE instructor_id = $1
		  AND session_date = $2
		  AND status IN ($3, $4)`,
		instructorID, date, models.SessionPending, models.SessionConfirmed)
	if err != nil {
		return nil, fmt.Errorf("error listing active sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListByParty lists all sessions where the user participates in the given
// role column, sorted by date then start time ascending, with the
// counterparty profile summaries attached.
func (r *SessionRepository) ListByParty(ctx context.Context, userID int64, role models.RoleType) ([]*models.Session, error) {
	partyColumn := "student_id"
	if role.IsInstructor() {
		partyColumn = "instructor_id"
	}

	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.instructor_id, s.student_id, s.session_date, s.start_time, s.end_time,
			s.duration_minutes, s.location, s.status, s.price, s.payment_status, s.notes,
			s.cancellation_reason, s.review, s.created_at, s.updated_at,
			i.first_name, i.last_name, i.profile_picture,
			st.first_name, st.last_name
		FROM sessions s
		JOIN users i ON s.instructor_id = i.id
		JOIN users st ON s.student_id = st.id
		WHERE s.`+partyColumn+` = $1
		ORDER BY s.session_date ASC, s.start_time ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*models.Session, 0)
	for rows.Next() {
		s := &models.Session{}
		instructor := &models.PublicProfile{Role: models.RoleInstructor}
		student := &models.PublicProfile{Role: models.RoleStudent}
		err := rows.Scan(
			&s.ID, &s.InstructorID, &s.StudentID, &s.Date, &s.StartTime, &s.EndTime,
			&s.Duration, &s.Location, &s.Status, &s.Price, &s.PaymentStatus,
			&s.Notes, &s.CancellationReason, &s.Review, &s.CreatedAt, &s.UpdatedAt,
			&instructor.FirstName, &instructor.LastName, &instructor.ProfilePicture,
			&student.FirstName, &student.LastName)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		instructor.ID = s.InstructorID
		student.ID = s.StudentID
		s.Instructor = instructor
		s.Student = student
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}

	return sessions, nil
}

// UpdateStatus persists a status change along with an optional cancellation
// reason.
func (r *SessionRepository) UpdateStatus(ctx context.Context, session *models.Session) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sessions
		SET status = $2, cancellation_reason = $3, updated_at = NOW()
		WHERE id = $1`,
		session.ID, session.Status, session.CancellationReason)
	if err != nil {
		return fmt.Errorf("error updating session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// AttachReview stores a review on a session.
func (r *SessionRepository) AttachReview(ctx context.Context, sessionID int64, review *models.Review) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sessions
		SET review = $2, updated_at = NOW()
		WHERE id = $1`,
		sessionID, review)
	if err != nil {
		return fmt.Errorf("error attaching review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

func collectSessions(rows pgx.Rows) ([]*models.Session, error) {
	sessions := make([]*models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}
