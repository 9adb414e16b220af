package models

import (
	"time"
)

// SessionStatus is the booking state machine:
// pending -> confirmed -> completed; pending/confirmed -> cancelled.
// completed and cancelled are terminal.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Valid reports whether the status is a known value.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionConfirmed, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

var statusTransitions = map[SessionStatus][]SessionStatus{
	SessionPending:   {SessionConfirmed, SessionCancelled},
	SessionConfirmed: {SessionCompleted, SessionCancelled},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus tracks payment state. Nothing in the backend drives
// transitions; it is recorded for the payment integration to update.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// LocationType says where a session takes place.
type LocationType string

const (
	LocationInstructor LocationType = "instructor_location"
	LocationStudent    LocationType = "student_location"
	LocationOther      LocationType = "other"
)

// Valid reports whether the location type is a known value.
func (l LocationType) Valid() bool {
	switch l {
	case LocationInstructor, LocationStudent, LocationOther:
		return true
	}
	return false
}

// SessionLocation describes where a booked session happens.
type SessionLocation struct {
	Type        LocationType `json:"type" example:"instructor_location"`
	Address     string       `json:"address,omitempty"`
	Coordinates *GeoPoint    `json:"coordinates,omitempty"`
}

// Review is a student's rating of a completed session.
type Review struct {
	Rating    int       `json:"rating" example:"5"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session represents one reserved (or attempted) slot between an instructor
// and a student.
type Session struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	InstructorID int64     `json:"instructorId" db:"instructor_id" example:"3"`
	StudentID    int64     `json:"studentId" db:"student_id" example:"7"`
	Date         time.Time `json:"date" db:"session_date"`
	StartTime    string    `json:"startTime" db:"start_time" example:"10:00"`
	EndTime      string    `json:"endTime" db:"end_time" example:"11:00"`
	Duration     int       `json:"duration" db:"duration_minutes" example:"60"`

	Location SessionLocation `json:"location" db:"location"`
	Status   SessionStatus   `json:"status" db:"status" example:"pending"`

	// Price is computed from the instructor's hourly rate at booking time and
	// frozen thereafter; later rate changes do not touch existing sessions.
	Price         float64       `json:"price" db:"price" example:"80"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status" example:"pending"`

	Notes              *string `json:"notes,omitempty" db:"notes"`
	CancellationReason *string `json:"cancellationReason,omitempty" db:"cancellation_reason"`
	Review             *Review `json:"review,omitempty" db:"review"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Instructor *PublicProfile `json:"instructor,omitempty"`
	Student    *PublicProfile `json:"student,omitempty"`
}

// IsParty reports whether userID is the instructor or the student on the session.
func (s *Session) IsParty(userID int64) bool {
	return s.InstructorID == userID || s.StudentID == userID
}

// SessionPrice computes the booking price from an hourly rate and a duration
// in minutes.
func SessionPrice(hourlyRate float64, durationMinutes int) float64 {
	return hourlyRate * float64(durationMinutes) / 60
}

// Slot identifies a requested booking window on a specific date.
type Slot struct {
	Date      time.Time
	StartTime string
	EndTime   string
}

// ConflictPolicy decides whether a requested slot collides with an existing
// non-terminal session on the same date. It is injected into the booking
// reconciler so the conflict rule can be swapped without touching the rest of
// the flow.
type ConflictPolicy func(requested Slot, existing *Session) bool

// ExactSlotConflict flags a conflict only when the (startTime, endTime) pair
// matches exactly. Two bookings with different but overlapping windows both
// pass. This is the default policy.
func ExactSlotConflict(requested Slot, existing *Session) bool {
	return existing.StartTime == requested.StartTime && existing.EndTime == requested.EndTime
}

// OverlapSlotConflict flags a conflict when the requested interval overlaps
// the existing one at all. The stricter alternative to ExactSlotConflict.
func OverlapSlotConflict(requested Slot, existing *Session) bool {
	reqStart, err := ParseMinuteOfDay(requested.StartTime)
	if err != nil {
		return false
	}
	reqEnd, err := ParseMinuteOfDay(requested.EndTime)
	if err != nil {
		return false
	}
	exStart, err := ParseMinuteOfDay(existing.StartTime)
	if err != nil {
		return false
	}
	exEnd, err := ParseMinuteOfDay(existing.EndTime)
	if err != nil {
		return false
	}
	return reqStart < exEnd && exStart < reqEnd
}
