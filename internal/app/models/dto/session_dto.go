package dto

import "github.com/dojolink/dojolink/internal/app/models"

// BookSessionRequest is a student's booking request.
type BookSessionRequest struct {
	InstructorID int64               `json:"instructorId" binding:"required,gt=0"`
	Date         string              `json:"date" binding:"required" example:"2026-09-07"`
	StartTime    string              `json:"startTime" binding:"required,clocktime" example:"10:00"`
	EndTime      string              `json:"endTime" binding:"required,clocktime" example:"11:00"`
	Duration     int                 `json:"duration" binding:"required,gt=0" example:"60"`
	LocationType models.LocationType `json:"locationType" binding:"required,oneof=instructor_location student_location other"`
	Address      string              `json:"address,omitempty"`
	Notes        string              `json:"notes,omitempty"`
}

// UpdateSessionStatusRequest transitions a session's status.
type UpdateSessionStatusRequest struct {
	Status             models.SessionStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
	CancellationReason string               `json:"cancellationReason,omitempty"`
}

// ReviewRequest attaches a review to a completed session.
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

// StageBookingRequest parks a booking payload before the student has logged
// in, so nothing leaks through ambient client state.
type StageBookingRequest struct {
	Booking BookSessionRequest `json:"booking" binding:"required"`
}

// StagedBookingResponse returns the claim key for a staged booking.
type StagedBookingResponse struct {
	Success    bool   `json:"success" example:"true"`
	StagingKey string `json:"stagingKey"`
	ExpiresAt  string `json:"expiresAt"`
}
