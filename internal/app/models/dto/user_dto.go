package dto

import "github.com/dojolink/dojolink/internal/app/models"

// UpdateProfileRequest represents profile update data. Email, password and
// role are immutable through this endpoint.
type UpdateProfileRequest struct {
	FirstName         *string                       `json:"firstName,omitempty"`
	LastName          *string                       `json:"lastName,omitempty"`
	PhoneNumber       *string                       `json:"phoneNumber,omitempty"`
	Bio               *string                       `json:"bio,omitempty"`
	ProfilePicture    *string                       `json:"profilePicture,omitempty"`
	Credentials       *models.InstructorCredentials `json:"credentials,omitempty"`
	Location          *models.Location              `json:"location,omitempty"`
	PreferredLocation *models.Location              `json:"preferredLocation,omitempty"`
	ExperienceLevel   *models.ExperienceLevel       `json:"experienceLevel,omitempty"`
}

// UpdateAvailabilityRequest replaces an instructor's weekly schedule wholesale.
type UpdateAvailabilityRequest struct {
	Availability models.WeeklyAvailability `json:"availability" binding:"required"`
}

// UpdateHourlyRateRequest sets an instructor's session rate.
type UpdateHourlyRateRequest struct {
	SessionRate float64 `json:"sessionRate" binding:"required,gt=0"`
}

// InstructorSearchQuery carries the optional instructor search filters.
type InstructorSearchQuery struct {
	City          string  `form:"city"`
	State         string  `form:"state"`
	Country       string  `form:"country"`
	MinRate       float64 `form:"minRate"`
	MaxRate       float64 `form:"maxRate"`
	BeltRank      string  `form:"beltRank"`
	MinExperience int     `form:"minExperience"`
}
