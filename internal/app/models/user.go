package models

import (
	"time"
)

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat" example:"40.7128"`
	Lng float64 `json:"lng" example:"-74.0060"`
}

// Location describes where a user is based or prefers to train.
type Location struct {
	City        string    `json:"city,omitempty" example:"Austin"`
	State       string    `json:"state,omitempty" example:"TX"`
	Country     string    `json:"country,omitempty" example:"USA"`
	Coordinates *GeoPoint `json:"coordinates,omitempty"`
}

// InstructorCredentials holds an instructor's martial-arts background.
type InstructorCredentials struct {
	BeltRank           string   `json:"beltRank,omitempty" example:"black"`
	YearsOfExperience  int      `json:"yearsOfExperience,omitempty" example:"12"`
	TeachingExperience int      `json:"teachingExperience,omitempty" example:"6"`
	Certifications     []string `json:"certifications,omitempty"`
}

// User defines the user model based on the 'users' table. Instructor-specific
// fields (credentials, availability, session rate, location) and
// student-specific fields (preferred location, experience level) are nullable
// and populated per role.
type User struct {
	ID          int64    `json:"id" db:"id" example:"1"`
	Email       string   `json:"email" db:"email" example:"coach@dojolink.io"`
	Password    string   `json:"-" db:"password"`
	Role        RoleType `json:"role" db:"role" example:"instructor"`
	FirstName   string   `json:"firstName" db:"first_name" example:"Rickson"`
	LastName    string   `json:"lastName" db:"last_name" example:"Machado"`
	PhoneNumber *string  `json:"phoneNumber,omitempty" db:"phone_number"`

	// Instructor specific fields
	Credentials  *InstructorCredentials `json:"credentials,omitempty" db:"credentials"`
	Availability WeeklyAvailability     `json:"availability,omitempty" db:"availability"`
	SessionRate  *float64               `json:"sessionRate,omitempty" db:"session_rate" example:"80"`
	Location     *Location              `json:"location,omitempty" db:"location"`
	Bio          *string                `json:"bio,omitempty" db:"bio"`

	ProfilePicture *string `json:"profilePicture,omitempty" db:"profile_picture"`

	// Student specific fields
	PreferredLocation *Location        `json:"preferredLocation,omitempty" db:"preferred_location"`
	ExperienceLevel   *ExperienceLevel `json:"experienceLevel,omitempty" db:"experience_level"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HourlyRate returns the instructor's session rate, zero when unset.
func (u *User) HourlyRate() float64 {
	if u.SessionRate == nil {
		return 0
	}
	return *u.SessionRate
}

// PublicProfile is a User trimmed for instructor listings: never exposes the
// password hash, and omits the availability set from search results.
type PublicProfile struct {
	ID             int64                  `json:"id"`
	Email          string                 `json:"email"`
	Role           RoleType               `json:"role"`
	FirstName      string                 `json:"firstName"`
	LastName       string                 `json:"lastName"`
	Credentials    *InstructorCredentials `json:"credentials,omitempty"`
	SessionRate    *float64               `json:"sessionRate,omitempty"`
	Location       *Location              `json:"location,omitempty"`
	Bio            *string                `json:"bio,omitempty"`
	ProfilePicture *string                `json:"profilePicture,omitempty"`
}

// Public converts a User to its listing form.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Email:          u.Email,
		Role:           u.Role,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Credentials:    u.Credentials,
		SessionRate:    u.SessionRate,
		Location:       u.Location,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
	}
}
