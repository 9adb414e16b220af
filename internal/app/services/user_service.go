package services

import (
	"context"
	"fmt"

	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/app/models/dto"
	"github.com/dojolink/dojolink/internal/pkg/apperrors"
)

// UserStore is the user persistence surface for profile operations.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetInstructorByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update *models.ProfileUpdate) (*models.User, error)
	ReplaceAvailability(ctx context.Context, userID int64, availability models.WeeklyAvailability) error
	UpdateSessionRate(ctx context.Context, userID int64, rate float64) error
	SearchInstructors(ctx context.Context, filters models.InstructorFilters) ([]models.PublicProfile, error)
}

// UserService defines profile, availability and instructor discovery
// operations.
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error)
	ReplaceAvailability(ctx context.Context, userID int64, role models.RoleType, availability models.WeeklyAvailability) (models.WeeklyAvailability, error)
	UpdateHourlyRate(ctx context.Context, userID int64, role models.RoleType, rate float64) error
	SearchInstructors(ctx context.Context, filters models.InstructorFilters) ([]models.PublicProfile, error)
	GetInstructor(ctx context.Context, instructorID int64) (*models.User, error)
}

type userServiceImpl struct {
	users UserStore
}

// NewUserService creates a new user service instance
func NewUserService(users UserStore) UserService {
	return &userServiceImpl{users: users}
}

// GetProfile retrieves the caller's own profile
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies partial profile changes. Email, password and role
// cannot be changed through this path.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	if req.ExperienceLevel != nil && !req.ExperienceLevel.Valid() {
		return nil, fmt.Errorf("%w: unknown experience level %q", apperrors.ErrValidationFailed, *req.ExperienceLevel)
	}

	update := &models.ProfileUpdate{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PhoneNumber:       req.PhoneNumber,
		Bio:               req.Bio,
		ProfilePicture:    req.ProfilePicture,
		Credentials:       req.Credentials,
		Location:          req.Location,
		PreferredLocation: req.PreferredLocation,
		ExperienceLevel:   req.ExperienceLevel,
	}

	return s.users.UpdateProfile(ctx, userID, update)
}

// ReplaceAvailability overwrites the instructor's weekly schedule wholesale.
// The new set must be structurally valid: known weekday names, well-formed
// HH:MM times, start before end, and no overlapping windows within a day.
func (s *userServiceImpl) ReplaceAvailability(ctx context.Context, userID int64, role models.RoleType, availability models.WeeklyAvailability) (models.WeeklyAvailability, error) {
	if !role.IsInstructor() {
		return nil, apperrors.ErrPermissionDenied
	}

	if err := availability.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	if err := s.users.ReplaceAvailability(ctx, userID, availability); err != nil {
		return nil, err
	}

	return availability, nil
}

// UpdateHourlyRate sets the instructor's session rate. Existing sessions keep
// their frozen price.
func (s *userServiceImpl) UpdateHourlyRate(ctx context.Context, userID int64, role models.RoleType, rate float64) error {
	if !role.IsInstructor() {
		return apperrors.ErrPermissionDenied
	}
	if rate <= 0 {
		return fmt.Errorf("%w: session rate must be positive", apperrors.ErrValidationFailed)
	}

	return s.users.UpdateSessionRate(ctx, userID, rate)
}

// SearchInstructors lists instructors matching the given filters
func (s *userServiceImpl) SearchInstructors(ctx context.Context, filters models.InstructorFilters) ([]models.PublicProfile, error) {
	return s.users.SearchInstructors(ctx, filters)
}

// GetInstructor retrieves a single instructor's public details
func (s *userServiceImpl) GetInstructor(ctx context.Context, instructorID int64) (*models.User, error) {
	return s.users.GetInstructorByID(ctx, instructorID)
}
