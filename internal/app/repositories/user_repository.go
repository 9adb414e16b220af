package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/pkg/apperrors"
	"github.com/dojolink/dojolink/internal/pkg/dberrors"
	"github.com/dojolink/dojolink/internal/pkg/logger"
)

const userColumns = `id, email, password, role, first_name, last_name, phone_number,
	credentials, availability, session_rate, location, bio, profile_picture,
	preferred_location, experience_level, created_at, updated_at`

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.Role, &user.FirstName,
		&user.LastName, &user.PhoneNumber, &user.Credentials, &user.Availability,
		&user.SessionRate, &user.Location, &user.Bio, &user.ProfilePicture,
		&user.PreferredLocation, &user.ExperienceLevel, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user and sets its generated ID.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password, role, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		strings.ToLower(strings.TrimSpace(user.Email)), user.Password, user.Role,
		user.FirstName, user.LastName).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`,
		id))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by id: %w", err)
	}

	return user, nil
}

// GetInstructorByID retrieves a user by ID constrained to the instructor role.
func (r *UserRepository) GetInstructorByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND role = $2`,
		id, models.RoleInstructor))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		return nil, fmt.Errorf("error getting instructor: %w", err)
	}

	return user, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email))).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// UpdateProfile applies non-nil profile fields to the user row. Email,
// password and role are never touched here.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, req *models.ProfileUpdate) (*models.User, error) {
	update := r.sb.Update("users").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		Suffix("RETURNING " + userColumns)

	if req.FirstName != nil {
		update = update.Set("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		update = update.Set("last_name", *req.LastName)
	}
	if req.PhoneNumber != nil {
		update = update.Set("phone_number", *req.PhoneNumber)
	}
	if req.Bio != nil {
		update = update.Set("bio", *req.Bio)
	}
	if req.ProfilePicture != nil {
		update = update.Set("profile_picture", *req.ProfilePicture)
	}
	if req.Credentials != nil {
		update = update.Set("credentials", req.Credentials)
	}
	if req.Location != nil {
		update = update.Set("location", req.Location)
	}
	if req.PreferredLocation != nil {
		update = update.Set("preferred_location", req.PreferredLocation)
	}
	if req.ExperienceLevel != nil {
		update = update.Set("experience_level", *req.ExperienceLevel)
	}

	sqlStr, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile update query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return user, nil
}

// ReplaceAvailability overwrites the stored weekly schedule atomically. There
// are no partial updates: the prior set for the instructor is discarded.
func (r *UserRepository) ReplaceAvailability(ctx context.Context, userID int64, availability models.WeeklyAvailability) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET availability = $2, updated_at = NOW()
		WHERE id = $1`,
		userID, availability)
	if err != nil {
		return fmt.Errorf("error replacing availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateSessionRate sets the instructor's hourly rate
func (r *UserRepository) UpdateSessionRate(ctx context.Context, userID int64, rate float64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET session_rate = $2, updated_at = NOW()
		WHERE id = $1`,
		userID, rate)
	if err != nil {
		return fmt.Errorf("error updating session rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SearchInstructors lists instructors matching the optional filters, sorted
// by years of experience descending. Availability is intentionally omitted
// from listing results.
func (r *UserRepository) SearchInstructors(ctx context.Context, filters models.InstructorFilters) ([]models.PublicProfile, error) {
	query := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"role": models.RoleInstructor})

	if filters.City != "" {
		query = query.Where(squirrel.ILike{"location->>'city'": "%" + strings.TrimSpace(filters.City) + "%"})
	}
	if filters.State != "" {
		query = query.Where(squirrel.ILike{"location->>'state'": "%" + strings.TrimSpace(filters.State) + "%"})
	}
	if filters.Country != "" {
		query = query.Where(squirrel.ILike{"location->>'country'": "%" + strings.TrimSpace(filters.Country) + "%"})
	}
	if filters.MinRate > 0 {
		query = query.Where(squirrel.GtOrEq{"session_rate": filters.MinRate})
	}
	if filters.MaxRate > 0 {
		query = query.Where(squirrel.LtOrEq{"session_rate": filters.MaxRate})
	}
	if filters.BeltRank != "" {
		query = query.Where(squirrel.Eq{"credentials->>'beltRank'": filters.BeltRank})
	}
	if filters.MinExperience > 0 {
		query = query.Where(squirrel.Expr("COALESCE((credentials->>'yearsOfExperience')::int, 0) >= ?", filters.MinExperience))
	}

	query = query.OrderBy("COALESCE((credentials->>'yearsOfExperience')::int, 0) DESC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building instructor search SQL")
		return nil, fmt.Errorf("failed to build instructor search query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error searching instructors: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.PublicProfile, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning instructor row: %w", err)
		}
		profiles = append(profiles, user.Public())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instructor rows: %w", err)
	}

	return profiles, nil
}
