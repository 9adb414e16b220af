package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/app/models/dto"
	"github.com/dojolink/dojolink/internal/pkg/apperrors"
	"github.com/dojolink/dojolink/internal/pkg/auth"
)

type mockAuthUserStore struct {
	createFunc      func(ctx context.Context, user *models.User) error
	getByEmailFunc  func(ctx context.Context, email string) (*models.User, error)
	emailExistsFunc func(ctx context.Context, email string) (bool, error)
}

func (m *mockAuthUserStore) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockAuthUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockAuthUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFunc != nil {
		return m.emailExistsFunc(ctx, email)
	}
	return false, nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "dojolink.test",
	})
}

func TestRegisterIssuesToken(t *testing.T) {
	var created *models.User
	store := &mockAuthUserStore{
		createFunc: func(ctx context.Context, user *models.User) error {
			user.ID = 5
			created = user
			return nil
		},
	}
	svc := NewAuthService(store, testJWTService(), zerolog.Nop())

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "New.Student@Example.COM",
		Password:  "supersecret",
		Role:      models.RoleStudent,
		FirstName: "Kai",
		LastName:  "Tanaka",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if created == nil {
		t.Fatal("user was not persisted")
	}
	if created.Email != "new.student@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}
	if created.Password == "supersecret" {
		t.Error("password stored in plaintext")
	}
	if !auth.CheckPassword(created.Password, "supersecret") {
		t.Error("stored hash does not verify against the original password")
	}
	if resp.Token == "" || resp.ExpiresIn <= 0 {
		t.Error("response is missing a usable token")
	}
	if resp.User.ID != 5 || resp.User.Role != models.RoleStudent {
		t.Errorf("user summary = %+v", resp.User)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &mockAuthUserStore{
		emailExistsFunc: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewAuthService(store, testJWTService(), zerolog.Nop())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "taken@example.com",
		Password:  "supersecret",
		Role:      models.RoleInstructor,
		FirstName: "Ana",
		LastName:  "Silva",
	})
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	stored := &models.User{ID: 5, Email: "kai@example.com", Password: hash, Role: models.RoleStudent}

	store := &mockAuthUserStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, apperrors.ErrUserNotFound
		},
	}
	svc := NewAuthService(store, testJWTService(), zerolog.Nop())

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "kai@example.com", Password: "correct-horse"})
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "kai@example.com", Password: "wrong"})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email maps to the same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
