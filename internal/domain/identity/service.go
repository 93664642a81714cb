package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"family-finance-go/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxNameLength     = 150
)

type Service struct {
	repo     Repository
	blobs    BlobRemover
	log      logger.Logger
	hashCost int
}

func NewService(repo Repository, blobs BlobRemover, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		blobs:    blobs,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, caller access.Principal, input RegisterInput) (*User, error) {
	if !access.IsGlobalAdmin(caller) {
		return nil, ErrAdminOnly
	}
	return s.create(ctx, input)
}

// EnsureAdmin creates the first admin account when no users exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	_, err = s.create(ctx, RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "System",
		LastName:  "Admin",
		Role:      access.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("", "both email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return user, nil
}

// ResolveActive loads the account behind a token subject.
func (s *Service) ResolveActive(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, caller access.Principal, id string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.IsGlobalAdmin(caller) && caller.UserID != user.ID {
		return nil, ErrNotSelf
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, caller access.Principal, id string, input UpdateInput) (*User, error) {
	var result User
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		user, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		isAdmin := access.IsGlobalAdmin(caller)
		if !isAdmin && caller.UserID != user.ID {
			return ErrNotSelf
		}
		if !isAdmin && (input.Role != nil || input.IsActive != nil) {
			return ErrAdminOnly
		}

		if input.FirstName != nil {
			name, err := validateName("first_name", *input.FirstName)
			if err != nil {
				return err
			}
			user.FirstName = name
		}
		if input.LastName != nil {
			name, err := validateName("last_name", *input.LastName)
			if err != nil {
				return err
			}
			user.LastName = name
		}
		if input.Role != nil {
			if !input.Role.Valid() {
				return apperr.Validation("role", "invalid role: "+string(*input.Role))
			}
			user.Role = *input.Role
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}
		if input.Password != nil {
			hash, err := s.hashPassword(*input.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if err := tx.Update(ctx, user); err != nil {
			return err
		}
		result = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) DeleteUser(ctx context.Context, caller access.Principal, id string) error {
	if !access.IsGlobalAdmin(caller) {
		return ErrAdminOnly
	}

	keys, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.removeBlobs(ctx, keys, "user_id", id)
	return nil
}

func (s *Service) create(ctx context.Context, input RegisterInput) (*User, error) {
	email, err := validateEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, apperr.Validation("role", "invalid role: "+string(input.Role))
	}
	firstName, err := validateName("first_name", input.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := validateName("last_name", input.LastName)
	if err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         input.Role,
		IsActive:     true,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetByEmail(ctx, email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		return tx.Create(ctx, &user)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", apperr.Validation("password", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", apperr.Validation("password", err.Error())
	}
	return string(hash), nil
}

func (s *Service) removeBlobs(ctx context.Context, keys []string, args ...any) {
	if s.blobs == nil {
		return
	}
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.log.InternalError("users.delete: remove document blob failed", err, append([]any{"key", key}, args...)...)
		}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(value string) (string, error) {
	email := normalizeEmail(value)
	if email == "" {
		return "", apperr.Validation("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Validation("email", "enter a valid email address")
	}
	return email, nil
}

func validateName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if len([]rune(value)) > maxNameLength {
		return "", apperr.Validation(field, "must be at most 150 characters")
	}
	return value, nil
}
