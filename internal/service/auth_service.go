package service

import (
	"context"
	"errors"
	"log"
	"time"

	"college-library/internal/credential"
	"college-library/internal/dto"
	"college-library/internal/model"
	"college-library/internal/repository"
	"college-library/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*model.User, error)
	Login(ctx context.Context, input dto.LoginInput, portal model.Role) (*dto.AuthResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*model.User, error)
}

type authService struct {
	users    repository.UserRepository
	rdb      *redis.Client
	secret   string
	tokenTTL time.Duration
	throttle time.Duration
	now      func() time.Time
}

func NewAuthService(users repository.UserRepository, rdb *redis.Client, secret string, tokenTTL, throttle time.Duration) AuthService {
	return &authService{
		users:    users,
		rdb:      rdb,
		secret:   secret,
		tokenTTL: tokenTTL,
		throttle: throttle,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*model.User, error) {
	role := model.Role(input.Role)
	if !role.Valid() {
		return nil, apperror.ErrInvalidInput
	}

	for _, lookup := range []func() error{
		func() error { _, err := s.users.FindByPRN(ctx, input.PRNNumber); return err },
		func() error { _, err := s.users.FindByUsername(ctx, input.Username); return err },
		func() error { _, err := s.users.FindByEmail(ctx, input.Email); return err },
	} {
		err := lookup()
		if err == nil {
			return nil, apperror.ErrDuplicateRecord
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	hash, err := credential.HashSecret(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		PRNNumber:    input.PRNNumber,
		Username:     input.Username,
		Email:        input.Email,
		Name:         input.Name,
		MotherName:   input.MotherName,
		DOB:          input.DOB,
		Phone:        input.Phone,
		Address:      input.Address,
		Role:         role,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates against one of the two portals; logging in with an
// account of the other role is refused, as the legacy portals do.
func (s *authService) Login(ctx context.Context, input dto.LoginInput, portal model.Role) (*dto.AuthResponse, error) {
	ok, err := CheckAndSetRateLimit(ctx, s.rdb, input.PRNNumber, "login", s.throttle)
	if err != nil {
		// Redis being down must not lock everyone out.
		log.Printf("login throttle check failed: %v", err)
	} else if !ok {
		return nil, apperror.ErrTooManyAttempts
	}

	user, err := s.users.FindByPRN(ctx, input.PRNNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredential
		}
		return nil, err
	}

	if !credential.Verify(user.PasswordHash, input.Password) {
		return nil, apperror.ErrInvalidCredential
	}

	if user.Role != portal {
		return nil, apperror.ErrForbidden
	}

	if err := ClearRateLimit(ctx, s.rdb, input.PRNNumber, "login"); err != nil {
		log.Printf("failed to clear login throttle: %v", err)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        user,
	}, nil
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Email = input.Email

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
