package service

import (
	"context"
	"testing"
	"time"

	"college-library/internal/dto"
	"college-library/internal/model"
	"college-library/internal/repository"
	"college-library/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func newAuthFixture(t *testing.T) (AuthService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewAuthService(
		repository.NewUserRepository(db),
		nil, // no redis in tests, throttling disabled
		testJWTSecret,
		12*time.Hour,
		3*time.Second,
	)
	return svc, db
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, db := newAuthFixture(t)

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)

	res, err := svc.Login(ctx, dto.LoginInput{
		PRNNumber: "PRN2024001",
		Password:  "Sunita15081995",
	}, model.RoleStudent)
	require.NoError(t, err)

	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64((12 * time.Hour).Seconds()), res.ExpiresIn)
	assert.Equal(t, student.ID, res.User.ID)

	token, err := jwt.ParseWithClaims(res.AccessToken, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, student.ID.String(), claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, db := newAuthFixture(t)

	seedUser(t, db, "PRN2024001", model.RoleStudent)

	_, err := svc.Login(ctx, dto.LoginInput{PRNNumber: "PRN2024001", Password: "wrong"}, model.RoleStudent)
	assert.ErrorIs(t, err, apperror.ErrInvalidCredential)

	// Unknown accounts answer identically to wrong passwords.
	_, err = svc.Login(ctx, dto.LoginInput{PRNNumber: "PRN9999999", Password: "whatever"}, model.RoleStudent)
	assert.ErrorIs(t, err, apperror.ErrInvalidCredential)
}

func TestLoginPortalMismatch(t *testing.T) {
	ctx := context.Background()
	svc, db := newAuthFixture(t)

	seedUser(t, db, "PRN2024001", model.RoleStudent)
	seedUser(t, db, "ADM2024001", model.RoleAdmin)

	_, err := svc.Login(ctx, dto.LoginInput{PRNNumber: "PRN2024001", Password: "Sunita15081995"}, model.RoleAdmin)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Login(ctx, dto.LoginInput{PRNNumber: "ADM2024001", Password: "Sunita15081995"}, model.RoleStudent)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func registerInput(prn string) dto.RegisterInput {
	return dto.RegisterInput{
		PRNNumber:  prn,
		Username:   prn,
		Name:       "New Student",
		Email:      prn + "@college.edu",
		MotherName: "Geeta",
		DOB:        "10121997",
		Role:       "student",
		Password:   "Geeta10121997",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	user, err := svc.Register(ctx, registerInput("PRN2024050"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)

	_, err = svc.Login(ctx, dto.LoginInput{PRNNumber: "PRN2024050", Password: "Geeta10121997"}, model.RoleStudent)
	assert.NoError(t, err)
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(ctx, registerInput("PRN2024050"))
	require.NoError(t, err)

	dup := registerInput("PRN2024051")
	dup.Email = "PRN2024050@college.edu"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, apperror.ErrDuplicateRecord)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	input := registerInput("PRN2024050")
	input.Role = "librarian"
	_, err := svc.Register(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, db := newAuthFixture(t)

	student := seedUser(t, db, "PRN2024001", model.RoleStudent)

	updated, err := svc.UpdateProfile(ctx, student.ID, dto.UpdateProfileInput{
		Name:  "Renamed Student",
		Email: "renamed@college.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Student", updated.Name)

	profile, err := svc.Profile(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed@college.edu", profile.Email)
}
