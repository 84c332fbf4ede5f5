package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"college-library/internal/credential"
	"college-library/internal/dto"
	"college-library/internal/model"
	"college-library/internal/repository"
	"college-library/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityReport is the admin view of member activity: the member total,
// loans issued this month per user, and students ranked by library hours.
type ActivityReport struct {
	TotalMembers int64                        `json:"total_members"`
	MonthlyLoans []repository.MemberLoanCount `json:"monthly_loans"`
	LibraryHours []*model.User                `json:"library_hours"`
}

type MemberService interface {
	Users(ctx context.Context, actorID uuid.UUID, search string) ([]*model.User, error)
	Students(ctx context.Context, actorID uuid.UUID) ([]*model.User, error)
	Admins(ctx context.Context, actorID uuid.UUID) ([]*model.User, error)
	AddStudent(ctx context.Context, actorID uuid.UUID, input dto.AddStudentInput) (*model.User, string, error)
	UpdateStudent(ctx context.Context, actorID, studentID uuid.UUID, input dto.UpdateStudentInput) (*model.User, error)
	DeleteStudent(ctx context.Context, actorID, studentID uuid.UUID) error
	AddAdmin(ctx context.Context, actorID uuid.UUID, input dto.AddAdminInput) (*model.User, string, error)
	DeleteAdmin(ctx context.Context, actorID, adminID uuid.UUID) error
	RecordSession(ctx context.Context, actorID, studentID uuid.UUID, date string, hours float64) (*model.LibrarySession, error)
	Sessions(ctx context.Context, actorID, studentID uuid.UUID) ([]*model.LibrarySession, error)
	Activity(ctx context.Context, actorID uuid.UUID) (*ActivityReport, error)
}

type memberService struct {
	users    repository.UserRepository
	loans    repository.LoanRepository
	sessions repository.SessionRepository
	now      func() time.Time
}

func NewMemberService(users repository.UserRepository, loans repository.LoanRepository, sessions repository.SessionRepository) MemberService {
	return &memberService{users: users, loans: loans, sessions: sessions, now: time.Now}
}

func NewMemberServiceWithClock(users repository.UserRepository, loans repository.LoanRepository, sessions repository.SessionRepository, now func() time.Time) MemberService {
	return &memberService{users: users, loans: loans, sessions: sessions, now: now}
}

func (s *memberService) requireLibrarian(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.Role.CanManageLibrary() {
		return apperror.ErrForbidden
	}
	return nil
}

func (s *memberService) Users(ctx context.Context, actorID uuid.UUID, search string) ([]*model.User, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}
	if search != "" {
		return s.users.Search(ctx, search)
	}
	return s.users.FindAll(ctx)
}

func (s *memberService) Students(ctx context.Context, actorID uuid.UUID) ([]*model.User, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}
	return s.users.FindByRole(ctx, model.RoleStudent)
}

func (s *memberService) Admins(ctx context.Context, actorID uuid.UUID) ([]*model.User, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}
	return s.users.FindByRole(ctx, model.RoleAdmin)
}

// ensureUnique rejects duplicates on the three unique identity columns.
func (s *memberService) ensureUnique(ctx context.Context, prn, username, email string) error {
	if _, err := s.users.FindByPRN(ctx, prn); !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			return err
		}
		return apperror.ErrDuplicateRecord
	}
	if _, err := s.users.FindByUsername(ctx, username); !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			return err
		}
		return apperror.ErrDuplicateRecord
	}
	if _, err := s.users.FindByEmail(ctx, email); !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			return err
		}
		return apperror.ErrDuplicateRecord
	}
	return nil
}

// AddStudent provisions a student account. The initial password is the
// derived secret, returned so the admin can hand it over.
func (s *memberService) AddStudent(ctx context.Context, actorID uuid.UUID, input dto.AddStudentInput) (*model.User, string, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, "", err
	}

	username := strings.ToLower(input.PRNNumber)
	if err := s.ensureUnique(ctx, input.PRNNumber, username, input.Email); err != nil {
		return nil, "", err
	}

	password := credential.DeriveSecret(input.MotherName, input.DOB)
	hash, err := credential.HashSecret(password)
	if err != nil {
		return nil, "", err
	}

	student := &model.User{
		PRNNumber:    input.PRNNumber,
		Username:     username,
		Email:        input.Email,
		Name:         input.Name,
		MotherName:   input.MotherName,
		DOB:          input.DOB,
		Phone:        input.Phone,
		Address:      input.Address,
		Year:         input.Year,
		Course:       input.Course,
		Role:         model.RoleStudent,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, student); err != nil {
		return nil, "", err
	}
	return student, password, nil
}

// UpdateStudent rewrites the profile and re-derives the password from the
// updated mother name and date of birth, as the legacy system does.
func (s *memberService) UpdateStudent(ctx context.Context, actorID, studentID uuid.UUID, input dto.UpdateStudentInput) (*model.User, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	student.Name = input.Name
	student.Email = input.Email
	student.MotherName = input.MotherName
	student.DOB = input.DOB
	student.Phone = input.Phone
	student.Address = input.Address
	student.Year = input.Year
	student.Course = input.Course

	hash, err := credential.HashSecret(credential.DeriveSecret(input.MotherName, input.DOB))
	if err != nil {
		return nil, err
	}
	student.PasswordHash = hash

	if err := s.users.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *memberService) DeleteStudent(ctx context.Context, actorID, studentID uuid.UUID) error {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	openLoans, err := s.loans.CountOpenByUser(ctx, studentID)
	if err != nil {
		return err
	}
	if openLoans > 0 {
		return apperror.ErrHasActiveLoans
	}

	return s.users.Delete(ctx, studentID)
}

func (s *memberService) AddAdmin(ctx context.Context, actorID uuid.UUID, input dto.AddAdminInput) (*model.User, string, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, "", err
	}

	username := strings.ToLower(input.PRNNumber)
	if err := s.ensureUnique(ctx, input.PRNNumber, username, input.Email); err != nil {
		return nil, "", err
	}

	password := credential.DeriveSecret(input.MotherName, input.DOB)
	hash, err := credential.HashSecret(password)
	if err != nil {
		return nil, "", err
	}

	admin := &model.User{
		PRNNumber:    input.PRNNumber,
		Username:     username,
		Email:        input.Email,
		Name:         input.Name,
		MotherName:   input.MotherName,
		DOB:          input.DOB,
		Phone:        input.Phone,
		Address:      input.Address,
		Role:         model.RoleAdmin,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, admin); err != nil {
		return nil, "", err
	}
	return admin, password, nil
}

func (s *memberService) DeleteAdmin(ctx context.Context, actorID, adminID uuid.UUID) error {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return err
	}

	if actorID == adminID {
		return apperror.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	if target.Role != model.RoleAdmin {
		return apperror.ErrInvalidInput
	}

	return s.users.Delete(ctx, adminID)
}

// RecordSession books attendance hours for a student on a given day.
// Sessions are anchored at 09:00 with the checkout computed from the
// recorded hours.
func (s *memberService) RecordSession(ctx context.Context, actorID, studentID uuid.UUID, date string, hours float64) (*model.LibrarySession, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}
	if hours <= 0 {
		return nil, apperror.ErrInvalidInput
	}

	checkIn := day.Add(9 * time.Hour)
	checkOut := checkIn.Add(time.Duration(hours * float64(time.Hour)))

	session := &model.LibrarySession{
		UserID:   studentID,
		CheckIn:  checkIn,
		CheckOut: &checkOut,
	}
	session.CalculateDuration()

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Sessions lists a student's recorded attendance, newest first.
func (s *memberService) Sessions(ctx context.Context, actorID, studentID uuid.UUID) ([]*model.LibrarySession, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.sessions.FindByUser(ctx, studentID)
}

// Activity aggregates the current calendar month.
func (s *memberService) Activity(ctx context.Context, actorID uuid.UUID) (*ActivityReport, error) {
	if err := s.requireLibrarian(ctx, actorID); err != nil {
		return nil, err
	}

	totalMembers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	monthlyLoans, err := s.loans.MonthlyLoanCounts(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	libraryHours, err := s.users.TopLibraryHours(ctx)
	if err != nil {
		return nil, err
	}

	return &ActivityReport{
		TotalMembers: totalMembers,
		MonthlyLoans: monthlyLoans,
		LibraryHours: libraryHours,
	}, nil
}
