package employee

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Publisher receives change notifications after successful writes. A nil
// publisher is valid; events are best-effort and never fail the request.
type Publisher interface {
	Publish(ctx context.Context, action string, employee *Employee)
}

type Service interface {
	Create(ctx context.Context, candidate CandidateFields) (*Employee, error)
	GetAll(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	Update(ctx context.Context, id int64, candidate CandidateFields) (*Employee, error)
	Delete(ctx context.Context, id int64) error
	ListPage(ctx context.Context, query ListQuery) (*ListPage, error)
}

type service struct {
	repo      Repository
	validator *Validator
	events    Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, validator *Validator, events Publisher, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		validator: validator,
		events:    events,
		logger:    logger,
	}
}

// Create validates the candidate, assigns CreatedAt and inserts. Nothing is
// written when any field check fails. The unique index on email backs up the
// validator's existence check, so a concurrent duplicate create is reported
// as the same DuplicateEmail field error.
func (s *service) Create(ctx context.Context, candidate CandidateFields) (*Employee, error) {
	accepted, err := s.validator.Validate(ctx, candidate, ModeCreate, nil)
	if err != nil {
		return nil, err
	}

	employee := &Employee{
		Name:        accepted.Name,
		Email:       accepted.Email,
		MobileNo:    accepted.MobileNo,
		Designation: accepted.Designation,
		Gender:      accepted.Gender,
		Course:      accepted.Course,
		CreatedAt:   time.Now().UTC(),
	}
	if accepted.Image != nil {
		employee.Image = accepted.Image.Path
	}

	created, err := s.repo.Create(ctx, employee)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ValidationErrors{{Field: "email", Code: CodeDuplicateEmail, Msg: "Email already in use"}}
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "employee created", "id", created.ID, "email", created.Email)
	s.publish(ctx, "created", created)
	return created, nil
}

func (s *service) GetAll(ctx context.Context) ([]Employee, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	if id <= 0 {
		return nil, ErrEmployeeNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Update merges the accepted candidate fields over the stored record. Only
// supplied, non-empty fields overwrite; ID and CreatedAt never change. An
// email change always re-checks uniqueness, excluding the record itself.
func (s *service) Update(ctx context.Context, id int64, candidate CandidateFields) (*Employee, error) {
	if id <= 0 {
		return nil, ErrEmployeeNotFound
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	accepted, err := s.validator.Validate(ctx, candidate, ModeUpdate, existing)
	if err != nil {
		return nil, err
	}

	merged := *existing
	applyFields(&merged, accepted)

	if err := s.repo.Update(ctx, &merged); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ValidationErrors{{Field: "email", Code: CodeDuplicateEmail, Msg: "Email already in use"}}
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "employee updated", "id", merged.ID)
	s.publish(ctx, "updated", &merged)
	return &merged, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrEmployeeNotFound
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "employee deleted", "id", id)
	s.publish(ctx, "deleted", existing)
	return nil
}

// ListPage projects a point-in-time snapshot of the collection into one
// filtered, sorted, fixed-size page.
func (s *service) ListPage(ctx context.Context, query ListQuery) (*ListPage, error) {
	employees, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	page := Project(employees, query)
	return &page, nil
}

func applyFields(e *Employee, accepted CandidateFields) {
	if accepted.Name != "" {
		e.Name = accepted.Name
	}
	if accepted.Email != "" {
		e.Email = accepted.Email
	}
	if accepted.MobileNo != "" {
		e.MobileNo = accepted.MobileNo
	}
	if accepted.Designation != "" {
		e.Designation = accepted.Designation
	}
	if accepted.Gender != "" {
		e.Gender = accepted.Gender
	}
	if accepted.Course != "" {
		e.Course = accepted.Course
	}
	if accepted.Image != nil {
		e.Image = accepted.Image.Path
	}
}

func (s *service) publish(ctx context.Context, action string, employee *Employee) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, action, employee)
}
