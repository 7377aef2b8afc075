package employee

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDuplicateEmail   = errors.New("email already in use")
)

type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	GetAll(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) Create(ctx context.Context, employee *Employee) (*Employee, error) {
	_, err := r.db.NewInsert().Model(employee).Returning("*").Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return employee, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.NewSelect().Model(&employees).Scan(ctx)
	return employees, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	employee := new(Employee)
	err := r.db.NewSelect().Model(employee).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (r *repository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := r.db.NewSelect().Model((*Employee)(nil)).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	return q.Exists(ctx)
}

func (r *repository) Update(ctx context.Context, employee *Employee) error {
	result, err := r.db.NewUpdate().Model(employee).WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	employee := &Employee{ID: id}
	result, err := r.db.NewDelete().Model(employee).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// isUniqueViolation detects the Postgres unique_violation error (23505).
// The unique index on email is the backstop that makes the check-then-insert
// race resolve with exactly one winner.
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}
