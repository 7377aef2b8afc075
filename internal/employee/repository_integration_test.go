package employee_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"employee-service/internal/employee"
	"employee-service/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEmployee(email string) *employee.Employee {
	return &employee.Employee{
		Name:        "John Doe",
		Email:       email,
		MobileNo:    "9876543210",
		Designation: "HR",
		Gender:      "male",
		Course:      "MCA",
		Image:       "uploads/1-photo.png",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestRepository_Shared(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t, (*employee.Employee)(nil))

	repo := employee.NewRepository(pgContainer.DB)
	ctx := context.Background()

	t.Run("CreateAssignsID", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "employees")

		created, err := repo.Create(ctx, seedEmployee("john.doe@example.com"))
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	})

	t.Run("DuplicateEmailHitsUniqueIndex", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "employees")

		_, err := repo.Create(ctx, seedEmployee("dup@example.com"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, seedEmployee("dup@example.com"))
		assert.ErrorIs(t, err, employee.ErrDuplicateEmail)
	})

	t.Run("ConcurrentCreateHasOneWinner", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "employees")

		const attempts = 4
		errs := make([]error, attempts)

		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.Create(ctx, seedEmployee("race@example.com"))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, employee.ErrDuplicateEmail)
			}
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("EmailExistsExcludesOwnID", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "employees")

		created, err := repo.Create(ctx, seedEmployee("jane@example.com"))
		require.NoError(t, err)

		taken, err := repo.EmailExists(ctx, "jane@example.com", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.EmailExists(ctx, "jane@example.com", created.ID)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("UpdateMissingRowIsNotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "employees")

		missing := seedEmployee("ghost@example.com")
		missing.ID = 12345
		assert.ErrorIs(t, repo.Update(ctx, missing), employee.ErrEmployeeNotFound)
	})

	t.Run("DeleteThenGetIsNotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "employees")

		created, err := repo.Create(ctx, seedEmployee("gone@example.com"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, created.ID), employee.ErrEmployeeNotFound)
	})
}
