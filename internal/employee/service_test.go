package employee_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"employee-service/internal/employee"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *memRepo) employee.Service {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := employee.NewValidator(repo.EmailExists, maxImageBytes)
	return employee.NewService(repo, validator, nil, logger)
}

func mustCreate(t *testing.T, svc employee.Service, candidate employee.CandidateFields) *employee.Employee {
	t.Helper()
	created, err := svc.Create(context.Background(), candidate)
	require.NoError(t, err)
	return created
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("AssignsIDAndCreatedAt", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		created := mustCreate(t, svc, validCandidate())
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, "uploads/1-photo.png", created.Image)
	})

	t.Run("RejectionLeavesStoreUnchanged", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		_, err := svc.Create(ctx, employee.CandidateFields{})
		var verrs employee.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Zero(t, repo.count())
	})

	t.Run("RejectsDuplicateEmail", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		mustCreate(t, svc, validCandidate())

		second := validCandidate()
		second.MobileNo = "9876500000"
		_, err := svc.Create(ctx, second)

		codes := fieldCodes(t, err)
		assert.Contains(t, codes, "email/"+employee.CodeDuplicateEmail)
		assert.Equal(t, 1, repo.count())
	})

	t.Run("ConcurrentDuplicateCreateHasOneWinner", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		const attempts = 8
		errs := make([]error, attempts)

		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Create(ctx, validCandidate())
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			codes := fieldCodes(t, err)
			assert.Contains(t, codes, "email/"+employee.CodeDuplicateEmail)
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, repo.count())
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("MergesOnlySuppliedFields", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		created := mustCreate(t, svc, validCandidate())

		updated, err := svc.Update(ctx, created.ID, employee.CandidateFields{Designation: "Manager"})
		require.NoError(t, err)

		assert.Equal(t, "Manager", updated.Designation)
		assert.Equal(t, created.Name, updated.Name)
		assert.Equal(t, created.Email, updated.Email)
		assert.Equal(t, created.MobileNo, updated.MobileNo)
		assert.Equal(t, created.Gender, updated.Gender)
		assert.Equal(t, created.Course, updated.Course)
		assert.Equal(t, created.Image, updated.Image)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	})

	t.Run("NoOpUpdateSucceedsUnchanged", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		created := mustCreate(t, svc, validCandidate())

		updated, err := svc.Update(ctx, created.ID, employee.CandidateFields{})
		require.NoError(t, err)
		assert.Equal(t, created, updated)
	})

	t.Run("UpdateRechecksEmailUniqueness", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		first := mustCreate(t, svc, validCandidate())

		second := validCandidate()
		second.Email = "jane.doe@example.com"
		created := mustCreate(t, svc, second)

		_, err := svc.Update(ctx, created.ID, employee.CandidateFields{Email: first.Email})
		codes := fieldCodes(t, err)
		assert.Contains(t, codes, "email/"+employee.CodeDuplicateEmail)
	})

	t.Run("KeepingOwnEmailIsNotADuplicate", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		created := mustCreate(t, svc, validCandidate())

		updated, err := svc.Update(ctx, created.ID, employee.CandidateFields{Email: created.Email})
		require.NoError(t, err)
		assert.Equal(t, created.Email, updated.Email)
	})

	t.Run("UnknownIDIsNotFound", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		_, err := svc.Update(ctx, 99, employee.CandidateFields{Designation: "Manager"})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("DeleteThenGetIsNotFound", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		created := mustCreate(t, svc, validCandidate())

		require.NoError(t, svc.Delete(ctx, created.ID))

		_, err := svc.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("DeleteTwiceIsNotFound", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		created := mustCreate(t, svc, validCandidate())

		require.NoError(t, svc.Delete(ctx, created.ID))
		assert.ErrorIs(t, svc.Delete(ctx, created.ID), employee.ErrEmployeeNotFound)
	})

	t.Run("UpdateAfterDeleteIsNotFound", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(repo)

		created := mustCreate(t, svc, validCandidate())
		require.NoError(t, svc.Delete(ctx, created.ID))

		_, err := svc.Update(ctx, created.ID, employee.CandidateFields{Designation: "Manager"})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestServiceListPage(t *testing.T) {
	ctx := context.Background()

	repo := newMemRepo()
	svc := newTestService(repo)

	for i := 0; i < 12; i++ {
		candidate := validCandidate()
		candidate.Name = string(rune('A'+i)) + " Employee"
		candidate.Email = candidate.Name[:1] + "@example.com"
		mustCreate(t, svc, candidate)
	}

	page, err := svc.ListPage(ctx, employee.ListQuery{Page: 3, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 12, page.TotalItems)
}
