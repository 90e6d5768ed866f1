package user_test

import (
	"context"
	"testing"

	"records-service/internal/integrity"
	"records-service/internal/metrics"
	"records-service/internal/testdb"
	"records-service/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	repo := user.NewRepository(pgContainer.DB, metrics.NewMock())
	ctx := context.Background()

	t.Run("Create_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		created, err := repo.Create(ctx, &user.User{
			Email:    "alice@school.test",
			FullName: "Alice Novak",
			Role:     integrity.RoleTeacher,
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("Create_DuplicateEmail", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		_, err := repo.Create(ctx, &user.User{Email: "bob@school.test", FullName: "Bob One", Role: integrity.RoleStudent})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &user.User{Email: "bob@school.test", FullName: "Bob Two", Role: integrity.RoleStudent})
		assert.ErrorIs(t, err, integrity.ErrDuplicateKey)
	})

	t.Run("GetAll_RoleFilter", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		for _, u := range []*user.User{
			{Email: "t@school.test", FullName: "A Teacher", Role: integrity.RoleTeacher},
			{Email: "s1@school.test", FullName: "Student One", Role: integrity.RoleStudent},
			{Email: "s2@school.test", FullName: "Student Two", Role: integrity.RoleStudent},
		} {
			_, err := repo.Create(ctx, u)
			require.NoError(t, err)
		}

		all, err := repo.GetAll(ctx, "", 50, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		students, err := repo.GetAll(ctx, integrity.RoleStudent, 50, 0)
		require.NoError(t, err)
		assert.Len(t, students, 2)
	})

	t.Run("GetByID_Missing", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		_, err := repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, integrity.ErrNotFound)
	})

	t.Run("Update_PartialPatch", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		created, err := repo.Create(ctx, &user.User{Email: "carol@school.test", FullName: "Carol Old", Role: integrity.RoleStudent})
		require.NoError(t, err)

		name := "Carol New"
		updated, err := repo.Update(ctx, created.ID, user.Update{FullName: &name})
		require.NoError(t, err)

		assert.Equal(t, "Carol New", updated.FullName)
		assert.Equal(t, "carol@school.test", updated.Email, "untouched fields keep their values")
		assert.Equal(t, integrity.RoleStudent, updated.Role)
	})

	t.Run("Update_EmptyPatchIsNoOp", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		created, err := repo.Create(ctx, &user.User{Email: "dave@school.test", FullName: "Dave", Role: integrity.RoleAdmin})
		require.NoError(t, err)

		same, err := repo.Update(ctx, created.ID, user.Update{})
		require.NoError(t, err)
		assert.Equal(t, created.FullName, same.FullName)
	})

	t.Run("Update_Missing", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		name := "Nobody"
		_, err := repo.Update(ctx, 9999, user.Update{FullName: &name})
		assert.ErrorIs(t, err, integrity.ErrNotFound)
	})
}
