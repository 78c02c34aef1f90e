package repositories_test

import (
	"context"
	"errors"
	"testing"

	"bookstore-api/internal/adapters/persistence/models"
	"bookstore-api/internal/adapters/persistence/repositories"
	"bookstore-api/internal/adapters/persistence/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowRepositoryListsEachBookOnceInFirstBorrowOrder(t *testing.T) {
	db := testdb.New(t)
	repo := repositories.NewBorrowRepository(db)
	ctx := context.Background()

	user := testdb.CreateUser(t, db, "reader@example.com")
	dune := testdb.CreateBook(t, db, "Dune")
	solaris := testdb.CreateBook(t, db, "Solaris")

	for _, bookID := range []uint{solaris.ID, dune.ID, solaris.ID, dune.ID} {
		require.NoError(t, repo.Create(ctx, &models.BorrowedBook{UserID: user.ID, BookID: bookID}))
	}

	books, err := repo.ListBooksByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, solaris.ID, books[0].ID)
	assert.Equal(t, "Solaris", books[0].Name)
	assert.Equal(t, dune.ID, books[1].ID)
	assert.Equal(t, "Dune", books[1].Name)

	count, err := repo.CountByBookID(ctx, solaris.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestBorrowRepositoryDeleteRemovesEveryMatchingRecord(t *testing.T) {
	db := testdb.New(t)
	repo := repositories.NewBorrowRepository(db)
	ctx := context.Background()

	user := testdb.CreateUser(t, db, "a@example.com")
	other := testdb.CreateUser(t, db, "b@example.com")
	book := testdb.CreateBook(t, db, "Dune")

	require.NoError(t, repo.Create(ctx, &models.BorrowedBook{UserID: user.ID, BookID: book.ID}))
	require.NoError(t, repo.Create(ctx, &models.BorrowedBook{UserID: user.ID, BookID: book.ID}))
	require.NoError(t, repo.Create(ctx, &models.BorrowedBook{UserID: other.ID, BookID: book.ID}))

	deleted, err := repo.DeleteByUserAndBook(ctx, user.ID, book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	deleted, err = repo.DeleteByUserAndBook(ctx, user.ID, book.ID)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	books, err := repo.ListBooksByUserID(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestBorrowRepositoryRejectsUnknownBook(t *testing.T) {
	db := testdb.New(t)
	repo := repositories.NewBorrowRepository(db)

	user := testdb.CreateUser(t, db, "reader@example.com")

	err := repo.Create(context.Background(), &models.BorrowedBook{UserID: user.ID, BookID: 404})
	assert.Error(t, err)
}

func TestBookRepositoryFirstOrCreateByName(t *testing.T) {
	db := testdb.New(t)
	repo := repositories.NewBookRepository(db)
	ctx := context.Background()

	first, err := repo.FirstOrCreateByName(ctx, "Dune")
	require.NoError(t, err)
	second, err := repo.FirstOrCreateByName(ctx, "Dune")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	_, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestStoreTransactionRollsBack(t *testing.T) {
	db := testdb.New(t)
	store := repositories.NewStore(db)
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Books().Create(ctx, &models.Book{Name: "Dune"}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = store.Books().GetByName(ctx, "Dune")
	assert.Error(t, err)

	_, total, err := store.Books().List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUserRepositorySoftDelete(t *testing.T) {
	db := testdb.New(t)
	repo := repositories.NewUserRepository(db)
	ctx := context.Background()

	user := testdb.CreateUser(t, db, "reader@example.com")

	exists, err := repo.ExistsByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err = repo.GetByID(ctx, user.ID)
	assert.Error(t, err)

	count, err := repo.CountByRole(ctx, "customer")
	require.NoError(t, err)
	assert.Zero(t, count)
}
