package postgresengine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libtrack/recordstore-go/library/tables"
	"github.com/libtrack/recordstore-go/recordstore"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine"
	"github.com/libtrack/recordstore-go/test"
)

func Test_NewUnitOfWork_WithNilPool_Fails(t *testing.T) {
	// act
	_, err := postgresengine.NewUnitOfWork(nil)

	// assert
	assert.ErrorIs(t, err, recordstore.ErrNilDatabaseConnection)
}

func Test_UnitOfWork_Complete_CommitsTheWork(t *testing.T) {
	// setup
	ctx, pool := newTestPool(t)
	repo := newAuthorRepo(t, pool)

	// arrange
	uow, uowErr := postgresengine.NewUnitOfWork(pool)
	assert.NoError(t, uowErr)

	row := test.BuildAuthorRow(test.GivenUniqueID(t), "Isaac Asimov")

	// act
	workErr := uow.Complete(ctx, func(ctx context.Context) error {
		scoped, repoErr := postgresengine.RepositoryInScope(uow, tables.Authors)
		if repoErr != nil {
			return repoErr
		}

		_, saveErr := scoped.Save(ctx, row)

		return saveErr
	})

	// assert
	assert.NoError(t, workErr)

	_, found, findErr := repo.FindOne(ctx, recordstore.ByID(row.ID))
	assert.NoError(t, findErr)
	assert.True(t, found, "committed work must be visible outside the scope")
}

func Test_UnitOfWork_Complete_RollsBackWhenTheWorkFails(t *testing.T) {
	// setup
	ctx, pool := newTestPool(t)
	repo := newAuthorRepo(t, pool)

	// arrange
	uow, uowErr := postgresengine.NewUnitOfWork(pool)
	assert.NoError(t, uowErr)

	row := test.BuildAuthorRow(test.GivenUniqueID(t), "Isaac Asimov")
	failure := errors.New("the work decided to fail")

	// act
	workErr := uow.Complete(ctx, func(ctx context.Context) error {
		scoped, repoErr := postgresengine.RepositoryInScope(uow, tables.Authors)
		if repoErr != nil {
			return repoErr
		}

		if _, saveErr := scoped.Save(ctx, row); saveErr != nil {
			return saveErr
		}

		return failure
	})

	// assert
	assert.ErrorIs(t, workErr, failure, "the work error must be preserved")

	_, found, findErr := repo.FindOne(ctx, recordstore.ByID(row.ID))
	assert.NoError(t, findErr)
	assert.False(t, found, "rolled back work must leave no trace")
}

func Test_UnitOfWork_ScopedWritesAreInvisibleUntilCommit(t *testing.T) {
	// setup
	ctx, pool := newTestPool(t)
	outside := newAuthorRepo(t, pool)

	// arrange
	uow, uowErr := postgresengine.NewUnitOfWork(pool)
	assert.NoError(t, uowErr)

	row := test.BuildAuthorRow(test.GivenUniqueID(t), "Isaac Asimov")

	// act / assert
	workErr := uow.Complete(ctx, func(ctx context.Context) error {
		scoped, repoErr := postgresengine.RepositoryInScope(uow, tables.Authors)
		if repoErr != nil {
			return repoErr
		}

		if _, saveErr := scoped.Save(ctx, row); saveErr != nil {
			return saveErr
		}

		_, visibleOutside, findErr := outside.FindOne(ctx, recordstore.ByID(row.ID))
		if findErr != nil {
			return findErr
		}

		assert.False(t, visibleOutside, "uncommitted work must not leak out of the scope")

		return nil
	})
	assert.NoError(t, workErr)
}

func Test_UnitOfWork_StartTransaction_Twice_Fails(t *testing.T) {
	// setup
	ctx, pool := newTestPool(t)

	// arrange
	uow, uowErr := postgresengine.NewUnitOfWork(pool)
	assert.NoError(t, uowErr)
	defer uow.Release()

	assert.NoError(t, uow.StartTransaction(ctx, recordstore.ReadCommitted))

	// act
	err := uow.StartTransaction(ctx)

	// assert
	assert.ErrorIs(t, err, recordstore.ErrTransactionAlreadyActive)
}

func Test_UnitOfWork_CommitWithoutTransaction_Fails(t *testing.T) {
	// setup
	ctx, pool := newTestPool(t)

	// arrange
	uow, uowErr := postgresengine.NewUnitOfWork(pool)
	assert.NoError(t, uowErr)

	// act / assert
	assert.ErrorIs(t, uow.CommitTransaction(ctx), recordstore.ErrNoActiveTransaction)
	assert.ErrorIs(t, uow.RollbackTransaction(ctx), recordstore.ErrNoActiveTransaction)
}

func Test_RepositoryInScope_WithoutActiveTransaction_Fails(t *testing.T) {
	// setup
	_, pool := newTestPool(t)

	// arrange
	uow, uowErr := postgresengine.NewUnitOfWork(pool)
	assert.NoError(t, uowErr)

	// act
	_, err := postgresengine.RepositoryInScope(uow, tables.Authors)

	// assert
	assert.ErrorIs(t, err, recordstore.ErrNoActiveTransaction)
}

func Test_UnitOfWork_Release_IsIdempotent(t *testing.T) {
	// setup
	ctx, pool := newTestPool(t)

	// arrange
	uow, uowErr := postgresengine.NewUnitOfWork(pool)
	assert.NoError(t, uowErr)
	assert.NoError(t, uow.StartTransaction(ctx))

	// act / assert
	assert.NotPanics(t, func() {
		uow.Release()
		uow.Release()
	})
}
