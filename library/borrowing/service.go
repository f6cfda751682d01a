// Package borrowing implements the borrow workflow, the one multi-step
// business operation, plus the borrowed-record bookkeeping operations.
//
// Borrowing a book creates a borrowed record and decrements the book's
// available-copy count. Both writes run in one unit of work, and the
// decrement is guarded by the remaining stock, so two concurrent borrowers of
// the last copy can never both succeed and the count can never go negative.
package borrowing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/libtrack/recordstore-go/library/books"
	"github.com/libtrack/recordstore-go/library/core"
	"github.com/libtrack/recordstore-go/library/tables"
	"github.com/libtrack/recordstore-go/recordstore"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine"
)

// Client-facing business outcomes; the wording is part of the API.
var ErrBookOutOfStock = errors.New("Book Out of Stock")
var ErrBorrowedRecordNotFound = errors.New("Borrowed Record Not Found")

// Service exposes the borrow workflow and the borrowed-record use cases.
// It keeps the pool so every borrow gets its own unit-of-work scope.
type Service struct {
	pool    *pgxpool.Pool
	records postgresengine.Repository[tables.BorrowedRecordRow]
	options []postgresengine.Option
}

// NewService creates the borrowing service on the given pool. The options are
// applied to the unit-of-work scopes and the borrowed-record repository.
func NewService(pool *pgxpool.Pool, options ...postgresengine.Option) (Service, error) {
	records, err := postgresengine.NewRepositoryFromPGXPool(pool, tables.BorrowedRecords, options...)
	if err != nil {
		return Service{}, err
	}

	return Service{pool: pool, records: records, options: options}, nil
}

// UpdateBorrowedRecordInput carries the optional fields of a partial
// borrowed-record update.
type UpdateBorrowedRecordInput struct {
	Borrower   *string
	BorrowDate *string
	ReturnDate *string
}

// BorrowBook runs the borrow workflow atomically: admission (book must exist
// and have stock), then commit (persist the record, decrement the stock).
//
// The decrement is conditional on available_copies > 0 and its affected-row
// count is checked inside the same transaction, so a concurrent borrow that
// consumed the last copy in the meantime rolls this one back with
// ErrBookOutOfStock.
func (s Service) BorrowBook(ctx context.Context, input core.BorrowedRecordInput) (tables.BorrowedRecordRow, error) {
	var empty tables.BorrowedRecordRow

	record, validationErr := core.NewBorrowedRecord(input)
	if validationErr != nil {
		return empty, validationErr
	}

	uow, uowErr := postgresengine.NewUnitOfWork(s.pool, s.options...)
	if uowErr != nil {
		return empty, uowErr
	}

	if startErr := uow.StartTransaction(ctx, recordstore.ReadCommitted); startErr != nil {
		return empty, startErr
	}

	var saved tables.BorrowedRecordRow

	workErr := uow.Complete(ctx, func(ctx context.Context) error {
		bookRepo, repoErr := postgresengine.RepositoryInScope(uow, tables.Books)
		if repoErr != nil {
			return repoErr
		}

		recordRepo, repoErr := postgresengine.RepositoryInScope(uow, tables.BorrowedRecords)
		if repoErr != nil {
			return repoErr
		}

		book, found, findErr := bookRepo.FindOne(ctx, recordstore.ByID(record.BookID()))
		if findErr != nil {
			return findErr
		}

		if !found {
			return books.ErrBookNotFound
		}

		if book.AvailableCopies <= 0 {
			return ErrBookOutOfStock
		}

		var saveErr error
		saved, saveErr = recordRepo.Save(ctx, tables.BorrowedRecordRowFromAggregate(record))
		if saveErr != nil {
			return saveErr
		}

		decremented, decrementErr := bookRepo.UpdateMany(
			ctx,
			recordstore.ByID(record.BookID()).Gt(tables.ColBookAvailableCopies, 0),
			recordstore.Fields{tables.ColBookAvailableCopies: recordstore.DeltaOf(-1)},
		)
		if decrementErr != nil {
			return decrementErr
		}

		if decremented == 0 {
			// A concurrent borrower took the last copy between our read and
			// the decrement; rolling back unwinds the record insert too.
			return ErrBookOutOfStock
		}

		return nil
	})
	if workErr != nil {
		return empty, workErr
	}

	return saved, nil
}

// GetAllPaginatedBorrowedRecords returns one page of borrowed records.
func (s Service) GetAllPaginatedBorrowedRecords(ctx context.Context, req recordstore.PageRequest) (recordstore.Page[tables.BorrowedRecordRow], error) {
	return s.records.FindPaginated(ctx, req, recordstore.Where())
}

// GetBorrowedRecordByID returns the record with the given id, book
// eager-loaded, or ErrBorrowedRecordNotFound.
func (s Service) GetBorrowedRecordByID(ctx context.Context, id string) (tables.BorrowedRecordRow, error) {
	var empty tables.BorrowedRecordRow

	row, found, findErr := s.records.FindOne(ctx, recordstore.ByID(id), tables.RelationRecordBook)
	if findErr != nil {
		return empty, findErr
	}

	if !found {
		return empty, ErrBorrowedRecordNotFound
	}

	return row, nil
}

// UpdateBorrowedRecord applies a partial update to the record with the given id.
func (s Service) UpdateBorrowedRecord(ctx context.Context, id string, input UpdateBorrowedRecordInput) (tables.BorrowedRecordRow, error) {
	var empty tables.BorrowedRecordRow

	exists, existsErr := s.records.Exists(ctx, recordstore.ByID(id))
	if existsErr != nil {
		return empty, existsErr
	}

	if !exists {
		return empty, ErrBorrowedRecordNotFound
	}

	fields, fieldsErr := input.fields()
	if fieldsErr != nil {
		return empty, fieldsErr
	}

	row, updateErr := s.records.FindOneAndUpdate(ctx, recordstore.ByID(id), fields)
	if errors.Is(updateErr, recordstore.ErrNotFound) {
		return empty, ErrBorrowedRecordNotFound
	}

	return row, updateErr
}

// DeleteBorrowedRecord removes the record with the given id; the result
// reports whether a row was removed.
func (s Service) DeleteBorrowedRecord(ctx context.Context, id string) (recordstore.DeleteResult, error) {
	exists, existsErr := s.records.Exists(ctx, recordstore.ByID(id))
	if existsErr != nil {
		return recordstore.DeleteResult{}, existsErr
	}

	if !exists {
		return recordstore.DeleteResult{}, ErrBorrowedRecordNotFound
	}

	return s.records.FindOneAndDelete(ctx, recordstore.ByID(id))
}

func (i UpdateBorrowedRecordInput) fields() (recordstore.Fields, error) {
	fields := recordstore.Fields{}

	if i.Borrower != nil {
		fields[tables.ColRecordBorrower] = *i.Borrower
	}

	if i.BorrowDate != nil {
		borrowDate, ok := core.ParseDate(*i.BorrowDate)
		if !ok {
			return nil, &core.ValidationError{Fields: map[string]string{"borrowDate": "must be a valid date"}}
		}

		fields[tables.ColRecordBorrowDate] = borrowDate
	}

	if i.ReturnDate != nil {
		returnDate, ok := core.ParseDate(*i.ReturnDate)
		if !ok {
			return nil, &core.ValidationError{Fields: map[string]string{"returnDate": "must be a valid date"}}
		}

		fields[tables.ColRecordReturnDate] = returnDate
	}

	return fields, nil
}
