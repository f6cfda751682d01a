// Package books implements the book operations on top of the generic
// repository: creation, lookups with the author eager-loaded, pagination,
// keyword search, partial updates, and deletion.
package books

import (
	"context"
	"errors"

	"github.com/libtrack/recordstore-go/library/core"
	"github.com/libtrack/recordstore-go/library/tables"
	"github.com/libtrack/recordstore-go/recordstore"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine"
)

// ErrBookNotFound is a client-facing business outcome; the wording is part of the API.
var ErrBookNotFound = errors.New("Book Not Found")

// Service exposes the book use cases.
type Service struct {
	repo postgresengine.Repository[tables.BookRow]
}

// NewService creates the book service on top of a book repository.
func NewService(repo postgresengine.Repository[tables.BookRow]) Service {
	return Service{repo: repo}
}

// UpdateBookInput carries the optional fields of a partial book update.
// A nil Genre leaves the tags unchanged.
type UpdateBookInput struct {
	Title           *string
	AuthorID        *string
	PublishedYear   *string
	Genre           []string
	AvailableCopies *int
}

// CreateBook validates the input and persists the new book. A dangling
// authorId surfaces as recordstore.ErrForeignKeyViolation.
func (s Service) CreateBook(ctx context.Context, input core.BookInput) (tables.BookRow, error) {
	var empty tables.BookRow

	book, validationErr := core.NewBook(input)
	if validationErr != nil {
		return empty, validationErr
	}

	return s.repo.Save(ctx, tables.BookRowFromAggregate(book))
}

// GetBookByID returns the book with the given id, author eager-loaded, or
// ErrBookNotFound.
func (s Service) GetBookByID(ctx context.Context, id string) (tables.BookRow, error) {
	var empty tables.BookRow

	row, found, findErr := s.repo.FindOne(ctx, recordstore.ByID(id), tables.RelationBookAuthor)
	if findErr != nil {
		return empty, findErr
	}

	if !found {
		return empty, ErrBookNotFound
	}

	return row, nil
}

// GetAllPaginatedBooks returns one page of books with their authors eager-loaded.
func (s Service) GetAllPaginatedBooks(ctx context.Context, req recordstore.PageRequest) (recordstore.Page[tables.BookRow], error) {
	return s.repo.FindPaginated(ctx, req, recordstore.Where(), tables.RelationBookAuthor)
}

// SearchBooks substring-matches the keyword against title and published year,
// eager-loads the author, and paginates the result.
func (s Service) SearchBooks(ctx context.Context, keyword string, page int, size int) (recordstore.Page[tables.BookRow], error) {
	return s.repo.Search(ctx, recordstore.SearchRequest{
		Keyword:  keyword,
		Columns:  []string{tables.ColBookTitle, tables.ColBookPublishedYear},
		Page:     page,
		Size:     size,
		Relation: tables.RelationBookAuthor,
	})
}

// UpdateBook applies a partial update to the book with the given id.
func (s Service) UpdateBook(ctx context.Context, id string, input UpdateBookInput) (tables.BookRow, error) {
	var empty tables.BookRow

	exists, existsErr := s.repo.Exists(ctx, recordstore.ByID(id))
	if existsErr != nil {
		return empty, existsErr
	}

	if !exists {
		return empty, ErrBookNotFound
	}

	row, updateErr := s.repo.FindOneAndUpdate(ctx, recordstore.ByID(id), input.fields())
	if errors.Is(updateErr, recordstore.ErrNotFound) {
		return empty, ErrBookNotFound
	}

	return row, updateErr
}

// DeleteBook removes the book with the given id; the result reports whether a
// row was removed.
func (s Service) DeleteBook(ctx context.Context, id string) (recordstore.DeleteResult, error) {
	exists, existsErr := s.repo.Exists(ctx, recordstore.ByID(id))
	if existsErr != nil {
		return recordstore.DeleteResult{}, existsErr
	}

	if !exists {
		return recordstore.DeleteResult{}, ErrBookNotFound
	}

	return s.repo.FindOneAndDelete(ctx, recordstore.ByID(id))
}

func (i UpdateBookInput) fields() recordstore.Fields {
	fields := recordstore.Fields{}

	if i.Title != nil {
		fields[tables.ColBookTitle] = *i.Title
	}

	if i.AuthorID != nil {
		fields[tables.ColBookAuthorID] = *i.AuthorID
	}

	if i.PublishedYear != nil {
		fields[tables.ColBookPublishedYear] = *i.PublishedYear
	}

	if i.Genre != nil {
		fields[tables.ColBookGenre] = i.Genre
	}

	if i.AvailableCopies != nil {
		fields[tables.ColBookAvailableCopies] = *i.AvailableCopies
	}

	return fields
}
