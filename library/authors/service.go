// Package authors implements the author operations on top of the generic
// repository: creation with a duplicate-name guard, lookups, pagination,
// partial updates, and deletion.
package authors

import (
	"context"
	"errors"

	"github.com/libtrack/recordstore-go/library/core"
	"github.com/libtrack/recordstore-go/library/tables"
	"github.com/libtrack/recordstore-go/recordstore"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine"
)

// Client-facing business outcomes; the wording is part of the API.
var ErrAuthorNotFound = errors.New("Author Not Found")
var ErrAuthorAlreadyExists = errors.New("Author Already Exists")

// Service exposes the author use cases.
type Service struct {
	repo postgresengine.Repository[tables.AuthorRow]
}

// NewService creates the author service on top of an author repository.
func NewService(repo postgresengine.Repository[tables.AuthorRow]) Service {
	return Service{repo: repo}
}

// UpdateAuthorInput carries the optional fields of a partial author update.
type UpdateAuthorInput struct {
	Name      *string
	Birthdate *string
	Bio       *string
}

// CreateAuthor validates the input, rejects duplicate author names, and
// persists the new author.
func (s Service) CreateAuthor(ctx context.Context, input core.AuthorInput) (tables.AuthorRow, error) {
	var empty tables.AuthorRow

	nameTaken, existsErr := s.repo.Exists(ctx, recordstore.Where().Eq(tables.ColAuthorName, input.Name))
	if existsErr != nil {
		return empty, existsErr
	}

	if nameTaken {
		return empty, ErrAuthorAlreadyExists
	}

	author, validationErr := core.NewAuthor(input)
	if validationErr != nil {
		return empty, validationErr
	}

	return s.repo.Save(ctx, tables.AuthorRowFromAggregate(author))
}

// GetAuthorByID returns the author with the given id, or ErrAuthorNotFound.
func (s Service) GetAuthorByID(ctx context.Context, id string) (tables.AuthorRow, error) {
	var empty tables.AuthorRow

	row, found, findErr := s.repo.FindOne(ctx, recordstore.ByID(id))
	if findErr != nil {
		return empty, findErr
	}

	if !found {
		return empty, ErrAuthorNotFound
	}

	return row, nil
}

// GetAllPaginatedAuthors returns one page of authors.
func (s Service) GetAllPaginatedAuthors(ctx context.Context, req recordstore.PageRequest) (recordstore.Page[tables.AuthorRow], error) {
	return s.repo.FindPaginated(ctx, req, recordstore.Where())
}

// UpdateAuthor applies a partial update to the author with the given id.
func (s Service) UpdateAuthor(ctx context.Context, id string, input UpdateAuthorInput) (tables.AuthorRow, error) {
	var empty tables.AuthorRow

	exists, existsErr := s.repo.Exists(ctx, recordstore.ByID(id))
	if existsErr != nil {
		return empty, existsErr
	}

	if !exists {
		return empty, ErrAuthorNotFound
	}

	fields, fieldsErr := input.fields()
	if fieldsErr != nil {
		return empty, fieldsErr
	}

	row, updateErr := s.repo.FindOneAndUpdate(ctx, recordstore.ByID(id), fields)
	if errors.Is(updateErr, recordstore.ErrNotFound) {
		return empty, ErrAuthorNotFound
	}

	return row, updateErr
}

// DeleteAuthor removes the author with the given id; the result reports
// whether a row was removed.
func (s Service) DeleteAuthor(ctx context.Context, id string) (recordstore.DeleteResult, error) {
	exists, existsErr := s.repo.Exists(ctx, recordstore.ByID(id))
	if existsErr != nil {
		return recordstore.DeleteResult{}, existsErr
	}

	if !exists {
		return recordstore.DeleteResult{}, ErrAuthorNotFound
	}

	return s.repo.FindOneAndDelete(ctx, recordstore.ByID(id))
}

func (i UpdateAuthorInput) fields() (recordstore.Fields, error) {
	fields := recordstore.Fields{}

	if i.Name != nil {
		fields[tables.ColAuthorName] = *i.Name
	}

	if i.Birthdate != nil {
		birthdate, ok := core.ParseDate(*i.Birthdate)
		if !ok {
			return nil, &core.ValidationError{Fields: map[string]string{"birthdate": "must be a valid date"}}
		}

		fields[tables.ColAuthorBirthdate] = birthdate
	}

	if i.Bio != nil {
		fields[tables.ColAuthorBio] = *i.Bio
	}

	return fields, nil
}
