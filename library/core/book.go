package core

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const earliestPublishedYear = 1000

// BookInput is the unvalidated input for creating a Book aggregate.
// An empty ID means a new identity is assigned.
type BookInput struct {
	ID              string
	Title           string
	AuthorID        string
	PublishedYear   string
	Genre           []string
	AvailableCopies int
}

// Book is a validated book aggregate. It can only be constructed through
// NewBook and is immutable afterwards.
type Book struct {
	id              string
	title           string
	authorID        string
	publishedYear   string
	genre           []string
	availableCopies int
}

// NewBook validates the input and builds a Book, or returns a
// *ValidationError listing every failed field.
func NewBook(input BookInput) (Book, error) {
	v := newValidator()

	v.check(input.Title != "", "title", "must not be empty")

	_, authorIDErr := uuid.Parse(input.AuthorID)
	v.check(authorIDErr == nil, "authorId", "must be a valid uuid")

	year, yearErr := strconv.Atoi(input.PublishedYear)
	v.check(
		yearErr == nil && year >= earliestPublishedYear && year <= time.Now().Year(),
		"publishedYear", "must be a year between 1000 and the current year",
	)

	v.check(len(input.Genre) > 0, "genre", "must contain at least one tag")
	for _, tag := range input.Genre {
		v.check(tag != "", "genre", "tags must not be empty")
	}

	v.check(input.AvailableCopies > 0, "availableCopies", "must be a positive number")

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	} else {
		_, parseErr := uuid.Parse(id)
		v.check(parseErr == nil, "id", "must be a valid uuid")
	}

	if !v.valid() {
		return Book{}, v.err()
	}

	return Book{
		id:              id,
		title:           input.Title,
		authorID:        input.AuthorID,
		publishedYear:   input.PublishedYear,
		genre:           append([]string(nil), input.Genre...),
		availableCopies: input.AvailableCopies,
	}, nil
}

func (b Book) ID() string {
	return b.id
}

func (b Book) Title() string {
	return b.title
}

func (b Book) AuthorID() string {
	return b.authorID
}

func (b Book) PublishedYear() string {
	return b.publishedYear
}

func (b Book) Genre() []string {
	return append([]string(nil), b.genre...)
}

func (b Book) AvailableCopies() int {
	return b.availableCopies
}
