package core

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const minTextLength = 3

// AuthorInput is the unvalidated input for creating an Author aggregate.
// An empty ID means a new identity is assigned.
type AuthorInput struct {
	ID        string
	Name      string
	Birthdate string
	Bio       string
}

// Author is a validated author aggregate. It can only be constructed through
// NewAuthor and is immutable afterwards.
type Author struct {
	id        string
	name      string
	birthdate time.Time
	bio       string
}

// NewAuthor validates the input and builds an Author, or returns a
// *ValidationError listing every failed field.
func NewAuthor(input AuthorInput) (Author, error) {
	v := newValidator()

	v.check(utf8.RuneCountInString(input.Name) >= minTextLength, "name", "must be at least 3 characters long")
	v.check(utf8.RuneCountInString(input.Bio) >= minTextLength, "bio", "must be at least 3 characters long")

	birthdate, dateOK := parseDate(input.Birthdate)
	v.check(dateOK, "birthdate", "must be a valid date")

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	} else {
		_, parseErr := uuid.Parse(id)
		v.check(parseErr == nil, "id", "must be a valid uuid")
	}

	if !v.valid() {
		return Author{}, v.err()
	}

	return Author{id: id, name: input.Name, birthdate: birthdate, bio: input.Bio}, nil
}

func (a Author) ID() string {
	return a.id
}

func (a Author) Name() string {
	return a.name
}

func (a Author) Birthdate() time.Time {
	return a.birthdate
}

func (a Author) Bio() string {
	return a.bio
}
