package core_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/libtrack/recordstore-go/library/core"
)

func validBookInput() core.BookInput {
	return core.BookInput{
		Title:           "Foundation",
		AuthorID:        uuid.NewString(),
		PublishedYear:   "1951",
		Genre:           []string{"Science Fiction"},
		AvailableCopies: 3,
	}
}

func Test_NewBook_WithValidInput_BuildsTheAggregate(t *testing.T) {
	// act
	book, err := core.NewBook(validBookInput())

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "Foundation", book.Title())
	assert.Equal(t, "1951", book.PublishedYear())
	assert.Equal(t, []string{"Science Fiction"}, book.Genre())
	assert.Equal(t, 3, book.AvailableCopies())
}

func Test_NewBook_AcceptsTheCurrentYear(t *testing.T) {
	// arrange
	input := validBookInput()
	input.PublishedYear = strconv.Itoa(time.Now().Year())

	// act
	_, err := core.NewBook(input)

	// assert
	assert.NoError(t, err)
}

func Test_NewBook_RejectsYearsOutsideTheValidRange(t *testing.T) {
	testCases := []struct {
		name string
		year string
	}{
		{name: "before the year 1000", year: "999"},
		{name: "in the future", year: strconv.Itoa(time.Now().Year() + 1)},
		{name: "not a number", year: "nineteen fifty-one"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			// arrange
			input := validBookInput()
			input.PublishedYear = testCase.year

			// act
			_, err := core.NewBook(input)

			// assert
			var validationErr *core.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, "publishedYear")
		})
	}
}

func Test_NewBook_RejectsNonPositiveAvailableCopies(t *testing.T) {
	// arrange
	input := validBookInput()
	input.AvailableCopies = 0

	// act
	_, err := core.NewBook(input)

	// assert
	var validationErr *core.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "availableCopies")
}

func Test_NewBook_RejectsEmptyGenreTags(t *testing.T) {
	// arrange
	input := validBookInput()
	input.Genre = []string{"Science Fiction", ""}

	// act
	_, err := core.NewBook(input)

	// assert
	var validationErr *core.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "genre")
}

func Test_Book_Genre_ReturnsADefensiveCopy(t *testing.T) {
	// arrange
	book, err := core.NewBook(validBookInput())
	assert.NoError(t, err)

	// act
	tags := book.Genre()
	tags[0] = "Horror"

	// assert
	assert.Equal(t, []string{"Science Fiction"}, book.Genre())
}
