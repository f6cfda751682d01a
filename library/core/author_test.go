package core_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/libtrack/recordstore-go/library/core"
)

func Test_NewAuthor_WithValidInput_BuildsTheAggregate(t *testing.T) {
	// arrange
	input := core.AuthorInput{
		Name:      "Isaac Asimov",
		Birthdate: "1920-01-02",
		Bio:       "Science fiction writer and professor of biochemistry",
	}

	// act
	author, err := core.NewAuthor(input)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "Isaac Asimov", author.Name())
	assert.Equal(t, 1920, author.Birthdate().Year())
	_, parseErr := uuid.Parse(author.ID())
	assert.NoError(t, parseErr, "an empty input id should yield a fresh uuid")
}

func Test_NewAuthor_WithSuppliedID_KeepsIt(t *testing.T) {
	// arrange
	id := uuid.NewString()
	input := core.AuthorInput{
		ID:        id,
		Name:      "Ursula K. Le Guin",
		Birthdate: "1929-10-21",
		Bio:       "American author of speculative fiction",
	}

	// act
	author, err := core.NewAuthor(input)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, id, author.ID())
}

func Test_NewAuthor_WithInvalidInput_ReportsEveryFailedField(t *testing.T) {
	// arrange
	input := core.AuthorInput{
		ID:        "not-a-uuid",
		Name:      "Al",
		Birthdate: "not a date",
		Bio:       "x",
	}

	// act
	_, err := core.NewAuthor(input)

	// assert
	var validationErr *core.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields, 4)
	assert.Contains(t, validationErr.Fields, "name")
	assert.Contains(t, validationErr.Fields, "bio")
	assert.Contains(t, validationErr.Fields, "birthdate")
	assert.Contains(t, validationErr.Fields, "id")
}

func Test_NewAuthor_CountsCharactersNotBytes(t *testing.T) {
	// arrange
	input := core.AuthorInput{
		Name:      "吴亮",
		Birthdate: "1968-05-04",
		Bio:       "Chinese science fiction writer",
	}

	// act
	_, err := core.NewAuthor(input)

	// assert
	var validationErr *core.ValidationError
	assert.ErrorAs(t, err, &validationErr, "two characters are below the minimum even at six bytes")
	assert.Contains(t, validationErr.Fields, "name")

	input.Name = "吴岩亮"
	_, err = core.NewAuthor(input)
	assert.NoError(t, err, "three characters satisfy the minimum regardless of byte length")
}

func Test_ValidationError_ListsFieldsInStableOrder(t *testing.T) {
	// arrange
	err := &core.ValidationError{Fields: map[string]string{
		"name":      "must be at least 3 characters long",
		"birthdate": "must be a valid date",
	}}

	// act / assert
	assert.Equal(
		t,
		"validation failed: birthdate: must be a valid date; name: must be at least 3 characters long",
		err.Error(),
	)
}

func Test_ParseDate_AcceptsPlainDatesAndTimestamps(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "plain calendar date", value: "1920-01-02", valid: true},
		{name: "rfc3339 timestamp", value: "1920-01-02T15:04:05Z", valid: true},
		{name: "garbage", value: "yesterday", valid: false},
		{name: "empty", value: "", valid: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, ok := core.ParseDate(testCase.value)
			assert.Equal(t, testCase.valid, ok)
		})
	}
}
