package recordstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libtrack/recordstore-go/recordstore"
)

func Test_Where_StartsWithAnEmptyPredicate(t *testing.T) {
	// act
	predicate := recordstore.Where()

	// assert
	assert.True(t, predicate.IsEmpty())
	assert.Empty(t, predicate.Conditions())
}

func Test_ByID_MatchesTheIDColumn(t *testing.T) {
	// act
	predicate := recordstore.ByID("0199a9c1-0000-7000-8000-000000000001")

	// assert
	assert.False(t, predicate.IsEmpty())
	conditions := predicate.Conditions()
	assert.Len(t, conditions, 1)
	assert.Equal(t, "id", conditions[0].Column())
	assert.Equal(t, recordstore.CompareEqual, conditions[0].Compare())
	assert.Equal(t, "0199a9c1-0000-7000-8000-000000000001", conditions[0].Value())
}

func Test_Predicate_KeepsConditionsInInsertionOrder(t *testing.T) {
	// act
	predicate := recordstore.Where().
		Eq("name", "Isaac Asimov").
		Gt("available_copies", 0)

	// assert
	conditions := predicate.Conditions()
	assert.Len(t, conditions, 2)
	assert.Equal(t, "name", conditions[0].Column())
	assert.Equal(t, recordstore.CompareEqual, conditions[0].Compare())
	assert.Equal(t, "available_copies", conditions[1].Column())
	assert.Equal(t, recordstore.CompareGreaterThan, conditions[1].Compare())
	assert.Equal(t, 0, conditions[1].Value())
}

func Test_Predicate_BuilderCallsDoNotMutateTheReceiver(t *testing.T) {
	// arrange
	base := recordstore.Where().Eq("title", "Foundation")

	// act
	extended := base.Gt("available_copies", 2)

	// assert
	assert.Len(t, base.Conditions(), 1)
	assert.Len(t, extended.Conditions(), 2)
}
