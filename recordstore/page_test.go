package recordstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libtrack/recordstore-go/recordstore"
)

func Test_PageRequest_Normalized_AppliesTheDefaults(t *testing.T) {
	// arrange
	request := recordstore.PageRequest{}

	// act
	normalized := request.Normalized()

	// assert
	assert.Equal(t, recordstore.DefaultPage, normalized.Page)
	assert.Equal(t, recordstore.DefaultSize, normalized.Size)
	assert.Equal(t, recordstore.Desc, normalized.Order)
}

func Test_PageRequest_Normalized_KeepsExplicitValues(t *testing.T) {
	// arrange
	request := recordstore.PageRequest{Page: 3, Size: 25, Order: recordstore.Asc, OrderBy: "name"}

	// act
	normalized := request.Normalized()

	// assert
	assert.Equal(t, 3, normalized.Page)
	assert.Equal(t, 25, normalized.Size)
	assert.Equal(t, recordstore.Asc, normalized.Order)
	assert.Equal(t, "name", normalized.OrderBy)
}

func Test_PageRequest_Offset_SkipsThePrecedingPages(t *testing.T) {
	// arrange
	request := recordstore.PageRequest{Page: 3, Size: 10}

	// act / assert
	assert.Equal(t, 20, request.Offset())
}

func Test_SearchRequest_Normalized_AppliesTheDefaults(t *testing.T) {
	// arrange
	request := recordstore.SearchRequest{Keyword: "Foundation"}

	// act
	normalized := request.Normalized()

	// assert
	assert.Equal(t, recordstore.DefaultPage, normalized.Page)
	assert.Equal(t, recordstore.DefaultSize, normalized.Size)
	assert.Equal(t, 0, normalized.Offset())
}
