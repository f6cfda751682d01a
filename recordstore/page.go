package recordstore

const (
	DefaultPage = 1
	DefaultSize = 10
)

// PageRequest describes one page of an ordered, optionally filtered listing.
//
// Filter and FilterBy together form a single-column equality filter.
// When OrderBy is empty, the engine orders by the creation timestamp column
// of the entity, newest first.
type PageRequest struct {
	Page     int
	Size     int
	Filter   string
	FilterBy ColumnNameString
	Order    Direction
	OrderBy  ColumnNameString
}

// Normalized returns a copy with the documented defaults applied:
// page 1, size 10, descending order.
func (r PageRequest) Normalized() PageRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}

	if r.Size < 1 {
		r.Size = DefaultSize
	}

	if r.Order != Asc {
		r.Order = Desc
	}

	return r
}

// Offset computes the row offset for the requested page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

// SearchRequest describes a keyword search across several columns.
//
// The keyword is substring-matched (LIKE '%keyword%') against each of the
// Columns, joined with OR. AllOf is conjoined with that disjunction; each
// AnyOf alternative is disjoined with it. Relation optionally names one
// related entity to eager-load.
type SearchRequest struct {
	Keyword  string
	Columns  []ColumnNameString
	Page     int
	Size     int
	AllOf    Predicate
	AnyOf    []Predicate
	Relation string
}

// Normalized returns a copy with the page and size defaults applied.
func (r SearchRequest) Normalized() SearchRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}

	if r.Size < 1 {
		r.Size = DefaultSize
	}

	return r
}

func (r SearchRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

// Pagination reports the position of a page inside the full result set.
// Both the paginated-find and the search path return this one shape.
type Pagination struct {
	Total int64 `json:"total"`
	Size  int   `json:"size"`
	Page  int   `json:"page"`
}

// Page is one page of rows together with its pagination info.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
