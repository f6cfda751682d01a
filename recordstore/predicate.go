package recordstore

type ColumnNameString = string

/***** Predicate *****/

// Predicate is a set of column conditions that must all match for a row to be
// selected. It is built with the Where / ByID entry points and is immutable,
// each builder call returns a new value.
//
// Equality covers every lookup the services need; GreaterThan exists so that
// conditional writes (e.g. a guarded stock decrement) can express their guard
// in the same shape.
type Predicate struct {
	conditions []Condition
}

// Where starts an empty Predicate.
func Where() Predicate {
	return Predicate{}
}

// ByID is a shortcut for the most common lookup, matching the "id" column.
func ByID(id string) Predicate {
	return Where().Eq("id", id)
}

// Eq adds an equality condition for the given column.
func (p Predicate) Eq(column ColumnNameString, value any) Predicate {
	return Predicate{conditions: append(p.cloneConditions(), Condition{column: column, compare: CompareEqual, value: value})}
}

// Gt adds a greater-than condition for the given column.
func (p Predicate) Gt(column ColumnNameString, value any) Predicate {
	return Predicate{conditions: append(p.cloneConditions(), Condition{column: column, compare: CompareGreaterThan, value: value})}
}

// Conditions returns the conditions in the order they were added.
func (p Predicate) Conditions() []Condition {
	return p.conditions
}

// IsEmpty reports whether the predicate constrains nothing.
func (p Predicate) IsEmpty() bool {
	return len(p.conditions) == 0
}

func (p Predicate) cloneConditions() []Condition {
	cloned := make([]Condition, len(p.conditions), len(p.conditions)+1)
	copy(cloned, p.conditions)

	return cloned
}

/***** Condition *****/

type CompareOp int

const (
	CompareEqual CompareOp = iota
	CompareGreaterThan
)

type Condition struct {
	column  ColumnNameString
	compare CompareOp
	value   any
}

func (c Condition) Column() ColumnNameString {
	return c.column
}

func (c Condition) Compare() CompareOp {
	return c.compare
}

func (c Condition) Value() any {
	return c.value
}
