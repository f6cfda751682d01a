// Package tables declares the persisted row shapes for the library entities,
// the Schema values that drive the generic repository for each of them, and
// the one-way mappers from validated aggregates to rows.
//
// The mappers perform no validation (the aggregate factories already did) and
// no side effects; they only reshape data for persistence.
package tables
