// Package dynschema defines the contract with the runtime-mutable schema
// catalog that backs data-collection templates. Tables and fields are created
// and altered while the application is running; this package only describes
// the operations the synthesis layer consumes, it does not implement the
// catalog itself. An in-memory reference implementation lives in
// internal/dynschema/memory.
package dynschema

import (
	"context"
	"errors"
)

// ErrTableNotFound is returned when a TableRef does not resolve.
var ErrTableNotFound = errors.New("dynschema: table not found")

// ErrFieldNotFound is returned when a FieldRef does not resolve.
var ErrFieldNotFound = errors.New("dynschema: field not found")

// Store is the narrow surface the synthesis layer needs from the dynamic
// schema catalog. Calls are expected to complete or fail within the caller's
// request lifetime; no retries happen at this level.
type Store interface {
	// CreateTable registers a new dynamic table and returns its reference.
	CreateTable(ctx context.Context, spec TableSpec) (TableRef, error)

	// CreateField adds a field to an existing table and returns its
	// reference. Spec.Name must be unique within the table.
	CreateField(ctx context.Context, table TableRef, spec FieldSpec) (FieldRef, error)

	// UpdateField overwrites the mutable attributes of an existing field
	// (label, type, options, required, help text). Spec.Name is ignored;
	// physical column names never change after creation. Safe to call
	// repeatedly with identical input.
	UpdateField(ctx context.Context, field FieldRef, spec FieldSpec) error
}

// Inspector is an optional read-side surface catalogs can expose for
// diagnostics, dumps, and tests. The synthesis layer never requires it.
type Inspector interface {
	// Table resolves a single table with its fields in creation order.
	Table(ctx context.Context, ref TableRef) (Table, error)

	// Tables lists every table in creation order.
	Tables(ctx context.Context) ([]Table, error)
}
