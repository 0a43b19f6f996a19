// Package memory provides an in-process dynamic schema catalog. It backs
// tests and the CLI; production deployments plug their own catalog in behind
// the dynschema.Store interface.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-dcschema/pkg/dynschema"
)

type tableRecord struct {
	spec   dynschema.TableSpec
	fields []dynschema.FieldRef
}

type fieldRecord struct {
	table dynschema.TableRef
	spec  dynschema.FieldSpec
}

// Store keeps tables and fields in maps guarded by one mutex. References are
// sequential and deterministic, which keeps golden fixtures stable.
type Store struct {
	mu         sync.Mutex
	tables     map[dynschema.TableRef]*tableRecord
	tableOrder []dynschema.TableRef
	fields     map[dynschema.FieldRef]*fieldRecord
	nextTable  int
	nextField  int
}

// NewStore returns an empty catalog.
func NewStore() *Store {
	return &Store{
		tables: make(map[dynschema.TableRef]*tableRecord),
		fields: make(map[dynschema.FieldRef]*fieldRecord),
	}
}

var (
	_ dynschema.Store     = (*Store)(nil)
	_ dynschema.Inspector = (*Store)(nil)
)

// CreateTable implements dynschema.Store.
func (s *Store) CreateTable(_ context.Context, spec dynschema.TableSpec) (dynschema.TableRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTable++
	ref := dynschema.TableRef(fmt.Sprintf("table-%04d", s.nextTable))
	s.tables[ref] = &tableRecord{spec: spec}
	s.tableOrder = append(s.tableOrder, ref)
	return ref, nil
}

// CreateField implements dynschema.Store. Field names must be unique within
// their table.
func (s *Store) CreateField(_ context.Context, table dynschema.TableRef, spec dynschema.FieldSpec) (dynschema.FieldRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tables[table]
	if !ok {
		return "", fmt.Errorf("memory: create field on %s: %w", table, dynschema.ErrTableNotFound)
	}
	if spec.Name == "" {
		return "", fmt.Errorf("memory: create field on %s: name is required", table)
	}
	for _, existing := range record.fields {
		if s.fields[existing].spec.Name == spec.Name {
			return "", fmt.Errorf("memory: table %s already has a field named %q", table, spec.Name)
		}
	}

	s.nextField++
	ref := dynschema.FieldRef(fmt.Sprintf("field-%04d", s.nextField))
	s.fields[ref] = &fieldRecord{table: table, spec: cloneFieldSpec(spec)}
	record.fields = append(record.fields, ref)
	return ref, nil
}

// UpdateField implements dynschema.Store. The physical name is immutable and
// the incoming Spec.Name is ignored.
func (s *Store) UpdateField(_ context.Context, field dynschema.FieldRef, spec dynschema.FieldSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.fields[field]
	if !ok {
		return fmt.Errorf("memory: update field %s: %w", field, dynschema.ErrFieldNotFound)
	}
	spec.Name = record.spec.Name
	record.spec = cloneFieldSpec(spec)
	return nil
}

// Table implements dynschema.Inspector.
func (s *Store) Table(_ context.Context, ref dynschema.TableRef) (dynschema.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tables[ref]
	if !ok {
		return dynschema.Table{}, fmt.Errorf("memory: table %s: %w", ref, dynschema.ErrTableNotFound)
	}
	return s.snapshotLocked(ref, record), nil
}

// Tables implements dynschema.Inspector, listing tables in creation order.
func (s *Store) Tables(_ context.Context) ([]dynschema.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dynschema.Table, 0, len(s.tableOrder))
	for _, ref := range s.tableOrder {
		out = append(out, s.snapshotLocked(ref, s.tables[ref]))
	}
	return out, nil
}

func (s *Store) snapshotLocked(ref dynschema.TableRef, record *tableRecord) dynschema.Table {
	table := dynschema.Table{Ref: ref, Spec: record.spec}
	for _, fieldRef := range record.fields {
		table.Fields = append(table.Fields, dynschema.Field{
			Ref:  fieldRef,
			Spec: cloneFieldSpec(s.fields[fieldRef].spec),
		})
	}
	return table
}

func cloneFieldSpec(spec dynschema.FieldSpec) dynschema.FieldSpec {
	if spec.Options != nil {
		spec.Options = append([]string(nil), spec.Options...)
	}
	return spec
}
