// Package query builds parameterized PostgreSQL statements from projection
// maps that translate view field names into qualified column names.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view field names onto the columns of an aliased table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	fields  map[string]string
}

// NewProjectionMap creates an empty projection for schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project adds column to the projection, addressable by viewName.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns = append(p.columns, qualified)
	p.fields[viewName] = qualified
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the qualified, aliased table reference.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a view name. Unknown names are returned unchanged.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.fields[viewName]; ok {
		return col
	}
	return viewName
}

// Lookup resolves a view name, reporting whether it is projected.
// Sort fields taken from requests go through Lookup so unknown names never
// reach the SQL text.
func (p *ProjectionMap) Lookup(viewName string) (string, bool) {
	col, ok := p.fields[viewName]
	return col, ok
}

// Columns returns the projected columns as a select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

// ColumnList returns a copy of the projected columns.
func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.columns))
	copy(out, p.columns)
	return out
}
