package schema

import "strings"

// Column is one column of a benchmark database. Table is nil for the
// schema-wide wildcard column that owns no table.
type Column struct {
	ID            int
	Table         *Table
	Name          []string // tokenized display name
	UnsplitName   string
	OrigName      string
	Type          string
	ForeignKeyFor *Column // target column when this column is a foreign key
}

// Table is one table of a benchmark database. Columns holds the owned
// columns in descriptor order; PrimaryKeys holds them in declaration order.
type Table struct {
	ID          int
	Name        []string
	UnsplitName string
	OrigName    string
	Columns     []*Column
	PrimaryKeys []*Column
}

// Edge is one directed foreign-key edge between two tables, labeled with
// the column pair that induced it as seen from the source side.
type Edge struct {
	Target    int
	SourceCol int
	DestCol   int
}

// ForeignKeyGraph is a plain adjacency structure over table ids. Every
// foreign key inserts two edges, one per direction, with the column pair
// reversed on the way back.
type ForeignKeyGraph map[int][]Edge

// AddEdge inserts a directed edge from table id to table id.
func (g ForeignKeyGraph) AddEdge(from, to, sourceCol, destCol int) {
	g[from] = append(g[from], Edge{Target: to, SourceCol: sourceCol, DestCol: destCol})
}

// Edges returns the outgoing edges of a table id.
func (g ForeignKeyGraph) Edges(tableID int) []Edge {
	return g[tableID]
}

// HasEdge reports whether some edge from -> to exists.
func (g ForeignKeyGraph) HasEdge(from, to int) bool {
	for _, e := range g[from] {
		if e.Target == to {
			return true
		}
	}
	return false
}

// Schema is the validated metadata graph of one benchmark database.
// It is built once during load and never mutated afterwards. Orig retains
// the raw descriptor because the evaluator works on raw form.
type Schema struct {
	DBID            string
	Tables          []*Table
	Columns         []*Column
	ForeignKeyGraph ForeignKeyGraph
	Orig            *RawSchema
}

// AddUnderscore joins the words of a display name with underscores,
// matching the normalization the benchmark applies to original names.
func AddUnderscore(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}
