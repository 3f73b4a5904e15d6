package eval

import (
	"testing"

	"sqlbench/internal/schema"
)

func fkRaw(fks [][2]int) *schema.RawSchema {
	return &schema.RawSchema{
		DBID:               "d1",
		TableNames:         []string{"t1", "t2", "t3"},
		TableNamesOriginal: []string{"T1", "T2", "T3"},
		ColumnNames: []schema.ColumnRef{
			{TableIndex: -1, Name: "*"},
			{TableIndex: 0, Name: "a"},
			{TableIndex: 0, Name: "b"},
			{TableIndex: 1, Name: "c"},
			{TableIndex: 2, Name: "d"},
		},
		ColumnNamesOriginal: []schema.ColumnRef{
			{TableIndex: -1, Name: "*"},
			{TableIndex: 0, Name: "A"},
			{TableIndex: 0, Name: "B"},
			{TableIndex: 1, Name: "C"},
			{TableIndex: 2, Name: "D"},
		},
		ColumnTypes: []string{"text", "number", "number", "number", "number"},
		ForeignKeys: fks,
	}
}

func TestBuildForeignKeyMapSinglePair(t *testing.T) {
	m := BuildForeignKeyMap(fkRaw([][2]int{{3, 1}}))

	if got := m["__t2.c__"]; got != "__t1.a__" {
		t.Errorf("t2.c should canonicalize to t1.a, got %q", got)
	}
	if got := m["__t1.a__"]; got != "__t1.a__" {
		t.Errorf("group representative should map to itself, got %q", got)
	}
	if _, ok := m["__t1.b__"]; ok {
		t.Errorf("column outside any foreign key must not appear in the map")
	}
}

func TestBuildForeignKeyMapSharedColumnGroup(t *testing.T) {
	// both pairs touch column 1, so all three columns form one group
	m := BuildForeignKeyMap(fkRaw([][2]int{{3, 1}, {4, 1}}))

	for _, key := range []string{"__t1.a__", "__t2.c__", "__t3.d__"} {
		if got := m[key]; got != "__t1.a__" {
			t.Errorf("%s should canonicalize to __t1.a__, got %q", key, got)
		}
	}
}

func TestBuildForeignKeyMapLowercasesKeys(t *testing.T) {
	m := BuildForeignKeyMap(fkRaw([][2]int{{3, 1}}))
	for key := range m {
		if key != "__t1.a__" && key != "__t2.c__" {
			t.Errorf("unexpected key %q; keys must be lowercased", key)
		}
	}
}

func TestBuildForeignKeyMapEmpty(t *testing.T) {
	if m := BuildForeignKeyMap(fkRaw(nil)); len(m) != 0 {
		t.Errorf("no foreign keys should yield an empty map, got %v", m)
	}
}
