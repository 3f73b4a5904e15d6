package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func schemaJSON(dbID string) string {
	return `[{"db_id":"` + dbID + `","table_names":["t"],"table_names_original":["t"],` +
		`"column_names":[[-1,"*"],[0,"c"]],"column_names_original":[[-1,"*"],[0,"c"]],` +
		`"column_types":["text","text"],"primary_keys":[1],"foreign_keys":[]}]`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTablesCombinesFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", schemaJSON("d1"))
	b := writeFile(t, dir, "b.json", schemaJSON("d2"))

	schemas, fkMaps, err := LoadTables([]string{a, b})
	if err != nil {
		t.Fatalf("LoadTables error: %v", err)
	}
	if len(schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %d", len(schemas))
	}
	for _, id := range []string{"d1", "d2"} {
		if schemas[id] == nil {
			t.Errorf("missing schema for %s", id)
		}
		if _, ok := fkMaps[id]; !ok {
			t.Errorf("missing foreign-key map for %s", id)
		}
	}
}

func TestLoadTablesDuplicateDatabase(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", schemaJSON("d1"))
	b := writeFile(t, dir, "b.json", schemaJSON("d1"))

	_, _, err := LoadTables([]string{a, b})
	if !errors.Is(err, ErrDuplicateDatabase) {
		t.Fatalf("expected ErrDuplicateDatabase, got %v", err)
	}
}

func TestLoadTablesBadFile(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"not": "an array"}`)

	if _, _, err := LoadTables([]string{bad}); err == nil {
		t.Fatal("expected an error, did not receive one")
	}
	if _, _, err := LoadTables([]string{filepath.Join(dir, "missing.json")}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
