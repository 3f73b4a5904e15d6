package dataset

import (
	"errors"
	"testing"

	"sqlbench/pkg/config"
)

func exampleJSON(dbID string) string {
	return `[{"db_id":"` + dbID + `","question":"how many rows are there?",` +
		`"question_toks":["how","many","rows","are","there","?"],` +
		`"query":"SELECT count(*) FROM t","query_toks":["SELECT","count(*)","FROM","t"],` +
		`"query_toks_no_value":["select","count(*)","from","t"],"sql":{"from":{}}}]`
}

func TestSpiderLoad(t *testing.T) {
	dir := t.TempDir()
	tables := writeFile(t, dir, "tables.json", schemaJSON("d1"))
	examples := writeFile(t, dir, "dev.json", exampleJSON("d1"))

	ds, err := New(config.DatasetConfig{
		Name:         "spider",
		TableFiles:   []string{tables},
		ExampleFiles: []string{examples},
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("expected 1 example, got %d", ds.Len())
	}

	item := ds.Get(0)
	if item.Schema == nil || item.Schema.DBID != "d1" {
		t.Errorf("item not joined with its schema: %+v", item.Schema)
	}
	if len(item.Text) != 6 || item.Text[0] != "how" {
		t.Errorf("question tokens: got %v", item.Text)
	}
	if item.Orig == nil || item.Orig.Query != "SELECT count(*) FROM t" {
		t.Errorf("raw record not retained: %+v", item.Orig)
	}
	if item.OrigSchema != item.Schema.Orig {
		t.Errorf("item must retain the raw schema descriptor")
	}
	if len(item.Code) == 0 {
		t.Errorf("gold query structure not retained")
	}
}

func TestSpiderUnknownDatabase(t *testing.T) {
	dir := t.TempDir()
	tables := writeFile(t, dir, "tables.json", schemaJSON("d1"))
	examples := writeFile(t, dir, "dev.json", exampleJSON("nope"))

	_, err := New(config.DatasetConfig{
		Name:         "spider",
		TableFiles:   []string{tables},
		ExampleFiles: []string{examples},
	})
	if !errors.Is(err, ErrUnknownDatabase) {
		t.Fatalf("expected ErrUnknownDatabase, got %v", err)
	}
}

func TestSpiderLimit(t *testing.T) {
	dir := t.TempDir()
	tables := writeFile(t, dir, "tables.json", schemaJSON("d1"))
	a := writeFile(t, dir, "a.json", exampleJSON("d1"))
	b := writeFile(t, dir, "b.json", exampleJSON("d1"))

	ds, err := New(config.DatasetConfig{
		Name:         "spider",
		TableFiles:   []string{tables},
		ExampleFiles: []string{a, b},
		Limit:        1,
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("limit not applied: got %d examples", ds.Len())
	}
}

func TestDatasetRegistry(t *testing.T) {
	Register("testset", func(cfg config.DatasetConfig) (Dataset, error) {
		return &Spider{}, nil
	})

	if _, ok := factories["testset"]; !ok {
		t.Errorf("dataset testset not registered correctly in %v", factories)
	}

	if _, err := New(config.DatasetConfig{Name: "testset"}); err != nil {
		t.Errorf("got unexpected error: %v", err)
	}
	if _, err := New(config.DatasetConfig{Name: "no-such-dataset"}); err == nil {
		t.Errorf("expected an error for an unregistered dataset")
	}
}
