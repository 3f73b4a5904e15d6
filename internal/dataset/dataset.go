package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sqlbench/internal/schema"
	"sqlbench/pkg/config"
)

var (
	// ErrDuplicateDatabase marks a database id declared by more than one
	// schema descriptor in a load batch.
	ErrDuplicateDatabase = errors.New("duplicate database id")

	// ErrUnknownDatabase marks an example referencing a database id that
	// no loaded schema file declares.
	ErrUnknownDatabase = errors.New("unknown database id")
)

// RawExample is one benchmark record as it appears in an example file.
type RawExample struct {
	DBID             string          `json:"db_id"`
	Question         string          `json:"question"`
	QuestionToks     []string        `json:"question_toks"`
	Query            string          `json:"query"`
	QueryToks        []string        `json:"query_toks"`
	QueryToksNoValue []string        `json:"query_toks_no_value"`
	SQL              json.RawMessage `json:"sql"`
}

// Item is one loaded benchmark example: question tokens, gold query
// structure and the schema it runs against. The raw record and raw schema
// descriptor are retained for the evaluator.
type Item struct {
	Text       []string
	Code       json.RawMessage
	Schema     *schema.Schema
	Orig       *RawExample
	OrigSchema *schema.RawSchema
}

// Dataset is the capability set the training pipeline consumes: indexed
// access and length.
type Dataset interface {
	Len() int
	Get(idx int) *Item
}

// Factory builds a dataset from its config section.
type Factory func(cfg config.DatasetConfig) (Dataset, error)

var factories = map[string]Factory{}

// Register makes a dataset Factory available under name.
func Register(name string, f Factory) {
	factories[strings.ToLower(name)] = f
}

// listRegistered returns the registered dataset keys (for diagnostics).
func listRegistered() []string {
	keys := make([]string, 0, len(factories))
	for k := range factories {
		keys = append(keys, k)
	}
	return keys
}

// New builds the dataset registered under cfg.Name.
func New(cfg config.DatasetConfig) (Dataset, error) {
	f, ok := factories[strings.ToLower(cfg.Name)]
	if !ok {
		return nil, fmt.Errorf("dataset not registered: %q (available: %v)", cfg.Name, listRegistered())
	}
	return f(cfg)
}

// RegisteredDatasets is a helper that allows callers to print registered datasets
func RegisteredDatasets() []string {
	return listRegistered()
}
