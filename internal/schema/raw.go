package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// ColumnRef is one entry of the column_names / column_names_original
// arrays. On the wire it is a heterogeneous pair [table_index, name].
type ColumnRef struct {
	TableIndex int
	Name       string
}

func (c *ColumnRef) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("column reference must be a [table_index, name] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.TableIndex); err != nil {
		return fmt.Errorf("column table index: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Name); err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	return nil
}

func (c ColumnRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{c.TableIndex, c.Name})
}

// RawSchema is the raw JSON descriptor of one database as it appears in a
// tables file. It is retained on the built Schema because the evaluator
// consumes raw descriptors.
type RawSchema struct {
	DBID                string      `json:"db_id"`
	TableNames          []string    `json:"table_names"`
	TableNamesOriginal  []string    `json:"table_names_original"`
	ColumnNames         []ColumnRef `json:"column_names"`
	ColumnNamesOriginal []ColumnRef `json:"column_names_original"`
	ColumnTypes         []string    `json:"column_types"`
	PrimaryKeys         []int       `json:"primary_keys"`
	ForeignKeys         [][2]int    `json:"foreign_keys"`
}

// ReadRawSchemas decodes one tables file: a JSON array of raw descriptors.
func ReadRawSchemas(path string) ([]*RawSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables file: %w", err)
	}
	var raws []*RawSchema
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse tables file %s: %w", path, err)
	}
	return raws, nil
}
