package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"sqlbench/internal/eval"
	"sqlbench/internal/logger"
	"sqlbench/internal/schema"
	"sqlbench/pkg/config"
)

// Spider loads the Spider-style benchmark: JSON schema files joined with
// JSON example files by database id. Examples keep file order across all
// input files.
type Spider struct {
	examples []*Item
	schemas  map[string]*schema.Schema
	fkMaps   map[string]eval.ForeignKeyMap
}

// NewSpider eagerly loads all schema and example files. Any missing
// schema reference or duplicate database id aborts construction.
func NewSpider(cfg config.DatasetConfig) (*Spider, error) {
	schemas, fkMaps, err := LoadTables(cfg.TableFiles)
	if err != nil {
		return nil, err
	}
	ds := &Spider{schemas: schemas, fkMaps: fkMaps}

	for _, path := range cfg.ExampleFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read example file: %w", err)
		}
		var raws []*RawExample
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("parse example file %s: %w", path, err)
		}
		for i, raw := range raws {
			s, ok := schemas[raw.DBID]
			if !ok {
				return nil, fmt.Errorf("%w: %q referenced by example %d of %s", ErrUnknownDatabase, raw.DBID, i, path)
			}
			ds.examples = append(ds.examples, &Item{
				Text:       raw.QuestionToks,
				Code:       raw.SQL,
				Schema:     s,
				Orig:       raw,
				OrigSchema: s.Orig,
			})
			if cfg.Limit > 0 && len(ds.examples) >= cfg.Limit {
				logger.Info("example limit %d reached", cfg.Limit)
				return ds, nil
			}
		}
	}
	logger.Info("loaded %d examples over %d databases", len(ds.examples), len(schemas))
	return ds, nil
}

// Len returns the number of loaded examples.
func (s *Spider) Len() int {
	return len(s.examples)
}

// Get returns the example at idx.
func (s *Spider) Get(idx int) *Item {
	return s.examples[idx]
}

// Schemas exposes the per-database schema mapping.
func (s *Spider) Schemas() map[string]*schema.Schema {
	return s.schemas
}

// ForeignKeyMaps exposes the precomputed evaluator lookup maps.
func (s *Spider) ForeignKeyMaps() map[string]eval.ForeignKeyMap {
	return s.fkMaps
}

func init() {
	Register("spider", func(cfg config.DatasetConfig) (Dataset, error) {
		return NewSpider(cfg)
	})
}
