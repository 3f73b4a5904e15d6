package dataset

import (
	"fmt"

	"sqlbench/internal/eval"
	"sqlbench/internal/logger"
	"sqlbench/internal/schema"
)

// LoadTables reads every schema file, builds the validated schema graph
// for each database and precomputes the foreign-key lookup map the
// evaluator needs. All files accumulate into one combined mapping; a
// database id seen twice anywhere in the batch aborts the load.
func LoadTables(paths []string) (map[string]*schema.Schema, map[string]eval.ForeignKeyMap, error) {
	schemas := make(map[string]*schema.Schema)
	fkMaps := make(map[string]eval.ForeignKeyMap)

	for _, path := range paths {
		raws, err := schema.ReadRawSchemas(path)
		if err != nil {
			return nil, nil, err
		}
		for _, raw := range raws {
			if _, ok := schemas[raw.DBID]; ok {
				return nil, nil, fmt.Errorf("%w: %s (seen again in %s)", ErrDuplicateDatabase, raw.DBID, path)
			}
			s, err := schema.Build(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("build schema from %s: %w", path, err)
			}
			schemas[s.DBID] = s
			fkMaps[s.DBID] = eval.BuildForeignKeyMap(raw)
		}
		logger.Debug("loaded schema file %s (%d databases so far)", path, len(schemas))
	}
	return schemas, fkMaps, nil
}
