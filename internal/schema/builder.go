package schema

import (
	"fmt"
	"strings"
)

// Build turns a raw descriptor into a validated Schema. Construction is
// two-pass: all tables and columns are created positionally first, then a
// resolution pass links columns to tables and resolves the primary-key and
// foreign-key index lists. Any out-of-range index aborts the build.
func Build(raw *RawSchema) (*Schema, error) {
	if raw.DBID == "" {
		return nil, fmt.Errorf("schema descriptor has no db_id")
	}
	if len(raw.TableNames) != len(raw.TableNamesOriginal) {
		return nil, fmt.Errorf("db %s: %d table names vs %d original table names",
			raw.DBID, len(raw.TableNames), len(raw.TableNamesOriginal))
	}
	if len(raw.ColumnNames) != len(raw.ColumnNamesOriginal) || len(raw.ColumnNames) != len(raw.ColumnTypes) {
		return nil, fmt.Errorf("db %s: column descriptor arrays disagree: %d names, %d original names, %d types",
			raw.DBID, len(raw.ColumnNames), len(raw.ColumnNamesOriginal), len(raw.ColumnTypes))
	}

	tables := make([]*Table, len(raw.TableNames))
	for i, name := range raw.TableNames {
		tables[i] = &Table{
			ID:          i,
			Name:        strings.Fields(name),
			UnsplitName: name,
			OrigName:    AddUnderscore(raw.TableNamesOriginal[i]),
		}
	}

	columns := make([]*Column, len(raw.ColumnNames))
	for i, ref := range raw.ColumnNames {
		col := &Column{
			ID:          i,
			Name:        strings.Fields(ref.Name),
			UnsplitName: ref.Name,
			OrigName:    AddUnderscore(raw.ColumnNamesOriginal[i].Name),
			Type:        raw.ColumnTypes[i],
		}
		if ref.TableIndex >= 0 {
			if ref.TableIndex >= len(tables) {
				return nil, fmt.Errorf("db %s: column %d references table %d of %d",
					raw.DBID, i, ref.TableIndex, len(tables))
			}
			col.Table = tables[ref.TableIndex]
		}
		columns[i] = col
	}

	// Resolution pass: attach owned columns in descriptor order.
	for _, col := range columns {
		if col.Table != nil {
			col.Table.Columns = append(col.Table.Columns, col)
		}
	}

	for _, colID := range raw.PrimaryKeys {
		if colID < 0 || colID >= len(columns) {
			return nil, fmt.Errorf("db %s: primary key index %d out of range (%d columns)",
				raw.DBID, colID, len(columns))
		}
		col := columns[colID]
		if col.Table == nil {
			return nil, fmt.Errorf("db %s: primary key column %d owns no table", raw.DBID, colID)
		}
		col.Table.PrimaryKeys = append(col.Table.PrimaryKeys, col)
	}

	graph := make(ForeignKeyGraph)
	for _, fk := range raw.ForeignKeys {
		srcID, dstID := fk[0], fk[1]
		if srcID < 0 || srcID >= len(columns) || dstID < 0 || dstID >= len(columns) {
			return nil, fmt.Errorf("db %s: foreign key pair [%d, %d] out of range (%d columns)",
				raw.DBID, srcID, dstID, len(columns))
		}
		src, dst := columns[srcID], columns[dstID]
		if src.Table == nil || dst.Table == nil {
			return nil, fmt.Errorf("db %s: foreign key pair [%d, %d] involves a column with no table",
				raw.DBID, srcID, dstID)
		}
		src.ForeignKeyFor = dst
		graph.AddEdge(src.Table.ID, dst.Table.ID, srcID, dstID)
		graph.AddEdge(dst.Table.ID, src.Table.ID, dstID, srcID)
	}

	return &Schema{
		DBID:            raw.DBID,
		Tables:          tables,
		Columns:         columns,
		ForeignKeyGraph: graph,
		Orig:            raw,
	}, nil
}
