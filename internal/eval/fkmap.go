package eval

import (
	"sort"
	"strings"

	"sqlbench/internal/schema"
)

// ForeignKeyMap maps a qualified column key of the form __table.column__
// to the canonical key of its foreign-key group, so that columns joined by
// foreign keys compare as equal during matching.
type ForeignKeyMap map[string]string

func columnKey(raw *schema.RawSchema, ref schema.ColumnRef) string {
	if ref.TableIndex < 0 {
		return "__all__"
	}
	table := raw.TableNamesOriginal[ref.TableIndex]
	return "__" + strings.ToLower(table) + "." + strings.ToLower(ref.Name) + "__"
}

// BuildForeignKeyMap derives the lookup map from a raw schema descriptor.
// Foreign-key pairs sharing a column fall into one group; every member of
// a group maps to the member with the lowest column id.
func BuildForeignKeyMap(raw *schema.RawSchema) ForeignKeyMap {
	keys := make([]string, len(raw.ColumnNamesOriginal))
	for i, ref := range raw.ColumnNamesOriginal {
		keys[i] = columnKey(raw, ref)
	}

	var groups []map[int]bool
	for _, fk := range raw.ForeignKeys {
		k1, k2 := fk[0], fk[1]
		var group map[int]bool
		for _, g := range groups {
			if g[k1] || g[k2] {
				group = g
				break
			}
		}
		if group == nil {
			group = make(map[int]bool)
			groups = append(groups, group)
		}
		group[k1] = true
		group[k2] = true
	}

	fkMap := make(ForeignKeyMap)
	for _, group := range groups {
		ids := make([]int, 0, len(group))
		for id := range group {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		canonical := keys[ids[0]]
		for _, id := range ids {
			fkMap[keys[id]] = canonical
		}
	}
	return fkMap
}
