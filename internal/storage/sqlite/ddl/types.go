// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import "retailclean/internal/schema"

// MapType maps a logical column kind into a SQLite column type.
//
// SQLite is dynamically typed, so the mapping picks canonical affinities:
// dates are stored as ISO-8601 TEXT and booleans as INTEGER 0/1.
func MapType(k schema.Kind) string {
	switch k {
	case schema.KindNumber:
		return "REAL"
	case schema.KindInt, schema.KindBool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}
