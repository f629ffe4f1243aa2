// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "retailclean/internal/schema"

// MapType maps a logical column kind into a Postgres SQL type.
//
//	text   -> TEXT
//	number -> DOUBLE PRECISION
//	int    -> BIGINT
//	date   -> DATE
//	bool   -> BOOLEAN
func MapType(k schema.Kind) string {
	switch k {
	case schema.KindNumber:
		return "DOUBLE PRECISION"
	case schema.KindInt:
		return "BIGINT"
	case schema.KindDate:
		return "DATE"
	case schema.KindBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}
