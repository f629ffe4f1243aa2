// Package ddl contains MSSQL-specific helpers for generating DDL.
package ddl

import "retailclean/internal/schema"

// MapType maps a logical column kind into a SQL Server column type. Text
// falls back to NVARCHAR(MAX) so names and codes keep their full Unicode form.
func MapType(k schema.Kind) string {
	switch k {
	case schema.KindNumber:
		return "FLOAT"
	case schema.KindInt:
		return "BIGINT"
	case schema.KindDate:
		return "DATE"
	case schema.KindBool:
		return "BIT"
	default:
		return "NVARCHAR(MAX)"
	}
}
