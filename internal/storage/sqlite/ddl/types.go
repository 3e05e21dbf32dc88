package ddl

import "strings"

// MapType maps an inferred or logical type to a SQLite column type:
// integers and booleans to INTEGER, floats to REAL, decimals to NUMERIC,
// blobs to BLOB and everything else (dates included, as ISO-8601) to TEXT.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint", "bool", "boolean":
		return "INTEGER"
	case "float", "double", "real":
		return "REAL"
	case "numeric", "decimal":
		return "NUMERIC"
	case "blob", "bytes":
		return "BLOB"
	default:
		return "TEXT"
	}
}
