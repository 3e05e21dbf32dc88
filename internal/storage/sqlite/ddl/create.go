// Package ddl renders SQLite CREATE TABLE statements for the snapshot table
// from the generic ddl.TableDef model.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "carviz/internal/ddl"
	"carviz/internal/probe"
	"carviz/internal/storage"
	"carviz/internal/storage/sqlite"
)

// BuildCreateTableSQL returns
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "col1" TYPE [NOT NULL] [DEFAULT expr],
//	  PRIMARY KEY ("pk")
//	);
//
// Defaults are raw SQL.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("sqlite ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("sqlite ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("sqlite ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("sqlite ddl: column %s missing SQLType", name)
		}

		def := sqlite.QuoteIdent(name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		if d := strings.TrimSpace(c.Default); d != "" {
			def += " DEFAULT " + d
		}
		cols = append(cols, def)
		if c.PrimaryKey {
			pks = append(pks, sqlite.QuoteIdent(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		sqlite.QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}

// FromColumns builds the snapshot table definition from described columns.
// Every column is nullable: missing cells are stored as NULL.
func FromColumns(table string, cols []probe.Column) gddl.TableDef {
	td := gddl.TableDef{FQN: table, Columns: make([]gddl.ColumnDef, 0, len(cols))}
	for _, c := range cols {
		td.Columns = append(td.Columns, gddl.ColumnDef{
			Name:     c.Field,
			SQLType:  MapType(c.Type),
			Nullable: true,
		})
	}
	return td
}

// EnsureTable creates the table described by td unless it exists.
func EnsureTable(ctx context.Context, repo storage.Repository, td gddl.TableDef) error {
	stmt, err := BuildCreateTableSQL(td)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, stmt)
}
