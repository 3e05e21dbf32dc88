// Package sqlite implements the snapshot Repository on modernc.org/sqlite,
// a pure-Go driver, so the binary stays cgo-free.
package sqlite

// Config holds SQLite repository configuration.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:cars.db"
	//   ":memory:"
	DSN string

	// Table receives the rows. "main.cars" style names are accepted.
	Table string
}
