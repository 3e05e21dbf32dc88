// Package parser defines the contract between raw input and records.
package parser

import (
	"io"

	"carviz/pkg/records"
)

// Parser turns raw bytes into rows.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}

// TableParser additionally preserves the header order.
type TableParser interface {
	Parser
	ParseTable(r io.Reader) (*records.Table, int, error)
}
