// Package parser defines the contract shared by the input table parsers.
package parser

import (
	"io"

	"retailclean/pkg/records"
)

// Parser reads one fully materialized table from r. skipped counts rows that
// were dropped because they could not be read.
type Parser interface {
	Parse(r io.Reader) (tbl records.Table, skipped int, err error)
}
