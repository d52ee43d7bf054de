// Package statement parses bank statement exports into raw transactions.
// CSV exports are the default; OFX/QFX files are recognized by extension.
package statement

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kestrelworks/sift/internal/model"
)

// Parser loads a single statement file into entries in file order. A missing
// or malformed file is a fatal error for that file.
type Parser interface {
	Parse(path string) ([]*model.Entry, error)
}

// ForFile selects a parser based on the file extension.
func ForFile(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &CSVParser{}, nil
	case ".ofx", ".qfx":
		return &OFXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported statement format: %s", path)
	}
}

// Load parses a statement file and returns its entries sorted by date
// ascending, preserving file order within a date.
func Load(path string) ([]*model.Entry, error) {
	parser, err := ForFile(path)
	if err != nil {
		return nil, err
	}

	entries, err := parser.Parse(path)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date.Time)
	})
	return entries, nil
}
