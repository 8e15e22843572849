// Package dataset loads the per-entity-type CSV tables from the data
// directory. It returns raw header-keyed records; normalization against the
// canonical schema happens in the normalize use case.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kindredhq/kindred/internal/domain"
	"github.com/kindredhq/kindred/internal/domain/entity"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Repository reads entity tables from a directory of CSV files.
type Repository struct {
	dir string
}

// New creates a dataset repository rooted at dir.
func New(dir string) *Repository {
	return &Repository{dir: dir}
}

// Path returns the CSV path for an entity type (users.csv, events.csv, ...).
func (r *Repository) Path(typ entity.Type) string {
	return filepath.Join(r.dir, typ.Plural()+".csv")
}

// Load reads one entity table. Input must be UTF-8 (a leading BOM is
// stripped); anything else fails with domain.ErrEncoding. Short rows are
// padded so sparse exports never fail the load.
func (r *Repository) Load(typ entity.Type) ([]map[string]string, error) {
	path := r.Path(typ)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, domain.NewEncodingError(path)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}
