package control

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Delimiter between columns in the control file.
const Delimiter = ';'

var (
	ErrNotFound     = errors.New("control file not found")
	ErrRead         = errors.New("control file unreadable")
	ErrBackupFailed = errors.New("control file backup failed")
)

// Load reads the control file at path as semicolon-delimited text with no
// header row. columns names the fields in file order. Records come back in
// file order and keep it for the lifetime of the run.
func Load(path string, columns []string) ([]*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = Delimiter
	reader.FieldsPerRecord = len(columns)
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	records := make([]*Record, 0, len(rows))
	for i, row := range rows {
		rec := &Record{}
		for col, value := range row {
			if err := rec.set(columns[col], value); err != nil {
				return nil, fmt.Errorf("%w: %s line %d: %v", ErrRead, path, i+1, err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save serializes records back to path in the given column order. The pre-run
// file contents are copied to path+backupSuffix first; if that copy cannot
// complete the original file is left untouched and ErrBackupFailed is
// returned. This is the single persistence point of a run.
func Save(path string, records []*Record, columns []string, backupSuffix string) error {
	previous, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrBackupFailed, path, err)
	}
	backupPath := path + backupSuffix
	if err := os.WriteFile(backupPath, previous, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrBackupFailed, backupPath, err)
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)
	writer.Comma = Delimiter
	for _, rec := range records {
		row := make([]string, len(columns))
		for col, name := range columns {
			value, err := rec.text(name)
			if err != nil {
				return fmt.Errorf("serialize %s: %w", path, err)
			}
			row[col] = value
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("serialize %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("serialize %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
