// Package csvlog implements the append-only CSV measurement log shared by
// the collector and every reporting consumer.
//
// The log has a single writer. Readers take a fresh snapshot on every call
// and tolerate rows being appended concurrently.
package csvlog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"network-quality/internal/models"
)

// Log is an append-only CSV file of measurement records
type Log struct {
	path string
}

// New creates a Log bound to path. The file is created lazily on first write.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the file path of the log
func (l *Log) Path() string {
	return l.path
}

// Exists reports whether the log file is present
func (l *Log) Exists() (bool, error) {
	_, err := os.Stat(l.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat log: %w", err)
}

// EnsureInitialized creates the file with its header if it does not exist.
// It never touches an existing file, so it is safe to call before every append.
func (l *Log) EnsureInitialized() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}

	line, err := encodeLine(Header)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	return nil
}

// Append writes record as one row at the end of the log
func (l *Log) Append(record models.Record) error {
	if err := l.EnsureInitialized(); err != nil {
		return err
	}

	line, err := encodeLine(encodeRow(record))
	if err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log for append: %w", err)
	}
	// The whole row goes out in a single write.
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("append record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	return nil
}

// ReadAll parses every data row of the log. A missing file yields an empty
// slice. Rows that are short or do not parse are skipped.
func (l *Log) ReadAll() ([]models.Record, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	return readRecords(f)
}

// ReadTail returns the last n records in chronological order
func (l *Log) ReadTail(n int) ([]models.Record, error) {
	if n <= 0 {
		return []models.Record{}, nil
	}
	records, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}

func readRecords(r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records := []models.Record{}
	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			header = false
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		if header {
			header = false
			continue
		}

		record, err := decodeRow(row)
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func encodeLine(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return buf.Bytes(), nil
}
