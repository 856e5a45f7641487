// Package ioobs reads and writes observation tables: the census
// observation parquet file and tab-separated metadata and summary
// tables.
package ioobs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/seafront/seafront/pkg/obs"
)

// DecodeTSV reads a tab-separated table with a header row. The first
// column is the row index. When the header is one field shorter than
// the data rows, the header has no name for the index column.
func DecodeTSV(r io.Reader) (*obs.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return obs.New(), nil
	}
	if err != nil {
		return nil, err
	}

	var res *obs.Table
	var columns []string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if res == nil {
			columns = header[1:]
			if len(rec) == len(header)+1 {
				columns = header
			}
			res = obs.New(columns...)
		}
		if len(rec) != len(columns)+1 {
			return nil, fmt.Errorf("line %d has %d fields, expected %d",
				line, len(rec), len(columns)+1)
		}
		vals := make([]obs.Value, len(columns))
		for i, f := range rec[1:] {
			vals[i] = obs.Parse(f)
		}
		if err = res.AppendRow(rec[0], vals...); err != nil {
			return nil, err
		}
	}
	if res == nil {
		if len(header) == 0 {
			return obs.New(), nil
		}
		return obs.New(header[1:]...), nil
	}
	return res, nil
}

// ReadTSV reads a tab-separated table from a file.
func ReadTSV(path string) (*obs.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	defer f.Close()

	res, err := DecodeTSV(f)
	if err != nil {
		return nil, TableFormatError(path, err)
	}
	return res, nil
}

// EncodeTSV writes t with a header row. The index is written first,
// under indexName. Missing values are empty fields.
func EncodeTSV(w io.Writer, t *obs.Table, indexName string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	columns := t.Columns()
	rec := make([]string, len(columns)+1)
	rec[0] = indexName
	copy(rec[1:], columns)
	if err := cw.Write(rec); err != nil {
		return err
	}
	for i, id := range t.Index() {
		rec[0] = id
		for j, c := range columns {
			rec[j+1] = t.Value(i, c).String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTSV stores t at path, replacing any existing file atomically.
func WriteTSV(path string, t *obs.Table, indexName string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return WriteFileError(path, err)
	}
	pf, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return WriteFileError(path, err)
	}
	defer pf.Cleanup()

	if err = EncodeTSV(pf, t, indexName); err != nil {
		return WriteFileError(path, err)
	}
	if err = pf.Chmod(0644); err != nil {
		return WriteFileError(path, err)
	}
	if err = pf.CloseAtomicallyReplace(); err != nil {
		return WriteFileError(path, err)
	}
	return nil
}
