// Package ioartifact stores matrix artifacts on disk as SQLite files.
package ioartifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/renameio"
	"github.com/seafront/seafront/pkg/artifact"
	"github.com/seafront/seafront/pkg/obs"
	_ "modernc.org/sqlite"
)

// Write stores the artifact at path. The file is assembled next to its
// destination and moved into place only when complete, so readers never
// see a partial artifact.
func Write(ctx context.Context, path string, a *artifact.Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WriteError(path, err)
	}

	pf, err := renameio.TempFile(dir, path)
	if err != nil {
		return WriteError(path, err)
	}
	defer pf.Cleanup()
	if err = pf.Chmod(0644); err != nil {
		return WriteError(path, err)
	}

	if err = writeDB(ctx, pf.Name(), a); err != nil {
		return WriteError(path, err)
	}
	if err = pf.CloseAtomicallyReplace(); err != nil {
		return WriteError(path, err)
	}
	return nil
}

// Read loads the artifact stored at path.
func Read(ctx context.Context, path string) (*artifact.Artifact, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, ReadError(path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	defer db.Close()

	res, err := readDB(ctx, db)
	if err != nil {
		return nil, ReadError(path, err)
	}
	if err = res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

func writeDB(ctx context.Context, path string, a *artifact.Artifact) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err = db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("cannot create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	meta := [][2]string{
		{"format_version", FormatVersion},
		{"id", a.ID},
		{"rows", strconv.Itoa(a.X.Rows)},
		{"cols", strconv.Itoa(a.X.Cols)},
	}
	for _, kv := range meta {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO meta (name, value) VALUES (?, ?)", kv[0], kv[1])
		if err != nil {
			return err
		}
	}

	if err = writeTable(ctx, tx, tblObs, a.Obs); err != nil {
		return err
	}
	if err = writeTable(ctx, tx, tblVar, a.Var); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO x (row_num, col_num, value) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := range a.X.Rows {
		cols, vals := a.X.Row(i)
		for k, c := range cols {
			if _, err = stmt.ExecContext(ctx, i, c, vals[k]); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func writeTable(ctx context.Context, tx *sql.Tx, name string, t *obs.Table) error {
	cols := t.Columns()
	for pos, c := range cols {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO table_columns (tbl, pos, name) VALUES (?, ?, ?)",
			name, pos, c)
		if err != nil {
			return err
		}
	}

	idxStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO table_index (tbl, row_num, id) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer idxStmt.Close()

	cellStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO table_cells (tbl, row_num, pos, kind, str, num)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer cellStmt.Close()

	for i, id := range t.Index() {
		if _, err = idxStmt.ExecContext(ctx, name, i, id); err != nil {
			return err
		}
		for pos, c := range cols {
			v := t.Value(i, c)
			var str sql.NullString
			var num sql.NullFloat64
			switch v.Kind() {
			case obs.KindMissing:
				continue
			case obs.KindString:
				str = sql.NullString{String: v.String(), Valid: true}
			case obs.KindNumber:
				f, _ := v.Float()
				num = sql.NullFloat64{Float64: f, Valid: true}
			}
			_, err = cellStmt.ExecContext(ctx, name, i, pos, int(v.Kind()), str, num)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func readDB(ctx context.Context, db *sql.DB) (*artifact.Artifact, error) {
	meta := make(map[string]string)
	rows, err := db.QueryContext(ctx, "SELECT name, value FROM meta")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var k, v string
		if err = rows.Scan(&k, &v); err != nil {
			rows.Close()
			return nil, err
		}
		meta[k] = v
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if v := meta["format_version"]; v != FormatVersion {
		return nil, fmt.Errorf("unsupported artifact format version %q", v)
	}
	nRows, err := strconv.Atoi(meta["rows"])
	if err != nil {
		return nil, fmt.Errorf("bad row count: %w", err)
	}
	nCols, err := strconv.Atoi(meta["cols"])
	if err != nil {
		return nil, fmt.Errorf("bad column count: %w", err)
	}

	o, err := readTable(ctx, db, tblObs)
	if err != nil {
		return nil, err
	}
	v, err := readTable(ctx, db, tblVar)
	if err != nil {
		return nil, err
	}

	x, err := readMatrix(ctx, db, nRows, nCols)
	if err != nil {
		return nil, err
	}

	return &artifact.Artifact{ID: meta["id"], Obs: o, Var: v, X: x}, nil
}

func readMatrix(ctx context.Context, db *sql.DB, nRows, nCols int) (*artifact.Matrix, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT row_num, col_num, value FROM x ORDER BY row_num, col_num")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := artifact.NewMatrix(nCols)
	var cols []int
	var vals []float64
	cur := 0
	flush := func(upTo int) error {
		for cur < upTo {
			if err := res.AppendRow(cols, vals); err != nil {
				return err
			}
			cols, vals = cols[:0], vals[:0]
			cur++
		}
		return nil
	}
	for rows.Next() {
		var r, c int
		var v float64
		if err = rows.Scan(&r, &c, &v); err != nil {
			return nil, err
		}
		if r < cur || r >= nRows {
			return nil, fmt.Errorf("matrix row %d out of range", r)
		}
		if err = flush(r); err != nil {
			return nil, err
		}
		cols = append(cols, c)
		vals = append(vals, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if err = flush(nRows); err != nil {
		return nil, err
	}
	return res, nil
}

func readTable(ctx context.Context, db *sql.DB, name string) (*obs.Table, error) {
	var cols []string
	rows, err := db.QueryContext(ctx,
		"SELECT name FROM table_columns WHERE tbl = ? ORDER BY pos", name)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			rows.Close()
			return nil, err
		}
		cols = append(cols, c)
	}
	rows.Close()

	var ids []string
	rows, err = db.QueryContext(ctx,
		"SELECT id FROM table_index WHERE tbl = ? ORDER BY row_num", name)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()

	cells := make([][]obs.Value, len(ids))
	for i := range cells {
		cells[i] = make([]obs.Value, len(cols))
	}
	rows, err = db.QueryContext(ctx, `
		SELECT row_num, pos, kind, str, num
		FROM table_cells WHERE tbl = ?`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r, pos, kind int
		var str sql.NullString
		var num sql.NullFloat64
		if err = rows.Scan(&r, &pos, &kind, &str, &num); err != nil {
			return nil, err
		}
		if r < 0 || r >= len(ids) || pos < 0 || pos >= len(cols) {
			return nil, fmt.Errorf("cell (%d, %d) of %s out of range", r, pos, name)
		}
		switch obs.Kind(kind) {
		case obs.KindString:
			cells[r][pos] = obs.String(str.String)
		case obs.KindNumber:
			cells[r][pos] = obs.Number(num.Float64)
		default:
			return nil, errors.New("unknown value kind")
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	res := obs.New(cols...)
	for i, id := range ids {
		if err = res.AppendRow(id, cells[i]...); err != nil {
			return nil, err
		}
	}
	return res, nil
}
