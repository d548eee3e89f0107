/*
 * store.go, part of golmp.
 *
 * Copyright 2026 The golmp authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package store exports thermo tables, trajectories and MSD series to an SQLite
// database. Each saved dataset becomes one SQL table, and is listed, with its
// kind and source file, in the datasets table.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	lmp "github.com/rmera/golmp"
	"github.com/rmera/golmp/analyze"
	"github.com/rmera/golmp/dump"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

// Dataset kinds.
const (
	Thermo = "thermo"
	Atoms  = "atoms"
	Box    = "box"
	MSD    = "msd"
)

// Dataset describes one saved table.
type Dataset struct {
	Name   string
	Kind   string
	Source string
	Rows   int
}

// Store is an SQLite database holding exported results.
type Store struct {
	db *sql.DB
}

// New opens, or creates, the database at dbPath. ":memory:" gives an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	//an in-memory database exists only for one connection.
	db.SetMaxOpenConns(1)
	S := &Store{db: db}
	if err := S.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return S, nil
}

func (S *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		name TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		n_rows INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := S.db.Exec(schema)
	return err
}

// Close closes the database.
func (S *Store) Close() error {
	return S.db.Close()
}

// quote returns name as an SQL identifier.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlType(t lmp.ColumnType) string {
	switch t {
	case lmp.Integer:
		return "INTEGER"
	case lmp.Float:
		return "REAL"
	}
	return "TEXT"
}

// column is the definition of one SQL column.
type column struct {
	name string
	typ  string
}

// write replaces the table name with rows rows, taking each row from row(i),
// and records it in datasets. Everything happens in one transaction.
func (S *Store) write(ctx context.Context, d Dataset, cols []column, row func(i int) []any) error {
	if d.Name == "" {
		return fmt.Errorf("empty dataset name")
	}
	tx, err := S.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(d.Name)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", d.Name, err)
	}
	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quote(c.name) + " " + c.typ
		marks[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quote(d.Name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create %s: %w", d.Name, err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quote(d.Name), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", d.Name, err)
	}
	defer stmt.Close()
	for i := 0; i < d.Rows; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			return fmt.Errorf("failed to insert row %d into %s: %w", i, d.Name, err)
		}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO datasets (name, kind, source, n_rows) VALUES (?, ?, ?, ?)
	`, d.Name, d.Kind, d.Source, d.Rows)
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", d.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", d.Name, err)
	}
	log.Debug().Str("dataset", d.Name).Str("kind", d.Kind).Int("rows", d.Rows).Msg("saved")
	return nil
}

// SaveTable saves T as the table name, with one SQL column per column of T.
// An existing table with the same name is replaced.
func (S *Store) SaveTable(ctx context.Context, name, kind, source string, T *lmp.Table) error {
	cols := make([]column, T.Width())
	for j := range cols {
		c := T.ColumnAt(j)
		cols[j] = column{c.Name(), sqlType(c.Type())}
	}
	row := func(i int) []any {
		ret := make([]any, T.Width())
		for j := range ret {
			ret[j] = T.ColumnAt(j).Value(i)
		}
		return ret
	}
	return S.write(ctx, Dataset{Name: name, Kind: kind, Source: source, Rows: T.Len()}, cols, row)
}

// SaveTrajectory saves the atom rows of all frames of traj in the table name,
// with a leading timestep column, and the box bounds in the table name_box.
// All frames must have the same columns.
func (S *Store) SaveTrajectory(ctx context.Context, name string, traj *dump.Trajectory) error {
	if traj.Len() == 0 {
		return lmp.NewError(lmp.EmptyTrajectory, traj.FileName(), "no frames to save", "Store.SaveTrajectory")
	}
	first := traj.Frames[0].Table
	header := strings.Join(first.Names(), " ")
	frame := make([]int, 0, first.Len()*traj.Len()) //frame index of each row
	offset := make([]int, 0, cap(frame))            //row in that frame
	for j, f := range traj.Frames {
		if strings.Join(f.Table.Names(), " ") != header {
			return lmp.NewError(lmp.WrongFormat, traj.FileName(), fmt.Sprintf("timestep %d has columns %v, expected %v", f.Timestep, f.Table.Names(), first.Names()), "Store.SaveTrajectory")
		}
		for i := 0; i < f.Table.Len(); i++ {
			frame = append(frame, j)
			offset = append(offset, i)
		}
	}
	//a column may be Integer in one frame and Float in another.
	cols := []column{{"timestep", "INTEGER"}}
	for j := 0; j < first.Width(); j++ {
		t := sqlType(first.ColumnAt(j).Type())
		for _, f := range traj.Frames[1:] {
			if sqlType(f.Table.ColumnAt(j).Type()) != t {
				t = "NUMERIC"
				break
			}
		}
		cols = append(cols, column{first.ColumnAt(j).Name(), t})
	}
	row := func(i int) []any {
		f := traj.Frames[frame[i]]
		ret := make([]any, 1, len(cols))
		ret[0] = int64(f.Timestep)
		for j := 0; j < f.Table.Width(); j++ {
			ret = append(ret, f.Table.ColumnAt(j).Value(offset[i]))
		}
		return ret
	}
	if err := S.write(ctx, Dataset{Name: name, Kind: Atoms, Source: traj.FileName(), Rows: len(frame)}, cols, row); err != nil {
		return err
	}
	if traj.BoxBounds == nil {
		return nil
	}
	return S.SaveTable(ctx, name+"_box", Box, traj.FileName(), traj.BoxBounds)
}

// SaveSeries saves an MSD series in the table name, with the columns timestep and msd.
func (S *Store) SaveSeries(ctx context.Context, name, source string, series *analyze.Series) error {
	cols := []column{{"timestep", "INTEGER"}, {"msd", "REAL"}}
	row := func(i int) []any {
		return []any{int64(series.Timesteps[i]), series.Values[i]}
	}
	return S.write(ctx, Dataset{Name: name, Kind: MSD, Source: source, Rows: series.Len()}, cols, row)
}

// Count returns the number of rows in the table name.
func (S *Store) Count(ctx context.Context, name string) (int, error) {
	var n int
	if err := S.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quote(name)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", name, err)
	}
	return n, nil
}

// Datasets lists the saved datasets, ordered by name.
func (S *Store) Datasets(ctx context.Context) ([]Dataset, error) {
	rows, err := S.db.QueryContext(ctx, `SELECT name, kind, source, n_rows FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()
	var ret []Dataset
	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.Name, &d.Kind, &d.Source, &d.Rows); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		ret = append(ret, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating datasets: %w", err)
	}
	return ret, nil
}
