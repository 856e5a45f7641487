package ioartifact

// FormatVersion is stored in every artifact file and checked on read.
const FormatVersion = "1"

const ddl = `
CREATE TABLE meta (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE table_columns (
	tbl TEXT NOT NULL,
	pos INTEGER NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (tbl, pos)
);

CREATE TABLE table_index (
	tbl TEXT NOT NULL,
	row_num INTEGER NOT NULL,
	id TEXT NOT NULL,
	PRIMARY KEY (tbl, row_num)
);

CREATE TABLE table_cells (
	tbl TEXT NOT NULL,
	row_num INTEGER NOT NULL,
	pos INTEGER NOT NULL,
	kind INTEGER NOT NULL,
	str TEXT,
	num REAL,
	PRIMARY KEY (tbl, row_num, pos)
);

CREATE TABLE x (
	row_num INTEGER NOT NULL,
	col_num INTEGER NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (row_num, col_num)
);
`

const (
	tblObs = "obs"
	tblVar = "var"
)
