package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBSchemaError
	DBExportError

	// Precondition errors
	PreconditionError
	UnknownDatasetError
	DatasetsConfigError

	// Integrity errors
	ChecksumError
	IntegrityError

	// Remote errors
	RemoteError

	// Artifact errors
	ArtifactReadError
	ArtifactWriteError
	ArtifactShapeError

	// Alignment errors
	AlignmentError
	DuplicateGenesError
	DuplicateCellsError

	// Sample errors
	UnsupportedSampleFormatError
	SampleReadError
	ArchiveError

	// Table errors
	MissingColumnError
	ColumnTypeError
	DuplicateIndexError
	TableShapeError
)
