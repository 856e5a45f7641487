// Package iosamples assembles a multi-sample dataset into one combined
// matrix artifact whose cells are aligned with per-cell metadata.
package iosamples

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/seafront/seafront/internal/ioartifact"
	"github.com/seafront/seafront/internal/ioobs"
	"github.com/seafront/seafront/pkg/artifact"
	"github.com/seafront/seafront/pkg/datasets"
	"github.com/seafront/seafront/pkg/errcode"
	"github.com/seafront/seafront/pkg/obs"
)

// MetadataKeyPattern splits a combined cell id into the barcode (without
// its "-1" suffix) and the sample part. Metadata files are keyed by
// "<barcode>_<patient>".
var MetadataKeyPattern = regexp.MustCompile(`^(?P<barcode>[^-]+)-1_(?P<patient>.+)$`)

// MetadataKeyVersion changes whenever MetadataKeyPattern does.
const MetadataKeyVersion = 1

// Observation columns added by Combine.
const (
	SampleIDColumn    = "sample_id"
	PatientIDColumn   = "patient_id"
	PatientAgeColumn  = "patient_age"
	MetadataKeyColumn = "metadata_key"
)

const (
	// MatrixSuffix ends the names of per-sample matrices.
	MatrixSuffix = "_filtered_feature_bc_matrix"

	// MetadataSuffix ends the names of metadata tables.
	MetadataSuffix = "_metadata.txt"
)

// Sample formats.
const (
	FormatMEX = "mex"
	FormatH5  = "h5"
)

// Sample is the raw content of one sample matrix. Gene names may
// repeat.
type Sample struct {
	Barcodes []string
	Genes    []string
	GeneIDs  []string
	X        *artifact.Matrix
}

// SampleReader reads a sample matrix from a file or directory.
type SampleReader func(path string) (*Sample, error)

// Combiner builds combined artifacts of registered datasets.
type Combiner struct {
	dataDir string
	readers map[string]SampleReader
	write   func(ctx context.Context, path string, a *artifact.Artifact) error
}

// Option configures a Combiner.
type Option func(*Combiner)

// OptSampleReader registers a reader for a sample format. A nil reader
// removes the format.
func OptSampleReader(format string, r SampleReader) Option {
	return func(c *Combiner) {
		if r == nil {
			delete(c.readers, format)
			return
		}
		c.readers[format] = r
	}
}

// New creates a Combiner. Relative dataset directories are resolved
// against dataDir.
func New(dataDir string, opts ...Option) *Combiner {
	res := &Combiner{
		dataDir: dataDir,
		readers: map[string]SampleReader{FormatMEX: ReadMEX, FormatH5: ReadH5},
		write:   ioartifact.Write,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

type sampleFile struct {
	id     string
	path   string
	format string
}

// Combine assembles dataset ds and writes the combined artifact to its
// output path. It returns the concatenated metadata table and the
// artifact. Nothing is written when any step fails.
func (c *Combiner) Combine(
	ctx context.Context,
	ds datasets.Dataset,
) (*obs.Table, *artifact.Artifact, error) {
	start := time.Now()
	if err := ds.Validate(); err != nil {
		return nil, nil, PreconditionError(ds.Name, err.Error())
	}
	dir := c.resolve(ds.Dir)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return nil, nil, PreconditionError(ds.Name, "directory "+dir+" does not exist")
	}

	if err := c.extract(ds, dir); err != nil {
		return nil, nil, err
	}
	if err := gunzipMetadata(dir, ds.MetadataFiles); err != nil {
		return nil, nil, err
	}

	meta, err := readMetadata(dir)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("Loaded metadata", "dataset", ds.Name,
		"rows", humanize.Comma(int64(meta.Len())))

	files, err := discoverSamples(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, PreconditionError(ds.Name, "no sample matrices in "+dir)
	}

	parts := make([]*artifact.Artifact, 0, len(files))
	for _, f := range files {
		if err = ctx.Err(); err != nil {
			return nil, nil, err
		}
		a, err := c.readSample(f)
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, a)
	}

	combined, err := artifact.Concat(ds.Name, parts...)
	if err != nil {
		var gnErr *gn.Error
		if errors.As(err, &gnErr) && gnErr.Code == errcode.DuplicateIndexError {
			return nil, nil, artifact.DuplicateCellsError(ds.Name, fmt.Sprint(gnErr.Vars...))
		}
		return nil, nil, err
	}

	o, err := annotate(ds, combined.Obs, meta)
	if err != nil {
		return nil, nil, err
	}
	combined.Obs = o
	if combined.Obs, err = combined.WithQC(); err != nil {
		return nil, nil, err
	}

	out := c.resolveIn(dir, ds.Output)
	if err = c.write(ctx, out, combined); err != nil {
		return nil, nil, err
	}

	cells, genes := combined.Shape()
	slog.Info("Combined dataset written",
		"dataset", ds.Name,
		"cells", humanize.Comma(int64(cells)),
		"genes", humanize.Comma(int64(genes)),
		"path", out,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return meta, combined, nil
}

func (c *Combiner) resolve(path string) string {
	if filepath.IsAbs(path) || c.dataDir == "" {
		return path
	}
	return filepath.Join(c.dataDir, path)
}

func (c *Combiner) resolveIn(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func (c *Combiner) extract(ds datasets.Dataset, dir string) error {
	if ds.Archive == "" {
		return nil
	}
	archive := c.resolveIn(dir, ds.Archive)
	if _, err := os.Stat(archive); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("Archive not found, using extracted files", "archive", archive)
			return nil
		}
		return ArchiveError(archive, err)
	}
	n, err := extractTar(archive, dir)
	if err != nil {
		return ArchiveError(archive, err)
	}
	slog.Info("Extracted archive", "archive", archive, "files", n)
	return nil
}

func gunzipMetadata(dir string, files []string) error {
	for _, f := range files {
		gz := filepath.Join(dir, f)
		plain := strings.TrimSuffix(gz, ".gz")
		if _, err := os.Stat(plain); err == nil {
			continue
		}
		if err := gunzipFile(gz, plain); err != nil {
			os.Remove(plain)
			return ArchiveError(gz, err)
		}
	}
	return nil
}

// readMetadata concatenates all metadata tables of dir, in file name
// order.
func readMetadata(dir string) (*obs.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, SampleReadError(dir, err)
	}
	var tables []*obs.Table
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), MetadataSuffix) {
			continue
		}
		t, err := ioobs.ReadTSV(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return nil, PreconditionError(dir, "no *"+MetadataSuffix+" files found")
	}
	res, err := obs.Concat(tables...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func discoverSamples(dir string) ([]sampleFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, SampleReadError(dir, err)
	}
	var res []sampleFile
	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(dir, name)
		switch {
		case e.IsDir() && strings.HasSuffix(name, MatrixSuffix):
			res = append(res, sampleFile{
				id:     strings.TrimSuffix(name, MatrixSuffix),
				path:   path,
				format: FormatMEX,
			})
		case !e.IsDir() && strings.HasSuffix(name, MatrixSuffix+".h5"):
			res = append(res, sampleFile{
				id:     strings.TrimSuffix(name, MatrixSuffix+".h5"),
				path:   path,
				format: FormatH5,
			})
		}
	}
	slices.SortFunc(res, func(a, b sampleFile) int {
		return strings.Compare(filepath.Base(a.path), filepath.Base(b.path))
	})
	return res, nil
}

// readSample reads one sample and turns it into an artifact with unique
// gene names and cell ids of the form "<barcode>_<sample id>".
func (c *Combiner) readSample(f sampleFile) (*artifact.Artifact, error) {
	read, ok := c.readers[f.format]
	if !ok {
		return nil, UnsupportedFormatError(f.path, f.format)
	}
	slog.Info("Reading sample", "sample", f.id, "path", f.path)
	s, err := read(f.path)
	if err != nil {
		return nil, SampleReadError(f.path, err)
	}
	if s.X == nil || s.X.Rows != len(s.Barcodes) || s.X.Cols != len(s.Genes) {
		return nil, SampleReadError(f.path, errors.New("matrix does not match barcodes and genes"))
	}

	genes := artifact.MakeUnique(s.Genes)
	if ok, dup := artifact.IsUnique(genes); !ok {
		return nil, artifact.DuplicateGenesError(f.id, dup)
	}
	v := obs.New(artifact.FeatureNameColumn, artifact.GeneIDColumn)
	for i, g := range genes {
		id := obs.Missing
		if i < len(s.GeneIDs) {
			id = obs.String(s.GeneIDs[i])
		}
		if err = v.AppendRow(g, obs.String(s.Genes[i]), id); err != nil {
			return nil, err
		}
	}

	o := obs.New(SampleIDColumn)
	sample := obs.String(f.id)
	for _, bc := range s.Barcodes {
		cell := bc + "_" + f.id
		if err = o.AppendRow(cell, sample); err != nil {
			return nil, artifact.DuplicateCellsError(f.id, cell)
		}
	}

	res := &artifact.Artifact{ID: f.id, Obs: o, Var: v, X: s.X}
	if err = res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// annotate adds patient, age, metadata key and label columns. Every
// cell has to resolve to a metadata row.
func annotate(ds datasets.Dataset, o, meta *obs.Table) (*obs.Table, error) {
	if !meta.HasColumn(ds.LabelColumn) {
		return nil, obs.MissingColumnError(ds.LabelColumn)
	}
	ids := o.Index()
	patients := make([]obs.Value, len(ids))
	ages := make([]obs.Value, len(ids))
	keys := make([]obs.Value, len(ids))
	labels := make([]obs.Value, len(ids))

	var unmatched, absent []string
	for i, id := range ids {
		patient := strings.ToLower(id[strings.LastIndex(id, "_")+1:])
		patients[i] = obs.String(patient)
		if age, ok := ds.Age(patient); ok {
			ages[i] = obs.Int(age)
		}

		m := MetadataKeyPattern.FindStringSubmatch(id)
		if m == nil {
			unmatched = append(unmatched, id)
			continue
		}
		key := m[1] + "_" + m[2]
		keys[i] = obs.String(key)
		row, ok := meta.Row(key)
		if !ok {
			absent = append(absent, key)
			continue
		}
		labels[i] = meta.Value(row, ds.LabelColumn)
	}
	if len(unmatched) > 0 {
		return nil, AlignmentError(ds.Name, "cell ids do not match the metadata key pattern", unmatched)
	}
	if len(absent) > 0 {
		return nil, AlignmentError(ds.Name, "metadata keys not found", absent)
	}

	res := o
	var err error
	for _, c := range []struct {
		name string
		vals []obs.Value
	}{
		{PatientIDColumn, patients},
		{PatientAgeColumn, ages},
		{MetadataKeyColumn, keys},
		{ds.LabelColumn, labels},
	} {
		if res, err = res.WithColumn(c.name, c.vals); err != nil {
			return nil, err
		}
	}
	return res, nil
}
