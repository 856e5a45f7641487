// Package iofetch downloads census datasets into a local cache
// directory and records checksums of downloads in a ledger next to the
// cached files.
package iofetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/google/renameio"
	"github.com/seafront/seafront/internal/ioartifact"
	"github.com/seafront/seafront/internal/iochecksum"
	"github.com/seafront/seafront/pkg/artifact"
	"github.com/seafront/seafront/pkg/census"
)

// Loader reads a cached artifact file.
type Loader func(ctx context.Context, path string) (*artifact.Artifact, error)

// Fetcher retrieves census datasets through a cache directory.
type Fetcher struct {
	client   census.Client
	load     Loader
	progress bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// OptProgress shows a progress bar during downloads.
func OptProgress(b bool) Option {
	return func(f *Fetcher) {
		f.progress = b
	}
}

// OptLoader replaces the artifact file reader.
func OptLoader(l Loader) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.load = l
		}
	}
}

// New creates a Fetcher using the given census client.
func New(client census.Client, opts ...Option) *Fetcher {
	res := &Fetcher{
		client: client,
		load:   ioartifact.Read,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Fetch returns the artifact of a census dataset, downloading it into
// cacheDir unless a valid copy is already there.
//
// A cached file is trusted when expected is empty. Otherwise it is
// verified against expected, on mismatch it is deleted and downloaded
// again. A fresh download is recorded in the ledger before it is
// compared with expected, so an integrity error leaves both the file
// and its record in place. Errors of the census client are returned as
// they are.
func (f *Fetcher) Fetch(
	ctx context.Context,
	organism, datasetID, cacheDir, expected string,
) (*artifact.Artifact, error) {
	datasetID = strings.TrimSpace(datasetID)
	if datasetID == "" {
		return nil, PreconditionError("dataset id is empty")
	}
	canonical, err := census.Organism(organism)
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, CreateDirError(cacheDir, err)
	}

	fileName := census.CacheFileName(canonical, datasetID)
	path := filepath.Join(cacheDir, fileName)

	cached, err := f.checkCached(cacheDir, fileName, expected)
	if err != nil {
		return nil, err
	}

	if !cached {
		if err = f.download(ctx, canonical, datasetID, cacheDir, fileName, expected); err != nil {
			return nil, err
		}
	}

	res, err := f.load(ctx, path)
	if err != nil {
		return nil, err
	}
	if res.ID == "" {
		res.ID = gnuuid.New(canonical + "|" + datasetID).String()
	}
	return res, nil
}

// checkCached reports whether a usable copy of fileName is in dir.
// Without an expected checksum any copy is used. A copy that does not
// match expected is removed.
func (f *Fetcher) checkCached(dir, fileName, expected string) (bool, error) {
	path := filepath.Join(dir, fileName)
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, ReadFileError(path, err)
	}

	if expected == "" {
		slog.Debug("Using cached file without checksum", "file", path)
		return true, nil
	}

	valid, err := iochecksum.Verify(path, expected)
	if err != nil {
		return false, err
	}
	if valid {
		slog.Debug("Using verified cached file", "file", path)
		return true, nil
	}

	slog.Info("Cached file does not match its checksum, fetching again",
		"file", path)
	if err = os.Remove(path); err != nil {
		return false, RemoveFileError(path, err)
	}
	return false, nil
}

func (f *Fetcher) download(
	ctx context.Context,
	organism, datasetID, dir, fileName, expected string,
) error {
	path := filepath.Join(dir, fileName)
	start := time.Now()
	slog.Info("Downloading dataset", "organism", organism, "dataset", datasetID)

	pf, err := renameio.TempFile(dir, path)
	if err != nil {
		return WriteFileError(path, err)
	}
	defer pf.Cleanup()

	var w io.Writer = pf
	if f.progress {
		bar := newProgressBar(datasetID + " ")
		defer bar.Finish()
		w = bar.NewProxyWriter(pf)
	}

	n, err := f.client.DownloadArtifact(ctx, organism, datasetID, w)
	if err != nil {
		return err
	}
	if err = pf.Chmod(0644); err != nil {
		return WriteFileError(path, err)
	}
	if err = pf.CloseAtomicallyReplace(); err != nil {
		return WriteFileError(path, err)
	}

	hash, err := iochecksum.FileChecksum(path)
	if err != nil {
		return err
	}
	if err = iochecksum.Update(dir, fileName, hash); err != nil {
		return err
	}

	slog.Info("Dataset downloaded",
		"dataset", datasetID,
		"size", humanize.Bytes(uint64(n)),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)

	if expected != "" && !strings.EqualFold(hash, strings.TrimSpace(expected)) {
		return IntegrityError(path, expected, hash)
	}
	return nil
}
