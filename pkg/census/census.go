// Package census describes the remote single-cell census service: the
// client contract, the object layout of a census release and the names
// of locally cached files.
package census

import (
	"context"
	"io"
	"path"
	"strings"
)

// DefaultVersion is the census release used when none is configured.
const DefaultVersion = "2025-01-30"

// Client retrieves objects of one census release.
type Client interface {
	// DownloadArtifact streams the matrix artifact of a dataset into w and
	// returns the number of bytes written.
	DownloadArtifact(
		ctx context.Context,
		organism, datasetID string,
		w io.Writer,
	) (int64, error)

	// DownloadObs streams the census-wide observation table of an
	// organism (parquet) into w.
	DownloadObs(ctx context.Context, organism string, w io.Writer) (int64, error)

	// GeneNames returns the gene axis of a dataset in matrix order.
	GeneNames(ctx context.Context, organism, datasetID string) ([]string, error)
}

// Slug turns an organism name into its lower-case, underscore-separated
// form: "Homo sapiens" becomes "homo_sapiens".
func Slug(organism string) string {
	return strings.ToLower(strings.Join(strings.Fields(organism), "_"))
}

// CacheFileName returns the file name a dataset is cached under.
func CacheFileName(organism, datasetID string) string {
	return "adata_" + Slug(organism) + "_" + datasetID + ".h5ad"
}

// Layout resolves object keys of a census release.
type Layout struct {
	// Prefix is prepended to every key, it can be empty.
	Prefix string

	// Version is the census release.
	Version string
}

func (l Layout) root(organism string) string {
	v := l.Version
	if v == "" {
		v = DefaultVersion
	}
	return path.Join(l.Prefix, v, Slug(organism))
}

// ArtifactKey is the key of a dataset's matrix artifact.
func (l Layout) ArtifactKey(organism, datasetID string) string {
	return path.Join(l.root(organism), "datasets", datasetID+".h5ad")
}

// GenesKey is the key of a dataset's gene list, one name per line.
func (l Layout) GenesKey(organism, datasetID string) string {
	return path.Join(l.root(organism), "datasets", datasetID+".var.txt")
}

// ObsKey is the key of the organism's observation table.
func (l Layout) ObsKey(organism string) string {
	return path.Join(l.root(organism), "obs.parquet")
}
