// Package iogenes verifies that census datasets share one gene axis and
// records it as the canonical gene list.
package iogenes

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/renameio"
	"github.com/seafront/seafront/pkg/census"
	"github.com/seafront/seafront/pkg/obs"
	"github.com/seafront/seafront/pkg/standardize"
)

// DefaultSampleSize is the number of datasets compared.
const DefaultSampleSize = 3

// Report describes the outcome of a consistency check.
type Report struct {
	// OK is true when all sampled datasets have identical gene lists.
	OK bool

	// Sampled are the compared dataset ids, the first is the reference.
	Sampled []string

	// Diverged lists sampled datasets whose genes differ from the
	// reference.
	Diverged []string

	// Genes is the number of genes of the reference.
	Genes int

	// Path is where the gene list was written, empty when OK is false.
	Path string
}

// Checker compares gene lists of randomly sampled datasets.
type Checker struct {
	client     census.Client
	organism   string
	path       string
	sampleSize int
	rng        *rand.Rand
}

// Option configures a Checker.
type Option func(*Checker)

// OptSampleSize sets the number of datasets compared. CheckAndCommit
// rejects values below 2.
func OptSampleSize(n int) Option {
	return func(c *Checker) {
		c.sampleSize = n
	}
}

// OptRand sets the random source used for sampling.
func OptRand(r *rand.Rand) Option {
	return func(c *Checker) {
		if r != nil {
			c.rng = r
		}
	}
}

// New creates a Checker writing the canonical gene list to path.
func New(client census.Client, organism, path string, opts ...Option) *Checker {
	res := &Checker{
		client:     client,
		organism:   organism,
		path:       path,
		sampleSize: DefaultSampleSize,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// DatasetIDs returns distinct non-empty dataset ids of an observation
// table in order of first appearance.
func DatasetIDs(t *obs.Table) []string {
	return slices.DeleteFunc(t.Distinct(standardize.DatasetIDColumn), func(s string) bool {
		return strings.TrimSpace(s) == ""
	})
}

// CheckAndCommit samples datasets from ids without replacement and
// compares their gene lists with the first sampled one. When all match
// the list is written to the checker path, otherwise nothing is written.
func (c *Checker) CheckAndCommit(ctx context.Context, ids []string) (*Report, error) {
	if c.sampleSize < 2 {
		return nil, SampleSizeError(c.sampleSize)
	}
	distinct := distinctIDs(ids)
	if len(distinct) < c.sampleSize {
		return nil, NotEnoughDatasetsError(len(distinct), c.sampleSize)
	}

	perm := c.rng.Perm(len(distinct))
	res := &Report{Sampled: make([]string, c.sampleSize)}
	for i := range c.sampleSize {
		res.Sampled[i] = distinct[perm[i]]
	}
	slog.Info("Checking gene consistency", "datasets", res.Sampled)

	ref, err := c.client.GeneNames(ctx, c.organism, res.Sampled[0])
	if err != nil {
		return nil, err
	}
	res.Genes = len(ref)

	for _, id := range res.Sampled[1:] {
		genes, err := c.client.GeneNames(ctx, c.organism, id)
		if err != nil {
			return nil, err
		}
		if slices.Equal(ref, genes) {
			slog.Info("Dataset matches reference", "dataset", id)
			continue
		}
		slog.Warn("Dataset has different gene names than reference",
			"dataset", id, "reference", res.Sampled[0])
		res.Diverged = append(res.Diverged, id)
	}

	if len(res.Diverged) > 0 {
		return res, nil
	}

	if err = writeGenes(c.path, ref); err != nil {
		return nil, err
	}
	res.OK = true
	res.Path = c.path
	return res, nil
}

// ReadGenes loads a canonical gene list. The second result is false
// when the file does not exist, meaning genes were not verified yet. An
// existing empty file is a verified empty list.
func ReadGenes(path string) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, ReadFileError(path, err)
	}
	res := []string{}
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			res = append(res, l)
		}
	}
	return res, true, nil
}

func distinctIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var res []string
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

func writeGenes(path string, genes []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return WriteFileError(path, err)
	}
	var buf bytes.Buffer
	for _, g := range genes {
		buf.WriteString(g)
		buf.WriteByte('\n')
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return WriteFileError(path, err)
	}
	return nil
}
