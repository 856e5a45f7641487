package iofetch_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnuuid"
	"github.com/seafront/seafront/internal/ioartifact"
	"github.com/seafront/seafront/internal/iochecksum"
	"github.com/seafront/seafront/internal/iofetch"
	"github.com/seafront/seafront/pkg/artifact"
	"github.com/seafront/seafront/pkg/errcode"
	"github.com/seafront/seafront/pkg/obs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fileName = "adata_homo_sapiens_d1.h5ad"

type fakeClient struct {
	body  []byte
	err   error
	calls int
}

func (c *fakeClient) DownloadArtifact(
	_ context.Context, _, _ string, w io.Writer,
) (int64, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	n, err := w.Write(c.body)
	return int64(n), err
}

func (c *fakeClient) DownloadObs(context.Context, string, io.Writer) (int64, error) {
	return 0, errors.New("not implemented")
}

func (c *fakeClient) GeneNames(context.Context, string, string) ([]string, error) {
	return nil, errors.New("not implemented")
}

// fakeLoader returns an empty artifact, recording loaded paths.
type fakeLoader struct {
	paths []string
}

func (l *fakeLoader) load(_ context.Context, path string) (*artifact.Artifact, error) {
	l.paths = append(l.paths, path)
	return &artifact.Artifact{
		Obs: obs.New(),
		Var: obs.New(),
		X:   artifact.NewMatrix(0),
	}, nil
}

func sum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

func setup(body string) (*fakeClient, *fakeLoader, *iofetch.Fetcher) {
	cl := &fakeClient{body: []byte(body)}
	ld := &fakeLoader{}
	return cl, ld, iofetch.New(cl, iofetch.OptLoader(ld.load))
}

func TestFetchDownloadsOnce(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	cl, ld, f := setup("content")

	a, err := f.Fetch(ctx, "Homo sapiens", "d1", dir, sum([]byte("content")))
	require.NoError(t, err)
	assert.Equal(t, 1, cl.calls)
	assert.Equal(t, gnuuid.New("Homo sapiens|d1").String(), a.ID)

	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	sums, err := iochecksum.Lookup(dir)
	require.NoError(t, err)
	assert.Equal(t, sum([]byte("content")), sums[fileName])

	_, err = f.Fetch(ctx, "Homo sapiens", "d1", dir, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cl.calls, "second fetch uses the cache")
	assert.Equal(t, []string{path, path}, ld.paths)
}

func TestFetchCachedWithoutChecksum(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("old"), 0644))
	cl, _, f := setup("new")

	_, err := f.Fetch(context.Background(), "Homo sapiens", "d1", dir, "")
	require.NoError(t, err)
	assert.Equal(t, 0, cl.calls)
}

func TestFetchStaleCache(t *testing.T) {
	tests := []struct {
		msg    string
		ledger string
	}{
		{"no ledger record", ""},
		{"ledger agrees with cached file", sum([]byte("old"))},
		{"ledger agrees with expected", sum([]byte("good"))},
	}
	for _, v := range tests {
		dir := t.TempDir()
		path := filepath.Join(dir, fileName)
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644), v.msg)
		if v.ledger != "" {
			require.NoError(t, iochecksum.Update(dir, fileName, v.ledger), v.msg)
		}
		cl, ld, f := setup("good")

		_, err := f.Fetch(context.Background(), "Homo sapiens", "d1", dir, sum([]byte("good")))
		require.NoError(t, err, v.msg)
		assert.Equal(t, 1, cl.calls, v.msg)
		assert.Equal(t, []string{path}, ld.paths, v.msg)

		data, err := os.ReadFile(path)
		require.NoError(t, err, v.msg)
		assert.Equal(t, "good", string(data), v.msg)

		sums, err := iochecksum.Lookup(dir)
		require.NoError(t, err, v.msg)
		assert.Equal(t, sum([]byte("good")), sums[fileName], v.msg)
	}
}

func TestFetchCachedMatchesExpected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("good"), 0644))
	cl, _, f := setup("other")

	_, err := f.Fetch(context.Background(), "Homo sapiens", "d1", dir, sum([]byte("good")))
	require.NoError(t, err)
	assert.Equal(t, 0, cl.calls)
}

func TestFetchCachedIgnoresLedgerWithoutChecksum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, fileName)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))
	require.NoError(t, iochecksum.Update(dir, fileName, sum([]byte("good"))))
	cl, _, f := setup("good")

	_, err := f.Fetch(context.Background(), "Homo sapiens", "d1", dir, "")
	require.NoError(t, err)
	assert.Equal(t, 0, cl.calls)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestFetchIntegrityError(t *testing.T) {
	dir := t.TempDir()
	cl, ld, f := setup("tampered")

	_, err := f.Fetch(context.Background(), "Homo sapiens", "d1", dir, sum([]byte("original")))
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.IntegrityError, gnErr.Code)
	assert.Equal(t, 1, cl.calls)
	assert.Empty(t, ld.paths)

	// the download and its ledger record stay in place
	_, err = os.Stat(filepath.Join(dir, fileName))
	require.NoError(t, err)
	sums, err := iochecksum.Lookup(dir)
	require.NoError(t, err)
	assert.Equal(t, sum([]byte("tampered")), sums[fileName])
}

func TestFetchNetworkError(t *testing.T) {
	dir := t.TempDir()
	netErr := errors.New("connection reset")
	cl := &fakeClient{err: netErr}
	f := iofetch.New(cl)

	_, err := f.Fetch(context.Background(), "Homo sapiens", "d1", dir, "")
	require.Error(t, err)
	assert.Same(t, netErr, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial file is left")
}

func TestFetchPreconditions(t *testing.T) {
	tests := []struct {
		msg, organism, id string
	}{
		{"empty id", "Homo sapiens", " "},
		{"bad organism", "Homo", "d1"},
		{"empty organism", "", "d1"},
	}
	for _, v := range tests {
		dir := filepath.Join(t.TempDir(), "cache")
		cl, _, f := setup("x")
		_, err := f.Fetch(context.Background(), v.organism, v.id, dir, "")
		require.Error(t, err, v.msg)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, errcode.PreconditionError, gnErr.Code, v.msg)
		assert.Equal(t, 0, cl.calls, v.msg)
		_, err = os.Stat(dir)
		assert.True(t, os.IsNotExist(err), v.msg)
	}
}

func TestFetchReadsArtifact(t *testing.T) {
	ctx := context.Background()
	src := filepath.Join(t.TempDir(), "src.h5ad")
	o := obs.New("cell_type")
	require.NoError(t, o.AppendRow("c1", obs.String("B")))
	v := obs.New(artifact.FeatureNameColumn)
	require.NoError(t, v.AppendRow("G1", obs.String("G1")))
	x := artifact.NewMatrix(1)
	require.NoError(t, x.AppendRow([]int{0}, []float64{4}))
	require.NoError(t, ioartifact.Write(ctx, src,
		&artifact.Artifact{ID: "census-d1", Obs: o, Var: v, X: x}))
	body, err := os.ReadFile(src)
	require.NoError(t, err)

	cl := &fakeClient{body: body}
	f := iofetch.New(cl)
	a, err := f.Fetch(ctx, "Homo sapiens", "d1", t.TempDir(), sum(body))
	require.NoError(t, err)
	assert.Equal(t, "census-d1", a.ID)
	assert.Equal(t, 4.0, a.X.At(0, 0))
}
