package iocensus_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gnames/gn"
	"github.com/seafront/seafront/internal/iocensus"
	"github.com/seafront/seafront/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var objects = map[string]string{
	"2025-01-30/homo_sapiens/datasets/d1.h5ad":    "artifact-bytes",
	"2025-01-30/homo_sapiens/datasets/d1.var.txt": "G1\nG2\r\n\nG3\n",
	"2025-01-30/homo_sapiens/obs.parquet":         "parquet-bytes",
}

func censusServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			body, ok := objects[strings.TrimPrefix(r.URL.Path, "/")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_, _ = io.WriteString(w, body)
		},
	))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient(t *testing.T) {
	ctx := context.Background()
	srv := censusServer(t)
	cl := iocensus.NewHTTP(srv.URL+"/", "2025-01-30")

	var buf bytes.Buffer
	n, err := cl.DownloadArtifact(ctx, "Homo sapiens", "d1", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len("artifact-bytes")), n)
	assert.Equal(t, "artifact-bytes", buf.String())

	buf.Reset()
	_, err = cl.DownloadObs(ctx, "Homo sapiens", &buf)
	require.NoError(t, err)
	assert.Equal(t, "parquet-bytes", buf.String())

	genes, err := cl.GeneNames(ctx, "Homo sapiens", "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"G1", "G2", "G3"}, genes)
}

func TestHTTPClientNotFound(t *testing.T) {
	srv := censusServer(t)
	cl := iocensus.NewHTTP(srv.URL, "2025-01-30")

	var buf bytes.Buffer
	_, err := cl.DownloadArtifact(context.Background(), "Homo sapiens", "nope", &buf)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.RemoteError, gnErr.Code)
	assert.Zero(t, buf.Len())
}

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func TestHTTPClientNetworkError(t *testing.T) {
	netErr := errors.New("connection refused")
	cl := iocensus.NewHTTP("http://census.invalid", "v1",
		iocensus.WithHTTPClient(&http.Client{Transport: failingTransport{netErr}}))
	_, err := cl.GeneNames(context.Background(), "Homo sapiens", "d1")
	require.Error(t, err)
	assert.ErrorIs(t, err, netErr)
}

func TestHTTPClientCanceled(t *testing.T) {
	srv := censusServer(t)
	cl := iocensus.NewHTTP(srv.URL, "2025-01-30")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cl.DownloadObs(ctx, "Homo sapiens", io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

// mockS3 serves GET requests for path-style object URLs.
type mockS3 struct {
	bucket string
	paths  []string
}

func (m *mockS3) RoundTrip(req *http.Request) (*http.Response, error) {
	m.paths = append(m.paths, req.URL.Path)
	key, ok := strings.CutPrefix(req.URL.Path, "/"+m.bucket+"/")
	body, found := objects[key]
	if req.Method != http.MethodGet || !ok || !found {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header: http.Header{
			"Content-Length": {strconv.Itoa(len(body))},
			"Content-Type":   {"application/octet-stream"},
		},
		ContentLength: int64(len(body)),
	}, nil
}

func TestS3Client(t *testing.T) {
	ctx := context.Background()
	rt := &mockS3{bucket: "census"}
	cl, err := iocensus.NewS3(ctx,
		iocensus.S3Config{
			Bucket:          "census",
			Region:          "us-west-2",
			PathStyle:       true,
			Version:         "2025-01-30",
			AccessKeyID:     "AKIA",
			SecretAccessKey: "SECRET",
		},
		func(o *s3.Options) {
			o.HTTPClient = &http.Client{Transport: rt}
			o.BaseEndpoint = aws.String("https://mock.s3.local")
		},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = cl.DownloadArtifact(ctx, "Homo sapiens", "d1", &buf)
	require.NoError(t, err)
	assert.Equal(t, "artifact-bytes", buf.String())
	assert.Equal(t, "/census/2025-01-30/homo_sapiens/datasets/d1.h5ad", rt.paths[0])

	genes, err := cl.GeneNames(ctx, "Homo sapiens", "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"G1", "G2", "G3"}, genes)

	_, err = cl.DownloadArtifact(ctx, "Homo sapiens", "missing", io.Discard)
	assert.Error(t, err)
}

func TestS3ClientNeedsBucket(t *testing.T) {
	_, err := iocensus.NewS3(context.Background(), iocensus.S3Config{})
	assert.Error(t, err)
}
