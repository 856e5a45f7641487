// Package iocensus implements census.Client over HTTP and S3 mirrors of
// a census release.
package iocensus

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/seafront/seafront/pkg/census"
	"github.com/seafront/seafront/pkg/config"
)

// getter streams one object of the census release into w.
type getter interface {
	get(ctx context.Context, key string, w io.Writer) (int64, error)
}

type client struct {
	layout census.Layout
	g      getter
}

func (c *client) DownloadArtifact(
	ctx context.Context,
	organism, datasetID string,
	w io.Writer,
) (int64, error) {
	return c.g.get(ctx, c.layout.ArtifactKey(organism, datasetID), w)
}

func (c *client) DownloadObs(
	ctx context.Context,
	organism string,
	w io.Writer,
) (int64, error) {
	return c.g.get(ctx, c.layout.ObsKey(organism), w)
}

func (c *client) GeneNames(
	ctx context.Context,
	organism, datasetID string,
) ([]string, error) {
	var sb strings.Builder
	if _, err := c.g.get(ctx, c.layout.GenesKey(organism, datasetID), &sb); err != nil {
		return nil, err
	}
	var res []string
	sc := bufio.NewScanner(strings.NewReader(sb.String()))
	for sc.Scan() {
		name := strings.TrimRight(sc.Text(), "\r")
		if name == "" {
			continue
		}
		res = append(res, name)
	}
	return res, sc.Err()
}

// New creates a census client for the configured backend.
func New(ctx context.Context, cfg *config.Config) (census.Client, error) {
	c := cfg.Census
	switch c.Backend {
	case "s3":
		return NewS3(ctx, S3Config{
			Bucket:    c.Bucket,
			Region:    c.Region,
			Endpoint:  c.Endpoint,
			PathStyle: c.PathStyle,
			Version:   c.Version,
		})
	default:
		return NewHTTP(c.BaseURL, c.Version), nil
	}
}
