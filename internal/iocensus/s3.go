package iocensus

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/seafront/seafront/pkg/census"
)

// S3Config describes an S3-compatible census mirror.
type S3Config struct {
	Bucket string
	Region string

	// Endpoint is optional, it enables a custom endpoint such as MinIO.
	Endpoint  string
	PathStyle bool

	// Prefix is prepended to object keys.
	Prefix  string
	Version string

	// Static credentials, the default AWS chain is used when empty.
	AccessKeyID     string
	SecretAccessKey string
}

type s3Getter struct {
	client *s3.Client
	bucket string
}

// NewS3 creates a census client reading objects from an S3 bucket.
// Extra options are applied to the S3 client last.
func NewS3(
	ctx context.Context,
	cfg S3Config,
	optFns ...func(*s3.Options),
) (census.Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID, cfg.SecretAccessKey, "",
			),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	fns := []func(*s3.Options){
		func(o *s3.Options) {
			o.UsePathStyle = cfg.PathStyle
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
		},
	}
	fns = append(fns, optFns...)
	cl := s3.NewFromConfig(awsCfg, fns...)

	return &client{
		layout: census.Layout{Prefix: cfg.Prefix, Version: cfg.Version},
		g:      &s3Getter{client: cl, bucket: cfg.Bucket},
	}, nil
}

func (g *s3Getter) get(ctx context.Context, key string, w io.Writer) (int64, error) {
	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return 0, RemoteError("s3://"+g.bucket+"/"+key, "no such key")
		}
		return 0, err
	}
	defer out.Body.Close()
	return io.Copy(w, out.Body)
}
