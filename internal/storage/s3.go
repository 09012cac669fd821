package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // optional, for S3 compatible services
	AccessKey string
	SecretKey string
}

// S3API is the part of *s3.Client the provider uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Provider stores the same layout as the file provider as objects under
// opts.Prefix in opts.Bucket.
func NewS3Provider(ctx context.Context, opts S3Options) (Provider, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 storage needs a bucket")
	}
	client, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewS3ProviderWithClient(client, opts.Bucket, opts.Prefix), nil
}

func NewS3ProviderWithClient(client S3API, bucket, prefix string) Provider {
	return &blobProvider{store: &s3Store{client: client, bucket: bucket, prefix: prefix}}
}

func newS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var load_opts []func(*config.LoadOptions) error
	if opts.Region != "" {
		load_opts = append(load_opts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		load_opts = append(load_opts, config.WithCredentialsProvider(creds))
	}

	aws_cfg, err := config.LoadDefaultConfig(ctx, load_opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client_opts := []func(*s3.Options){}
	if opts.Endpoint != "" {
		client_opts = append(client_opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(aws_cfg, client_opts...), nil
}

func (s *s3Store) String() string { return "s3://" + path.Join(s.bucket, s.prefix) }

func (s *s3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func (s *s3Store) get(ctx context.Context, key string) ([]byte, bool, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var no_such_key *s3types.NoSuchKey
		if errors.As(err, &no_such_key) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *s3Store) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}
