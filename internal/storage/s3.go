package storage

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/USA-RedDragon/obs-remote/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3 struct {
	bucket   string
	s3Client *s3.Client
}

// newS3Client picks up credentials from the default AWS chain.
func newS3Client(ctx context.Context, opts config.S3Options) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

func NewS3(bucket string, s3Client *s3.Client) *S3 {
	return &S3{
		bucket:   bucket,
		s3Client: s3Client,
	}
}

func (s *S3) Close() error {
	return nil
}

// Put uploads body. It needs a seekable body to know the length, so
// other readers are buffered in full first.
func (s *S3) Put(ctx context.Context, key string, body io.Reader, contentType string) (int64, error) {
	seeker, ok := body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return 0, err
		}
		seeker = bytes.NewReader(data)
	}
	size, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          seeker,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.s3Client.PutObject(ctx, input); err != nil {
		return 0, err
	}
	return size, nil
}

func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	res, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res.Body, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
