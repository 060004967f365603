package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of *s3.Client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads snapshots to an S3 bucket.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Sink creates a sink writing objects to bucket under prefix.
func NewS3Sink(client PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// Put implements Sink.
func (s *S3Sink) Put(ctx context.Context, obj Object) error {
	key := s.prefix + obj.Key
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(obj.Body),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata:    obj.Metadata,
	})
	if err != nil {
		return fmt.Errorf("snapshot: put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// ClientOptions configures NewS3Client.
type ClientOptions struct {
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for MinIO. Path-style
	// addressing is used when it is set.
	Endpoint string
}

// NewS3Client creates an S3 client. Credentials come from the
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables; without them requests are sent unsigned.
func NewS3Client(opts ClientOptions) *s3.Client {
	o := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.Endpoint != "",
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	if id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"); id != "" && secret != "" {
		o.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     id,
				SecretAccessKey: secret,
				SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				Source:          "environment",
			}, nil
		}))
	} else {
		o.Credentials = aws.AnonymousCredentials{}
	}
	return s3.New(o)
}
