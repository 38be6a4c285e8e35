package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// S3Config holds the settings for an S3 store.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string

	// Endpoint overrides the S3 endpoint for S3-compatible services.
	// Path-style addressing is used when it is set.
	Endpoint string
}

// PutObjectAPI is the subset of the S3 client used by S3Store.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes artifacts to S3.
type S3Store struct {
	client PutObjectAPI
}

// NewS3Store builds an S3 client from a static key pair.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("S3 store requires an access key id and secret access key")
	}
	region := cfg.Region
	if region == "" {
		region = fxload.DefaultAWSRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
	})
	return &S3Store{client: client}, nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client PutObjectAPI) *S3Store {
	if client == nil {
		panic("client cannot be nil")
	}
	return &S3Store{client: client}
}

// Put uploads body, replacing any object at the same key.
func (s *S3Store) Put(ctx context.Context, locator string, body []byte) error {
	loc, err := ParseLocator(locator)
	if err != nil {
		return err
	}
	if loc.Scheme != SchemeS3 {
		return fmt.Errorf("S3 store cannot write %s locators", loc.Scheme)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(loc.Bucket),
		Key:           aws.String(loc.Key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", loc.Bucket, loc.Key, err)
	}
	return nil
}
