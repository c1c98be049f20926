package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3manager "github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/fathoor/custodia/internal/config"
	"github.com/fathoor/custodia/internal/domain"
)

// maxDeleteBatch is S3's per-request object limit for DeleteObjects.
const maxDeleteBatch = 1000

// s3API is the slice of the S3 client this adapter uses; tests substitute
// a fake implementation.
type s3API interface {
	s3.ListObjectsV2APIClient
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type S3Storage struct {
	api      s3API
	uploader *s3manager.Uploader
	bucket   string
}

// NewS3 builds an S3-backed ObjectStorage. A non-empty endpoint switches the
// client to path-style addressing for S3-compatible stores.
func NewS3(cfg *appconfig.S3Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		api:      client,
		uploader: s3manager.NewUploader(client),
		bucket:   cfg.Bucket,
	}, nil
}

// Upload reads the archive fully into memory and stores it under key
// verbatim, no prefixing.
func (s *S3Storage) Upload(ctx context.Context, localPath string, key string) error {
	payload, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("%w: read archive: %v", domain.ErrUpload, err)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", domain.ErrUpload, key, err)
	}

	return nil
}

// List drains every page of the bucket listing before returning.
func (s *S3Storage) List(ctx context.Context) ([]domain.StoredObject, error) {
	var objects []domain.StoredObject

	paginator := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrList, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, domain.StoredObject{
				Key:          aws.ToString(obj.Key),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	return objects, nil
}

// DeleteBatch removes keys in chunks respecting the per-request limit.
func (s *S3Storage) DeleteBatch(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(keys))

		identifiers := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			identifiers = append(identifiers, types.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := s.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: identifiers, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrDelete, err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("%w: %d object(s), first: %s (%s)",
				domain.ErrDelete, len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
		}
	}

	return nil
}
