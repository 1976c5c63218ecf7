package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const filenameMetadataKey = "filename"

// S3Service stores audio payloads in Amazon S3 (or compatible APIs). Each blob
// lives under a single key derived from its id; the original filename is kept
// in object metadata.
type S3Service struct {
	client    *s3.Client
	uploader  *manager.Uploader
	bucket    string
	keyPrefix string
}

func NewS3Service(client *s3.Client, bucket, keyPrefix string) *S3Service {
	return &S3Service{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

func (s *S3Service) key(id string) string {
	if s.keyPrefix == "" {
		return id
	}
	return s.keyPrefix + "/" + id
}

func (s *S3Service) Put(ctx context.Context, id string, r io.Reader, filename string) error {
	if s.bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("blob id is required")
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
		Body:   r,
		ACL:    types.ObjectCannedACLPrivate,
		Metadata: map[string]string{
			filenameMetadataKey: filename,
		},
	})
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", id, err)
	}
	return nil
}

func (s *S3Service) Get(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if s.bucket == "" {
		return nil, "", fmt.Errorf("storage bucket is required")
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("get blob %s: %w", id, err)
	}

	return output.Body, output.Metadata[filenameMetadataKey], nil
}

func (s *S3Service) Delete(ctx context.Context, id string) error {
	if s.bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}

	// S3 delete is idempotent; a missing key succeeds, which matches the
	// documented no-op choice for absent blobs.
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

func (s *S3Service) List(ctx context.Context) ([]BlobInfo, error) {
	if s.bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	var blobs []BlobInfo
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if s.keyPrefix != "" {
		input.Prefix = aws.String(s.keyPrefix + "/")
	}

	for {
		output, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list blobs: %w", err)
		}

		for _, obj := range output.Contents {
			key := aws.ToString(obj.Key)
			id := key
			if s.keyPrefix != "" {
				id = strings.TrimPrefix(key, s.keyPrefix+"/")
			}
			blobs = append(blobs, BlobInfo{
				ID:           id,
				Size:         aws.ToInt64(obj.Size),
				LastModified: obj.LastModified,
			})
		}

		if !aws.ToBool(output.IsTruncated) || output.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = output.NextContinuationToken
	}

	return blobs, nil
}

func isNoSuchKey(err error) bool {
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &noSuchKey)
}

var _ Service = (*S3Service)(nil)
