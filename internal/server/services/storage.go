package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/mbelozerov/eventkeeper/internal/server/config"
)

// Seams for testing the AWS SDK calls.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	s3PutObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}

	s3DeleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// ObjectStorage wraps the S3 bucket that holds event images. It works
// against AWS or a MinIO endpoint, selected by S3BaseEndpoint.
type ObjectStorage struct {
	config *sc.Config
}

func NewObjectStorage(cfg *sc.Config) *ObjectStorage {
	return &ObjectStorage{config: cfg}
}

// RandomStorageKey spreads objects by event and date so bucket listings
// stay navigable.
func RandomStorageKey(eventID string) string {
	d := time.Now()
	return fmt.Sprintf("events/%s/%d-%02d-%02d/%v", eventID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (o *ObjectStorage) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(o.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.config.S3RootUser,     // MINIO_ROOT_USER
			o.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(opts *s3.Options) {
		if o.config.S3BaseEndpoint != "" {
			opts.BaseEndpoint = aws.String(o.config.S3BaseEndpoint)
			opts.UsePathStyle = true
		}
	})
	return client, nil
}

// Upload stores the object and returns its public URL.
func (o *ObjectStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	client, err := o.getClient(ctx)
	if err != nil {
		return "", err
	}

	_, err = s3PutObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &o.config.S3Bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}
	return o.PublicURL(key), nil
}

func (o *ObjectStorage) Delete(ctx context.Context, key string) error {
	client, err := o.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = s3DeleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &o.config.S3Bucket,
		Key:    &key,
	})
	return err
}

// PresignPutURL hands the browser a direct upload URL, valid 15 minutes.
func (o *ObjectStorage) PresignPutURL(ctx context.Context, eventID string) (string, string, error) {
	client, err := o.getClient(ctx)
	if err != nil {
		return "", "", err
	}

	key := RandomStorageKey(eventID)
	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket: &o.config.S3Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}
	return key, req.URL, nil
}

func (o *ObjectStorage) PublicURL(key string) string {
	endpoint := strings.TrimSuffix(o.config.S3BaseEndpoint, "/")
	return fmt.Sprintf("%s/%s/%s", endpoint, o.config.S3Bucket, key)
}
