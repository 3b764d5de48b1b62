package pictures

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/server/models"
)

// Seams for testing the S3 path without a real backend.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	s3PutObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	s3GetObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
	s3HeadObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in)
	}
	s3DeleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3Config carries the settings for an S3-compatible asset backend (MinIO in
// development).
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store is an alternate Repository keeping profile assets as objects keyed
// by user id. Mutations through this backend bypass the relational audit
// triggers; deployments that need audited asset writes stay on the Postgres
// backend.
type S3Store struct {
	cfg S3Config
}

func NewS3Store(cfg S3Config) *S3Store {
	return &S3Store{cfg: cfg}
}

func (s *S3Store) objectKey(userID int64) string {
	return fmt.Sprintf("profile-pictures/%d", userID)
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.RootUser, s.cfg.RootPassword, "")))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Put replaces the user's object; S3 object replacement is atomic at the key
// level, so readers never observe partial content.
func (s *S3Store) Put(ctx context.Context, picture *models.ProfilePicture) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = s3PutObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(s.objectKey(picture.UserID)),
		Body:        bytes.NewReader(picture.Data),
		ContentType: aws.String(picture.ContentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put: %w", err)
	}
	return nil
}

// Get fetches the user's object; a missing key or empty body is
// common.ErrNotFound, matching the relational backend.
func (s *S3Store) Get(ctx context.Context, userID int64) (*models.ProfilePicture, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s3GetObject(client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(userID)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read: %w", err)
	}
	if len(data) == 0 {
		return nil, common.ErrNotFound
	}

	picture := &models.ProfilePicture{
		UserID: userID,
		Data:   data,
	}
	if out.ContentType != nil {
		picture.ContentType = *out.ContentType
	}
	if out.LastModified != nil {
		picture.UpdatedAt = *out.LastModified
	} else {
		picture.UpdatedAt = time.Now()
	}
	return picture, nil
}

// Exists reports whether the user has an object, via a HEAD request.
func (s *S3Store) Exists(ctx context.Context, userID int64) (bool, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return false, err
	}

	if _, err := s3HeadObject(client, ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(userID)),
	}); err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head: %w", err)
	}
	return true, nil
}

// Delete reports whether an object existed. DeleteObject alone succeeds for
// absent keys, so existence is established first.
func (s *S3Store) Delete(ctx context.Context, userID int64) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	key := aws.String(s.objectKey(userID))
	if _, err := s3HeadObject(client, ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    key,
	}); err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("s3 head: %w", err)
	}

	if _, err := s3DeleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    key,
	}); err != nil {
		return fmt.Errorf("s3 delete: %w", err)
	}
	return nil
}
