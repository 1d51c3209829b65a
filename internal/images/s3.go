package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

const keyPrefix = "stories/"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL is the prefix objects are served from. When empty it is
	// derived from the endpoint or the regional AWS host.
	PublicURL string
}

type S3Store struct {
	client    objectAPI
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL(cfg),
		now:       time.Now,
	}, nil
}

func publicURL(cfg S3Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/") + "/"
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/"
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.Bucket, cfg.Region)
	}
}

func (s *S3Store) Put(ctx context.Context, owner uuid.UUID, filename, contentType string, r io.Reader) (string, error) {
	if err := ValidateContentType(contentType); err != nil {
		return "", err
	}

	key := keyPrefix + objectName(owner, filename, s.now())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + key, nil
}

func (s *S3Store) Delete(ctx context.Context, rawURL string) error {
	key, err := s.keyFor(rawURL)
	if err != nil {
		return err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		var nsk *types.NoSuchKey
		if errors.As(err, &nf) || errors.As(err, &nsk) {
			return ErrNotFound
		}
		return fmt.Errorf("head object %s: %w", key, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Owns(rawURL string) bool {
	_, err := s.keyFor(rawURL)
	return err == nil
}

func (s *S3Store) OwnerOf(rawURL string) (uuid.UUID, error) {
	key, err := s.keyFor(rawURL)
	if err != nil {
		return uuid.Nil, err
	}
	if !strings.HasPrefix(key, keyPrefix) {
		return uuid.Nil, ErrNoOwner
	}
	return ownerPrefix(strings.TrimPrefix(key, keyPrefix), '/')
}

func (s *S3Store) keyFor(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, s.publicURL) {
		return "", ErrForeignURL
	}
	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, s.publicURL))
	if err != nil || key == "" {
		return "", ErrForeignURL
	}
	return key, nil
}
