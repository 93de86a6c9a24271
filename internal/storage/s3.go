package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3 struct {
	Client        *s3.Client
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

type S3Config struct {
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &S3{
		Client:        s3.NewFromConfig(awsCfg),
		Bucket:        cfg.Bucket,
		Prefix:        cfg.Prefix,
		PublicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	key := in.Key
	if key == "" {
		key = objectKey(s.Prefix, in.Filename)
	}

	body := r
	if in.OnProgress != nil && in.Size > 0 {
		body = &progressReader{r: r, total: in.Size, onProgress: in.OnProgress}
	}

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.Bucket,
		Key:         &key,
		Body:        body,
		ContentType: &in.ContentType,
	})
	if err != nil {
		return PutResult{}, err
	}

	url := s.PublicBaseURL + "/" + key
	return PutResult{Key: key, URL: url}, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.Bucket,
		Key:    &key,
	})
	return err
}

// KeyForURL resolves a public URL back to its object key.
func (s *S3) KeyForURL(url string) (string, bool) {
	if s.PublicBaseURL == "" || !strings.HasPrefix(url, s.PublicBaseURL+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, s.PublicBaseURL+"/"), true
}

func (s *S3) String() string { return fmt.Sprintf("s3(%s/%s)", s.Bucket, s.Prefix) }
