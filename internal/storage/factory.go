package storage

import (
	"context"
	"fmt"
)

type LocalConfig struct {
	BaseDir   string
	URLPrefix string
}

// New selects the upload backend by driver name ("local" or "s3").
func New(ctx context.Context, driver string, local LocalConfig, s3cfg S3Config) (Storage, error) {
	switch driver {
	case "", "local":
		return NewLocal(local.BaseDir, local.URLPrefix), nil
	case "s3":
		if s3cfg.Region == "" || s3cfg.Bucket == "" || s3cfg.PublicBaseURL == "" {
			return nil, fmt.Errorf("storage: s3 driver needs S3_REGION, S3_BUCKET and S3_PUBLIC_BASE_URL")
		}
		return NewS3(ctx, s3cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
