package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes uploads to a directory served as static files. Development
// only; production uses S3.
type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *Local) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	_ = ctx

	key := in.Key
	if key == "" {
		key = objectKey("", in.Filename)
	}
	dstPath := filepath.Join(l.BaseDir, key)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return PutResult{}, err
	}

	f, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return PutResult{}, err
	}
	defer f.Close()

	body := r
	if in.OnProgress != nil && in.Size > 0 {
		body = &progressReader{r: r, total: in.Size, onProgress: in.OnProgress}
	}
	if _, err := io.Copy(f, body); err != nil {
		return PutResult{}, err
	}

	return PutResult{Key: key, URL: l.URLPrefix + "/" + key}, nil
}

func (l *Local) Delete(ctx context.Context, key string) error {
	_ = ctx
	key = filepath.Base(key)
	return os.Remove(filepath.Join(l.BaseDir, key))
}

func (l *Local) KeyForURL(url string) (string, bool) {
	if l.URLPrefix == "" || !strings.HasPrefix(url, l.URLPrefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, l.URLPrefix+"/"), true
}
