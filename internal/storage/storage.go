// Package storage holds the product image upload backends: local disk for
// development and S3 for production.
package storage

import (
	"context"
	"io"
)

type PutInput struct {
	Filename    string
	ContentType string
	// Key pins the exact object key; when empty one is derived from Filename.
	Key string
	// Size enables fractional progress reporting; 0 disables it.
	Size int64
	// OnProgress receives the fraction uploaded so far, in [0,1].
	OnProgress func(frac float64)
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
	// KeyForURL resolves a public URL this backend produced back to its key.
	KeyForURL(url string) (string, bool)
}

type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	onProgress func(float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		frac := float64(p.read) / float64(p.total)
		if frac > 1 {
			frac = 1
		}
		p.onProgress(frac)
	}
	return n, err
}
