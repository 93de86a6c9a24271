// Package images is the product gallery pipeline: sequential uploads to
// object storage with aggregate progress, the five-image cap, thumbnail
// derivation, and remove/reorder operations on the draft's image list.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math"
	"path"
	"strings"

	"github.com/nfnt/resize"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/storage"
)

// MaxPerProduct is the gallery cap; enforced here, at the only entry point.
const MaxPerProduct = 5

const thumbWidth = 800

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type ObjectStorage interface {
	Put(ctx context.Context, r io.Reader, in storage.PutInput) (storage.PutResult, error)
	Delete(ctx context.Context, key string) error
	KeyForURL(url string) (string, bool)
}

type Pipeline struct {
	storage ObjectStorage
	log     *slog.Logger
	notify  mutate.Notifier
}

func NewPipeline(st ObjectStorage, log *slog.Logger, notify mutate.Notifier) *Pipeline {
	if notify == nil {
		notify = func(mutate.Notification) {}
	}
	return &Pipeline{storage: st, log: log, notify: notify}
}

type UploadResult struct {
	URLs    []string
	Dropped int
}

// UploadAll uploads files one by one and returns the collected public URLs in
// upload order. existing is the number of images already on the draft; the
// total may never exceed MaxPerProduct. Selecting more than MaxPerProduct
// files (or uploading into a full gallery) surfaces one "Maximum 5"
// notification; trimming to the remaining free slots is silent.
//
// onProgress receives the overall percentage across all files and a final 0
// once the batch is done.
func (p *Pipeline) UploadAll(ctx context.Context, existing int, files []File, onProgress func(pct int)) (UploadResult, error) {
	if onProgress == nil {
		onProgress = func(int) {}
	}
	var res UploadResult

	if len(files) > MaxPerProduct {
		res.Dropped = len(files) - MaxPerProduct
		files = files[:MaxPerProduct]
		p.notify(mutate.Notification{
			Kind:    mutate.NoteError,
			Title:   "Maximum 5",
			Message: fmt.Sprintf("You are not allowed to upload more than %d images.", MaxPerProduct),
		})
	}

	remaining := MaxPerProduct - existing
	if remaining <= 0 {
		if len(files) > 0 && res.Dropped == 0 {
			p.notify(mutate.Notification{
				Kind:    mutate.NoteError,
				Title:   "Maximum 5",
				Message: fmt.Sprintf("You are not allowed to upload more than %d images.", MaxPerProduct),
			})
		}
		res.Dropped += len(files)
		return res, nil
	}
	if len(files) > remaining {
		res.Dropped += len(files) - remaining
		files = files[:remaining]
	}
	if len(files) == 0 {
		return res, nil
	}

	total := len(files)
	for i, f := range files {
		idx := i
		put, err := p.storage.Put(ctx, bytes.NewReader(f.Data), storage.PutInput{
			Filename:    f.Name,
			ContentType: f.ContentType,
			Size:        int64(len(f.Data)),
			OnProgress: func(frac float64) {
				onProgress(overallProgress(idx, frac, total))
			},
		})
		if err != nil {
			onProgress(0)
			return res, fmt.Errorf("images: upload %s: %w", f.Name, err)
		}
		res.URLs = append(res.URLs, put.URL)
		onProgress(overallProgress(idx, 1, total))

		p.uploadThumb(ctx, f, put.Key)
	}
	onProgress(0)
	return res, nil
}

// thumbKeyFor derives the thumbnail key from the original's object key, so
// Remove can find the variant without tracking it. Only formats the pipeline
// can encode get a thumbnail.
func thumbKeyFor(key string) (string, bool) {
	ext := strings.ToLower(path.Ext(key))
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return strings.TrimSuffix(key, path.Ext(key)) + "_thumb" + ext, true
	default:
		return "", false
	}
}

// uploadThumb derives an 800px-wide variant stored under the original's key
// with a _thumb suffix. Best effort: a failed thumbnail never fails the
// batch.
func (p *Pipeline) uploadThumb(ctx context.Context, f File, origKey string) {
	thumbKey, ok := thumbKeyFor(origKey)
	if !ok {
		return
	}
	var (
		img image.Image
		err error
	)
	switch f.ContentType {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(f.Data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(f.Data))
	default:
		return
	}
	if err != nil {
		p.log.Warn("images: thumbnail decode failed", "file", f.Name, "err", err)
		return
	}

	small := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if f.ContentType == "image/png" {
		err = png.Encode(&buf, small)
	} else {
		err = jpeg.Encode(&buf, small, nil)
	}
	if err != nil {
		p.log.Warn("images: thumbnail encode failed", "file", f.Name, "err", err)
		return
	}

	if _, err := p.storage.Put(ctx, bytes.NewReader(buf.Bytes()), storage.PutInput{
		Key:         thumbKey,
		Filename:    "thumb_" + f.Name,
		ContentType: f.ContentType,
	}); err != nil {
		p.log.Warn("images: thumbnail upload failed", "file", f.Name, "err", err)
	}
}

// Remove deletes the object behind a public URL, plus its thumbnail variant
// when the format has one. The caller detaches the URL from the draft after
// this resolves.
func (p *Pipeline) Remove(ctx context.Context, url string) error {
	key, ok := p.storage.KeyForURL(url)
	if !ok {
		key = url
	}
	if err := p.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("images: delete %s: %w", url, err)
	}
	// best effort; not every original has a thumbnail
	if thumbKey, ok := thumbKeyFor(key); ok {
		if err := p.storage.Delete(ctx, thumbKey); err != nil {
			p.log.Warn("images: thumbnail delete failed", "key", thumbKey, "err", err)
		}
	}
	return nil
}

// Reorder moves the image at from to to, shifting the rest; out-of-range
// indexes leave the list untouched. Pure: returns a new slice.
func Reorder(urls []string, from, to int) []string {
	out := append([]string(nil), urls...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out
}

func overallProgress(completed int, frac float64, total int) int {
	return int(math.Round(((float64(completed) + frac) / float64(total)) * 100))
}
