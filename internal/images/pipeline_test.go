package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/storage"
)

type fakeStorage struct {
	puts    []storage.PutInput
	deleted []string
	err     error
}

func (f *fakeStorage) Put(_ context.Context, _ io.Reader, in storage.PutInput) (storage.PutResult, error) {
	if f.err != nil {
		return storage.PutResult{}, f.err
	}
	f.puts = append(f.puts, in)
	key := in.Key
	if key == "" {
		key = fmt.Sprintf("products/%d-%s", len(f.puts), in.Filename)
	}
	return storage.PutResult{Key: key, URL: "https://cdn.test/" + key}, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) KeyForURL(url string) (string, bool) {
	const base = "https://cdn.test/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	return strings.TrimPrefix(url, base), true
}

func testFiles(n int) []File {
	out := make([]File, n)
	for i := range out {
		// not decodable as an image, so no thumbnail upload happens
		out[i] = File{Name: fmt.Sprintf("f%d.jpg", i), ContentType: "image/jpeg", Data: []byte("data")}
	}
	return out
}

func newTestPipeline(st ObjectStorage, notes *[]mutate.Notification) *Pipeline {
	return NewPipeline(st, slog.New(slog.NewTextHandler(io.Discard, nil)), func(n mutate.Notification) {
		*notes = append(*notes, n)
	})
}

func TestUploadAllWithinCap(t *testing.T) {
	fs := &fakeStorage{}
	var notes []mutate.Notification
	p := newTestPipeline(fs, &notes)

	res, err := p.UploadAll(context.Background(), 0, testFiles(3), nil)
	require.NoError(t, err)
	assert.Len(t, res.URLs, 3)
	assert.Zero(t, res.Dropped)
	assert.Empty(t, notes)
	assert.Len(t, fs.puts, 3)
}

func TestUploadAllOverCapNotifiesOnce(t *testing.T) {
	fs := &fakeStorage{}
	var notes []mutate.Notification
	p := newTestPipeline(fs, &notes)

	res, err := p.UploadAll(context.Background(), 0, testFiles(7), nil)
	require.NoError(t, err)
	assert.Len(t, res.URLs, 5)
	assert.Equal(t, 2, res.Dropped)

	require.Len(t, notes, 1)
	assert.Equal(t, "Maximum 5", notes[0].Title)
}

func TestUploadAllPartialRoomTrimsSilently(t *testing.T) {
	fs := &fakeStorage{}
	var notes []mutate.Notification
	p := newTestPipeline(fs, &notes)

	// 4 images already attached, 2 selected: one goes up, no notification
	res, err := p.UploadAll(context.Background(), 4, testFiles(2), nil)
	require.NoError(t, err)
	assert.Len(t, res.URLs, 1)
	assert.Equal(t, 1, res.Dropped)
	assert.Empty(t, notes)
}

func TestUploadAllFullGalleryNotifies(t *testing.T) {
	fs := &fakeStorage{}
	var notes []mutate.Notification
	p := newTestPipeline(fs, &notes)

	res, err := p.UploadAll(context.Background(), 5, testFiles(2), nil)
	require.NoError(t, err)
	assert.Empty(t, res.URLs)
	assert.Equal(t, 2, res.Dropped)

	require.Len(t, notes, 1)
	assert.Equal(t, "Maximum 5", notes[0].Title)
}

func TestUploadAllProgress(t *testing.T) {
	fs := &fakeStorage{}
	var notes []mutate.Notification
	p := newTestPipeline(fs, &notes)

	var pcts []int
	_, err := p.UploadAll(context.Background(), 0, testFiles(2), func(pct int) {
		pcts = append(pcts, pct)
	})
	require.NoError(t, err)
	// 50 after the first file, 100 after the second, then the reset to 0
	assert.Equal(t, []int{50, 100, 0}, pcts)
}

func TestUploadAllStorageFailure(t *testing.T) {
	fs := &fakeStorage{err: errors.New("s3 down")}
	var notes []mutate.Notification
	p := newTestPipeline(fs, &notes)

	var pcts []int
	_, err := p.UploadAll(context.Background(), 0, testFiles(1), func(pct int) {
		pcts = append(pcts, pct)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "f0.jpg")
	// progress is reset even on failure
	assert.Equal(t, []int{0}, pcts)
}

func TestRemove(t *testing.T) {
	fs := &fakeStorage{}
	var notes []mutate.Notification
	p := newTestPipeline(fs, &notes)

	// the thumbnail variant is cleaned up alongside the original
	require.NoError(t, p.Remove(context.Background(), "https://cdn.test/products/1-f0.jpg"))
	assert.Equal(t, []string{"products/1-f0.jpg", "products/1-f0_thumb.jpg"}, fs.deleted)

	// a value that is not one of our public URLs is passed through as a key
	require.NoError(t, p.Remove(context.Background(), "products/raw-key.jpg"))
	assert.Contains(t, fs.deleted, "products/raw-key.jpg")
}

// Decodable originals get a resized variant stored under the original's key
// with a _thumb suffix, so removal can find it later.
func TestUploadAllDerivesThumbnail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	fs := &fakeStorage{}
	var notes []mutate.Notification
	p := newTestPipeline(fs, &notes)

	res, err := p.UploadAll(context.Background(), 0, []File{
		{Name: "soap.png", ContentType: "image/png", Data: buf.Bytes()},
	}, nil)
	require.NoError(t, err)
	require.Len(t, res.URLs, 1)

	require.Len(t, fs.puts, 2)
	assert.Equal(t, "products/1-soap_thumb.png", fs.puts[1].Key)
	assert.Equal(t, "image/png", fs.puts[1].ContentType)
}

func TestReorder(t *testing.T) {
	urls := []string{"a", "b", "c", "d"}

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"same index", 2, 2, []string{"a", "b", "c", "d"}},
		{"from out of range", 9, 1, []string{"a", "b", "c", "d"}},
		{"to out of range", 1, 9, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reorder(urls, tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			// input untouched
			assert.Equal(t, []string{"a", "b", "c", "d"}, urls)
		})
	}
}
