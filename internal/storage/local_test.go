package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutDeleteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/uploads/")
	ctx := context.Background()

	res, err := l.Put(ctx, bytes.NewReader([]byte("img-bytes")), PutInput{
		Filename:    "Rose Attar 01.JPG",
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, "/uploads/"))
	assert.True(t, strings.HasPrefix(res.Key, "rose-attar-01-"))
	assert.True(t, strings.HasSuffix(res.Key, ".jpg"))

	data, err := os.ReadFile(filepath.Join(dir, res.Key))
	require.NoError(t, err)
	assert.Equal(t, "img-bytes", string(data))

	key, ok := l.KeyForURL(res.URL)
	require.True(t, ok)
	assert.Equal(t, res.Key, key)

	_, ok = l.KeyForURL("https://elsewhere.test/x.jpg")
	assert.False(t, ok)

	require.NoError(t, l.Delete(ctx, res.Key))
	_, err = os.Stat(filepath.Join(dir, res.Key))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalPutProgress(t *testing.T) {
	l := NewLocal(t.TempDir(), "/uploads")
	payload := bytes.Repeat([]byte("x"), 1024)

	var last float64
	_, err := l.Put(context.Background(), bytes.NewReader(payload), PutInput{
		Filename:   "a.png",
		Size:       int64(len(payload)),
		OnProgress: func(frac float64) { last = frac },
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, last)
}

func TestObjectKey(t *testing.T) {
	key := objectKey("products", "My Photo.png")
	assert.True(t, strings.HasPrefix(key, "products/my-photo-"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	// a disallowed extension is dropped
	key = objectKey("", "payload.exe")
	assert.False(t, strings.HasSuffix(key, ".exe"))

	// two keys for the same name never collide
	assert.NotEqual(t, objectKey("", "a.jpg"), objectKey("", "a.jpg"))
}
