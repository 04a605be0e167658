package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage returns a PNG-encoded gradient large enough to exercise
// the thumbnail scaling path.
func testImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 128,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStorage_SaveAndGet(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), "products")
	require.NoError(t, err)

	data := []byte("image bytes")
	require.NoError(t, storage.Save("prod-1", data))

	got, err := storage.Get("prod-1")
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.True(t, storage.Exists("prod-1"))
}

func TestStorage_GetMissing(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), "products")
	require.NoError(t, err)

	_, err = storage.Get("nope")
	assert.Error(t, err)
	assert.False(t, storage.Exists("nope"))
}

func TestStorage_Delete(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), "products")
	require.NoError(t, err)

	require.NoError(t, storage.Save("prod-1", []byte("data")))
	require.NoError(t, storage.Delete("prod-1"))
	assert.False(t, storage.Exists("prod-1"))

	// Deleting again is a no-op.
	assert.NoError(t, storage.Delete("prod-1"))
}

func TestStorage_RejectsEmptyInputs(t *testing.T) {
	_, err := NewStorage("", "products")
	assert.Error(t, err)

	storage, err := NewStorage(t.TempDir(), "products")
	require.NoError(t, err)

	assert.Error(t, storage.Save("", []byte("data")))
	assert.Error(t, storage.Save("prod-1", nil))
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(testImage(t, 400, 300))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// BlurHash output is deterministic for the same input.
	again, err := ComputeBlurHash(testImage(t, 400, 300))
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}

func TestComputeBlurHash_InvalidData(t *testing.T) {
	_, err := ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
}

func testProcessor(t *testing.T) (*Processor, string) {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	processor, err := NewProcessor(dir, logger)
	require.NoError(t, err)
	return processor, dir
}

func TestProcess_DownloadsAndCaches(t *testing.T) {
	processor, _ := testProcessor(t)

	var downloads atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		w.Write(testImage(t, 800, 600))
	}))
	defer server.Close()

	result, err := processor.Process(context.Background(), "prod-1", server.URL+"/jhumka.png")
	require.NoError(t, err)
	assert.NotEmpty(t, result.BlurHash)
	assert.FileExists(t, result.OriginalPath)
	assert.FileExists(t, result.ThumbnailPath)

	// Thumbnail is bounded to the configured size.
	thumbData, err := os.ReadFile(result.ThumbnailPath)
	require.NoError(t, err)
	thumb, _, err := image.Decode(bytes.NewReader(thumbData))
	require.NoError(t, err)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), thumbnailSize)
	assert.LessOrEqual(t, thumb.Bounds().Dy(), thumbnailSize)

	// Second run serves from cache.
	_, err = processor.Process(context.Background(), "prod-1", server.URL+"/jhumka.png")
	require.NoError(t, err)
	assert.Equal(t, int32(1), downloads.Load())
}

func TestProcess_SmallImagePassesThrough(t *testing.T) {
	processor, _ := testProcessor(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(testImage(t, 100, 80))
	}))
	defer server.Close()

	result, err := processor.Process(context.Background(), "prod-small", server.URL)
	require.NoError(t, err)

	thumbData, err := os.ReadFile(result.ThumbnailPath)
	require.NoError(t, err)
	thumb, _, err := image.Decode(bytes.NewReader(thumbData))
	require.NoError(t, err)
	assert.Equal(t, 100, thumb.Bounds().Dx())
}

func TestProcess_MissingURL(t *testing.T) {
	processor, _ := testProcessor(t)

	_, err := processor.Process(context.Background(), "prod-1", "")
	assert.Error(t, err)
}

func TestProcess_DownloadFailure(t *testing.T) {
	processor, _ := testProcessor(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := processor.Process(context.Background(), "prod-1", server.URL)
	assert.Error(t, err)
}
