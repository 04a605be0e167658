package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/image/draw"
)

// thumbnailSize is the longer-side bound for generated thumbnails.
const thumbnailSize = 320

// maxDownloadBytes caps product image downloads. Catalog images are a
// few hundred KB; anything bigger is a misconfigured listing.
const maxDownloadBytes = 10 << 20

// Processor downloads product images and derives thumbnails and
// BlurHash placeholders from them.
type Processor struct {
	originals  *Storage
	thumbnails *Storage
	client     *http.Client
	logger     *slog.Logger
}

// NewProcessor creates a Processor storing originals and thumbnails
// under basePath.
func NewProcessor(basePath string, logger *slog.Logger) (*Processor, error) {
	originals, err := NewStorage(basePath, "products")
	if err != nil {
		return nil, err
	}
	thumbnails, err := NewStorage(basePath, "thumbs")
	if err != nil {
		return nil, err
	}

	return &Processor{
		originals:  originals,
		thumbnails: thumbnails,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// Result describes a processed product image.
type Result struct {
	OriginalPath  string
	ThumbnailPath string
	BlurHash      string
}

// Process downloads a product image, caches it, and derives a
// thumbnail and BlurHash. Already-cached images are not re-downloaded.
func (p *Processor) Process(ctx context.Context, productID, imageURL string) (*Result, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("product %s has no image URL", productID)
	}

	imgData, err := p.originals.Get(productID)
	if err != nil {
		imgData, err = p.download(ctx, imageURL)
		if err != nil {
			return nil, err
		}
		if err := p.originals.Save(productID, imgData); err != nil {
			return nil, fmt.Errorf("save original: %w", err)
		}
	}

	hash, err := ComputeBlurHash(imgData)
	if err != nil {
		p.logger.Warn("blurhash computation failed",
			"product_id", productID,
			"error", err,
		)
		hash = ""
	}

	if !p.thumbnails.Exists(productID) {
		thumbData, err := makeThumbnail(imgData)
		if err != nil {
			return nil, fmt.Errorf("thumbnail: %w", err)
		}
		if err := p.thumbnails.Save(productID, thumbData); err != nil {
			return nil, fmt.Errorf("save thumbnail: %w", err)
		}
	}

	p.logger.Debug("processed product image",
		"product_id", productID,
		"size", len(imgData),
	)

	return &Result{
		OriginalPath:  p.originals.Path(productID),
		ThumbnailPath: p.thumbnails.Path(productID),
		BlurHash:      hash,
	}, nil
}

func (p *Processor) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image body")
	}
	return data, nil
}

// makeThumbnail re-encodes a scaled-down JPEG copy.
func makeThumbnail(imgData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	scaled := scaleDownQuality(img, thumbnailSize)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// scaleDownQuality is the slower, better-looking sibling of scaleDown
// used for thumbnails that are actually displayed.
func scaleDownQuality(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxSize && bounds.Dy() <= maxSize {
		return img
	}

	var dstWidth, dstHeight int
	if bounds.Dx() > bounds.Dy() {
		dstWidth = maxSize
		dstHeight = max(1, (bounds.Dy()*maxSize)/bounds.Dx())
	} else {
		dstHeight = maxSize
		dstWidth = max(1, (bounds.Dx()*maxSize)/bounds.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
