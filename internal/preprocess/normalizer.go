// Package preprocess adapts raw image bytes to the detection service's
// input limits before the synchronous detection path submits them.
package preprocess

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	"github.com/getmarco/medtextanalyze/pkg/logger"
)

// defaultMaxDimension matches the detection service's per-axis pixel cap.
const defaultMaxDimension = 10000

// Normalizer downscales oversized images so the remote service does not
// reject them.
type Normalizer struct {
	maxDimension int
	logger       logger.Logger
}

// NewNormalizer creates a Normalizer. A non-positive maxDimension selects
// the default cap.
func NewNormalizer(maxDimension int, log logger.Logger) *Normalizer {
	if maxDimension <= 0 {
		maxDimension = defaultMaxDimension
	}
	return &Normalizer{maxDimension: maxDimension, logger: log}
}

// Normalize returns the input unchanged when it already fits, and a
// PNG-encoded downscale otherwise. Bytes Go cannot decode (e.g. TIFF) pass
// through untouched; the remote service is the authority on those.
func (n *Normalizer) Normalize(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		n.logger.Debug("image not locally decodable, passing through",
			logger.Error(err),
		)
		return data, nil
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= n.maxDimension && height <= n.maxDimension {
		return data, nil
	}

	fitted := imaging.Fit(img, n.maxDimension, n.maxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("re-encode downscaled image: %w", err)
	}

	n.logger.Info("downscaled oversized image",
		logger.String("format", format),
		logger.Int("width", width),
		logger.Int("height", height),
		logger.Int("maxDimension", n.maxDimension),
	)
	return buf.Bytes(), nil
}
