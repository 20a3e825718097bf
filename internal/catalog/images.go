package catalog

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
)

const (
	// MaxImagesPerListing matches the upload form limit.
	MaxImagesPerListing = 6
	// MaxImageBytes caps each decoded image at 5 MB.
	MaxImageBytes = 5 << 20
)

var allowedImageMIMETypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
}

type imageCheck struct {
	index int
	err   error
}

// validateImages checks every data-URI concurrently, the way the upload
// form reads files: each check completes independently and reports as it
// finishes, with no ordering guarantee among them. The first failing index
// (by completion, not position) decides the returned error.
func validateImages(ctx context.Context, images []string) error {
	if len(images) > MaxImagesPerListing {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d images are allowed", MaxImagesPerListing))
	}
	if len(images) == 0 {
		return nil
	}

	results := make(chan imageCheck, len(images))
	for i, image := range images {
		go func(index int, raw string) {
			results <- imageCheck{index: index, err: checkImageDataURI(raw)}
		}(i, image)
	}

	for range images {
		select {
		case <-ctx.Done():
			return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "image validation interrupted")
		case result := <-results:
			if result.err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, result.err, fmt.Sprintf("image %d is not a valid upload", result.index+1))
			}
		}
	}
	return nil
}

func checkImageDataURI(raw string) error {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return fmt.Errorf("expected a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return fmt.Errorf("missing data payload")
	}
	mimeType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return fmt.Errorf("expected base64 encoding")
	}
	if _, allowed := allowedImageMIMETypes[mimeType]; !allowed {
		return fmt.Errorf("unsupported image type %q", mimeType)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(decoded) == 0 {
		return fmt.Errorf("empty image payload")
	}
	if len(decoded) > MaxImageBytes {
		return fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}
	return nil
}
