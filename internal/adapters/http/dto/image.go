package dto

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// MaxImageBytes bounds a decoded recipe image.
const MaxImageBytes = 5 << 20

const imageField = "image"

// imageExtensions lists the accepted sniffed content types.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DecodeImage parses a base64 data URI such as "data:image/png;base64,iVBOR...".
// The declared media type is ignored; the content type is sniffed from the
// decoded bytes.
func DecodeImage(raw string) (*domain.Image, error) {
	if !strings.HasPrefix(raw, "data:") {
		return nil, domain.NewValidationError(imageField, "image must be a base64 data URI")
	}

	_, payload, ok := strings.Cut(raw, ";base64,")
	if !ok || payload == "" {
		return nil, domain.NewValidationError(imageField, "image must be a base64 data URI")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.NewValidationError(imageField, "image is not valid base64")
	}

	if len(data) > MaxImageBytes {
		return nil, domain.NewValidationError(imageField, "image is too large")
	}

	contentType := http.DetectContentType(data)

	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, domain.NewValidationErrorWithValue(imageField, "unsupported image type", contentType)
	}

	return &domain.Image{Data: data, ContentType: contentType, Extension: ext}, nil
}
