package image_meta

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// 89 50 4E 47 0D 0A 1A 0A
var pngHeader = "\x89\x50\x4E\x47\x0D\x0A\x1A\x0A"

// FF D8 FF
var jpegHeader = "\xFF\xD8\xFF"

// webp: RIFF....WEBP
var riffHeader = "RIFF"

// MaxUploadBytes caps accepted uploads; anything larger is rejected before
// it reaches the backend as an inline part.
const MaxUploadBytes = 8 * 1024 * 1024

// Info describes an uploaded image accepted as a base or blend reference.
type Info struct {
	MimeType string
	Width    int
	Height   int
}

// Inspect validates raw upload bytes and reports their type and dimensions.
// Only PNG, JPEG and WebP are accepted.
func Inspect(raw []byte) (*Info, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty upload")
	}

	if len(raw) > MaxUploadBytes {
		return nil, fmt.Errorf("upload of %d bytes exceeds the %d byte limit", len(raw), MaxUploadBytes)
	}

	mimeType, err := sniffMimeType(raw)
	if err != nil {
		return nil, err
	}

	config, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		if mimeType == "image/webp" {
			// No webp decoder registered; the signature check is all we get.
			return &Info{MimeType: mimeType}, nil
		}

		return nil, fmt.Errorf("unreadable %s data: %w", mimeType, err)
	}

	return &Info{
		MimeType: mimeType,
		Width:    config.Width,
		Height:   config.Height,
	}, nil
}

func sniffMimeType(raw []byte) (string, error) {
	data := string(raw[:min(len(raw), 16)])

	switch {
	case strings.HasPrefix(data, pngHeader):
		return "image/png", nil
	case strings.HasPrefix(data, jpegHeader):
		return "image/jpeg", nil
	case strings.HasPrefix(data, riffHeader) && len(data) >= 12 && data[8:12] == "WEBP":
		return "image/webp", nil
	}

	return "", errors.New("unsupported upload type, expected PNG, JPEG or WebP")
}
