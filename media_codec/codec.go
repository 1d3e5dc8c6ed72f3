package media_codec

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sergiomvj/facemedia/entities"
)

// CodecError reports input that is not valid encoded media.
type CodecError struct {
	cause error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("malformed encoded media: %v", e.cause)
}

func (e *CodecError) Unwrap() error {
	return e.cause
}

func (e *CodecError) Is(err error) bool {
	_, ok := err.(*CodecError)
	return ok
}

// Encode produces the transport-safe text form of raw bytes. It round-trips
// exactly through Decode, including for empty input.
func Encode(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// Decode is the inverse of Encode.
func Decode(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &CodecError{cause: err}
	}

	return raw, nil
}

// ToDataURI wraps encoded bytes in a data URI a rendering surface can load
// directly. Pure; no I/O.
func ToDataURI(encoded string, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded)
}

// FromBytes builds an ImageFile from raw bytes, sniffing the MIME type when
// none is supplied.
func FromBytes(raw []byte, mimeType string, name string) *entities.ImageFile {
	if mimeType == "" {
		mimeType = http.DetectContentType(raw)
	}

	return &entities.ImageFile{
		Data:     Encode(raw),
		MimeType: mimeType,
		Name:     name,
	}
}

// FromFile reads an image from disk into its transport form.
func FromFile(path string) (*entities.ImageFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return FromBytes(raw, "", filepath.Base(path)), nil
}
