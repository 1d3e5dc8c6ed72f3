package gallery_renderer

import "bytes"

// Renderer lays recent creation thumbnails out as a single contact sheet.
type Renderer interface {
	ContactSheet(imageBufs []*bytes.Buffer) (*bytes.Buffer, error)
}
