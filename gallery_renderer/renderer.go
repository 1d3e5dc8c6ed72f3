package gallery_renderer

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
)

// MaxTiles bounds how many thumbnails fit on one sheet.
const MaxTiles = 4

type rendererImpl struct{}

type Config struct{}

func New(cfg Config) (Renderer, error) {
	return &rendererImpl{}, nil
}

// ContactSheet tiles between one and four images into a grid sized from the
// first image. Cells beyond the supplied images stay blank.
func (r *rendererImpl) ContactSheet(imageBufs []*bytes.Buffer) (*bytes.Buffer, error) {
	if len(imageBufs) == 0 || len(imageBufs) > MaxTiles {
		return nil, errors.New("invalid number of images")
	}

	images := make([]image.Image, len(imageBufs))

	for i, buf := range imageBufs {
		img, _, err := image.Decode(buf)
		if err != nil {
			return nil, err
		}

		images[i] = img
	}

	cell := images[0].Bounds()

	columns := 2
	rows := 2

	switch len(images) {
	case 1:
		columns, rows = 1, 1
	case 2:
		columns, rows = 2, 1
	}

	sheet := image.NewRGBA(image.Rect(0, 0, cell.Dx()*columns, cell.Dy()*rows))

	for i, img := range images {
		column := i % columns
		row := i / columns

		offset := image.Pt(column*cell.Dx(), row*cell.Dy())
		target := image.Rectangle{Min: offset, Max: offset.Add(img.Bounds().Size())}

		draw.Draw(sheet, target, img, img.Bounds().Min, draw.Over)
	}

	sheetBuf := new(bytes.Buffer)

	err := png.Encode(sheetBuf, sheet)
	if err != nil {
		return nil, err
	}

	return sheetBuf, nil
}
