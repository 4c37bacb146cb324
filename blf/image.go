package blf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	_ "image/jpeg"

	"github.com/disintegration/imaging"
	"github.com/mazznoer/csscolorparser"
	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
)

const (
	DefaultScreenshotFormat = "jpg"
	DefaultBackground       = "#000000"
	ThumbnailSuffix         = "_thumb"
)

// What to do with a screenshot payload after it's been sliced out
type ScreenshotOptions struct {
	Format          string      // jpg (untouched), png, bmp or gif
	ThumbnailWidth  int         // 0 means no thumbnail
	ThumbnailHeight int         // 0 means same as width
	Background      color.Color // Fill for the thumbnail letterbox (nil = black)
}

// Normalized output format. jpeg -> jpg, empty -> jpg
func (o *ScreenshotOptions) OutputFormat() (string, error) {
	format := strings.TrimPrefix(strings.ToLower(o.Format), ".")
	switch format {
	case "", "jpg", "jpeg":
		return DefaultScreenshotFormat, nil
	case "png", "bmp", "gif":
		return format, nil
	}
	return "", fmt.Errorf("Unsupported screenshot format: %s", o.Format)
}

// Extension (with dot) for screenshots written with these options
func (o *ScreenshotOptions) Extension() string {
	format, err := o.OutputFormat()
	if err != nil {
		return KindScreenshot.Extension()
	}
	return "." + format
}

func (o *ScreenshotOptions) WantsThumbnail() bool {
	return o.ThumbnailWidth > 0
}

// Parse a css style colour ("#102030", "black", "rgb(1,2,3)") for use as a
// thumbnail background
func ParseBackground(s string) (color.Color, error) {
	if s == "" {
		s = DefaultBackground
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Decode the embedded JPEG. Doubles as a check that the range we cut out is
// actually an image.
func DecodeScreenshot(payload []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("Couldn't decode screenshot: %w", err)
	}
	return img, nil
}

// Write the screenshot in the requested format. jpg copies the payload as is
// (no re-encode, no quality loss).
func ConvertScreenshot(payload []byte, format string, w io.Writer) error {
	opts := ScreenshotOptions{Format: format}
	format, err := opts.OutputFormat()
	if err != nil {
		return err
	}
	if format == DefaultScreenshotFormat {
		_, err = w.Write(payload)
		return err
	}
	img, err := DecodeScreenshot(payload)
	if err != nil {
		return err
	}
	if format == "bmp" {
		return bmp.Encode(w, img)
	}
	imgformat, err := imaging.FormatFromExtension(format)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, imgformat)
}

// Scale the image to fit inside width x height (keeping aspect) and center
// it on a canvas of exactly that size filled with background
func MakeThumbnail(img image.Image, width int, height int, background color.Color) image.Image {
	if height <= 0 {
		height = width
	}
	if background == nil {
		background = color.Black
	}
	scaled := resize.Thumbnail(uint(width), uint(height), img, resize.Bilinear)
	canvas := imaging.New(width, height, background)
	return imaging.PasteCenter(canvas, scaled)
}

// Thumbnail straight from the payload, encoded as png
func WriteThumbnail(payload []byte, opts *ScreenshotOptions, w io.Writer) error {
	img, err := DecodeScreenshot(payload)
	if err != nil {
		return err
	}
	thumb := MakeThumbnail(img, opts.ThumbnailWidth, opts.ThumbnailHeight, opts.Background)
	return imaging.Encode(w, thumb, imaging.PNG)
}
