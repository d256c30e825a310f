// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imageinfo reads image dimensions from file headers without
// decoding pixel data.
package imageinfo

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// maxImagePixels caps the dimensions accepted from a header so a crafted
// file cannot claim an absurd canvas.
const maxImagePixels = 100_000_000

// Size is the pixel size of an image.
type Size struct {
	Width  int
	Height int
}

// Decode reads the image header from r.
func Decode(r io.Reader) (Size, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return Size{}, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return Size{}, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// DecodeFile reads the image header of the file at path. Vector formats
// such as SVG are not supported and return an error.
func DecodeFile(path string) (Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return Size{}, err
	}
	defer f.Close()
	return Decode(f)
}
