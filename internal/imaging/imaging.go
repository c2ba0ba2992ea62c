// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging optimises generated post images using libvips. Provider
// image endpoints return large PNGs; posts embed a single WebP capped at the
// feed's display width, so every image is converted and downscaled before
// upload. Sources narrower than the cap are never upscaled.
package imaging

import (
	"fmt"
	"log/slog"

	"github.com/davidbyttow/govips/v2/vips"
)

const (
	// MaxWidth is the widest a post image is ever displayed at.
	MaxWidth = 1024

	// quality is the WebP encode quality for post images.
	quality = 80
)

// Optimized holds the converted image ready for upload.
type Optimized struct {
	Data        []byte
	Width       int
	Height      int
	ContentType string // always "image/webp"
}

// Startup initialises the libvips library. Call once at application start.
// concurrency controls the number of libvips worker threads (0 = auto).
func Startup(concurrency int) {
	cfg := &vips.Config{
		ConcurrencyLevel: concurrency,
		MaxCacheSize:     100,
		MaxCacheMem:      50 * 1024 * 1024, // 50 MB
	}
	vips.LoggingSettings(nil, vips.LogLevelWarning)
	vips.Startup(cfg)
	slog.Info("libvips started", "version", vips.Version)
}

// Shutdown releases libvips resources. Call at application shutdown.
func Shutdown() {
	vips.Shutdown()
}

// Optimize converts the source image to WebP, downscaling to MaxWidth when
// the source is wider. EXIF orientation is applied and metadata stripped.
func Optimize(original []byte) (*Optimized, error) {
	// Probe original dimensions without fully decoding.
	probe, err := vips.NewImageFromBuffer(original)
	if err != nil {
		return nil, fmt.Errorf("imaging: probe failed: %w", err)
	}
	width := probe.Width()
	probe.Close()

	if width > MaxWidth {
		width = MaxWidth
	}

	img, err := vips.NewThumbnailFromBuffer(original, width, 0, vips.InterestingNone)
	if err != nil {
		return nil, fmt.Errorf("imaging: thumbnail (%dpx): %w", width, err)
	}
	defer img.Close()

	if err := img.AutoRotate(); err != nil {
		return nil, fmt.Errorf("imaging: autorotate: %w", err)
	}

	params := vips.NewWebpExportParams()
	params.Quality = quality
	params.Lossless = false
	params.StripMetadata = true

	buf, meta, err := img.ExportWebp(params)
	if err != nil {
		return nil, fmt.Errorf("imaging: export: %w", err)
	}

	return &Optimized{
		Data:        buf,
		Width:       meta.Width,
		Height:      meta.Height,
		ContentType: "image/webp",
	}, nil
}
