package qrcode

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/prasetyowira/checkin/constant"
	"github.com/prasetyowira/checkin/infrastructure/cache"
	"github.com/prasetyowira/checkin/infrastructure/logger"
	"github.com/skip2/go-qrcode"
)

// ErrEncodingCapacityExceeded is returned when content does not fit in any
// QR symbol version at the configured recovery level.
var ErrEncodingCapacityExceeded = errors.New(constant.ErrEncodingCapacityExceeded)

// ErrEmptyContent is returned when asked to encode an empty string.
var ErrEmptyContent = errors.New("qrcode: empty content")

var (
	defaultForeground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	defaultBackground = color.RGBA{R: 0x10, G: 0x26, B: 0x3B, A: 0xFF}
)

// Image is a rendered QR code
type Image struct {
	Content  string
	Size     int
	PNG      []byte
	Terminal string
}

// Generator handles QR code generation
type Generator struct {
	level      qrcode.RecoveryLevel
	moduleSize int
	foreground color.Color
	background color.Color
	cache      *cache.NamespaceLRU[*Image]

	writeMu sync.Mutex
}

// NewGenerator creates a generator using low error correction, white modules
// on a dark blue background and 10 pixels per module. cacheObj may be nil.
func NewGenerator(cacheObj *cache.NamespaceLRU[*Image]) *Generator {
	return &Generator{
		level:      qrcode.Low,
		moduleSize: constant.DefaultModuleSize,
		foreground: defaultForeground,
		background: defaultBackground,
		cache:      cacheObj,
	}
}

// Render encodes content into a QR image without touching the filesystem
func (g *Generator) Render(ctx context.Context, content string) (*Image, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	if g.cache != nil {
		if img, found := g.cache.Get(constant.QRImageNamespace, content); found {
			logger.CtxDebug(ctx, "QR image served from cache", logger.LoggerInfo{
				ContextFunction: constant.CtxRender,
				Data: map[string]interface{}{
					constant.DataCacheHit: true,
					constant.DataSize:     img.Size,
				},
			})
			return img, nil
		}
	}

	q, err := qrcode.New(content, g.level)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to encode QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxRender,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQREncode,
				Message: err.Error(),
				Type:    constant.ErrTypeQR,
			},
			Data: map[string]interface{}{
				constant.DataContentLen: len(content),
			},
		})
		return nil, fmt.Errorf("%w: %d bytes: %v", ErrEncodingCapacityExceeded, len(content), err)
	}
	q.ForegroundColor = g.foreground
	q.BackgroundColor = g.background

	// A negative size makes go-qrcode scale by pixels per module.
	png, err := q.PNG(-g.moduleSize)
	if err != nil {
		logger.CtxError(ctx, "Failed to encode PNG", logger.LoggerInfo{
			ContextFunction: constant.CtxRender,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRPNG,
				Message: err.Error(),
				Type:    constant.ErrTypeQR,
			},
		})
		return nil, err
	}

	bitmap := q.Bitmap()
	img := &Image{
		Content:  content,
		Size:     len(bitmap) * g.moduleSize,
		PNG:      png,
		Terminal: terminalArt(bitmap),
	}

	if g.cache != nil {
		g.cache.Set(constant.QRImageNamespace, content, img)
	}

	logger.CtxDebug(ctx, "QR image rendered", logger.LoggerInfo{
		ContextFunction: constant.CtxRender,
		Data: map[string]interface{}{
			constant.DataCacheHit: false,
			constant.DataSize:     img.Size,
			constant.DataBytes:    len(png),
		},
	})

	return img, nil
}

// RenderAndSave renders content and writes the PNG to outputPath, replacing
// any existing file. Nothing is written if encoding fails.
func (g *Generator) RenderAndSave(ctx context.Context, content, outputPath string) (*Image, error) {
	img, err := g.Render(ctx, content)
	if err != nil {
		return nil, err
	}

	g.writeMu.Lock()
	err = os.WriteFile(outputPath, img.PNG, 0o644)
	g.writeMu.Unlock()
	if err != nil {
		logger.CtxError(ctx, "Failed to write QR image", logger.LoggerInfo{
			ContextFunction: constant.CtxRenderAndSave,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRWriteFile,
				Message: err.Error(),
				Type:    constant.ErrTypeQR,
			},
			Data: map[string]interface{}{
				constant.DataOutputPath: outputPath,
			},
		})
		return nil, fmt.Errorf("write %s: %w", outputPath, err)
	}

	logger.CtxInfo(ctx, "QR image saved", logger.LoggerInfo{
		ContextFunction: constant.CtxRenderAndSave,
		Data: map[string]interface{}{
			constant.DataOutputPath: outputPath,
			constant.DataBytes:      len(img.PNG),
		},
	})

	return img, nil
}

// terminalArt packs two bitmap rows per text line using half blocks.
// Set modules are drawn, matching the light-on-dark PNG.
func terminalArt(bitmap [][]bool) string {
	at := func(y, x int) bool {
		if y >= len(bitmap) || x >= len(bitmap[y]) {
			return false
		}
		return bitmap[y][x]
	}

	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		for x := 0; x < len(bitmap[y]); x++ {
			top, bottom := at(y, x), at(y+1, x)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
