// Package imageproc приводит загруженные фотографии к формату доставки:
// уменьшает слишком большие кадры и перекодирует их в JPEG или WEBP.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/pixiv/go-libjpeg/jpeg"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage возвращается для пустых и нераспознанных данных.
var ErrInvalidImage = errors.New("invalid image")

const (
	MIMEJPEG = "image/jpeg"
	MIMEWEBP = "image/webp"

	// webpMethod — максимальное усилие сжатия libwebp.
	webpMethod = 6
)

var allowedMIME = map[string]struct{}{
	"image/jpeg":  {},
	"image/jpg":   {},
	"image/pjpeg": {},
	"image/png":   {},
	"image/x-png": {},
	"image/webp":  {},
}

// IsAllowedMIME проверяет заявленный клиентом Content-Type части файла.
func IsAllowedMIME(contentType string) bool {
	mt := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	_, ok := allowedMIME[mt]
	return ok
}

// DefaultMaxPixels — предел площади кадра по умолчанию, как у Pillow (~89 Мпикс).
const DefaultMaxPixels = 1024 * 1024 * 1024 / 4 / 3

// Options задаёт лимиты обработки.
type Options struct {
	MaxSidePx   int
	JPEGQuality int
	WEBPQuality int
	// MaxPixels ограничивает ширину*высоту до декодирования; 0 — без ограничения.
	MaxPixels   int
}

// Source — декодированный кадр и сведения об исходном файле.
type Source struct {
	Image    image.Image
	Format   string
	// HasAlpha определяется по исходной цветовой модели, до поворота по EXIF.
	HasAlpha bool
}

// NewSource оборачивает уже готовое изображение.
func NewSource(img image.Image) *Source {
	return &Source{Image: img, HasAlpha: HasAlpha(img)}
}

// Result — закодированное изображение и параметры, с которыми оно получено.
type Result struct {
	Data     []byte
	Ext      string
	MIME     string
	Width    int
	Height   int
	Resized  bool
	HasAlpha bool
	Quality  int
}

// Decode распознаёт JPEG, PNG или WEBP. Размеры проверяются по заголовку до
// декодирования пикселей. Ориентация из EXIF применяется сразу.
func Decode(data []byte, maxPixels int) (*Source, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input: %w", ErrInvalidImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	src := &Source{Image: img, Format: format}
	// Поворот превращает JPEG в NRGBA, но альфа-канала у JPEG не бывает.
	// PNG и WEBP imaging не поворачивает, их тип совпадает с исходным.
	if format != "jpeg" {
		src.HasAlpha = HasAlpha(img)
	}
	return src, nil
}

// HasAlpha сообщает, есть ли у изображения альфа-канал: NRGBA (RGBA и LA в PNG),
// NYCbCrA, Alpha или палитра с прозрачным цветом. Декодеры отдают *image.RGBA только
// для непрозрачных truecolor-файлов, поэтому для него смотрим на пиксели.
func HasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *image.Paletted:
		return paletteHasAlpha(m.Palette)
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA, *image.Alpha, *image.Alpha16:
		return true
	case *image.RGBA:
		return !m.Opaque()
	case *image.RGBA64:
		return !m.Opaque()
	}
	return false
}

func paletteHasAlpha(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

// Process уменьшает изображение до MaxSidePx по длинной стороне (без увеличения)
// и кодирует его: WEBP при наличии альфа-канала, иначе прогрессивный JPEG.
func Process(src *Source, opts Options) (*Result, error) {
	if src == nil || src.Image == nil {
		return nil, ErrInvalidImage
	}
	b := src.Image.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("zero-sized image: %w", ErrInvalidImage)
	}

	alpha := src.HasAlpha
	out, resized := fit(src.Image, opts.MaxSidePx)

	res := &Result{
		Width:    out.Bounds().Dx(),
		Height:   out.Bounds().Dy(),
		Resized:  resized,
		HasAlpha: alpha,
	}

	var buf bytes.Buffer
	if alpha {
		if err := encodeWEBP(&buf, out, opts.WEBPQuality); err != nil {
			return nil, err
		}
		res.Ext, res.MIME, res.Quality = ".webp", MIMEWEBP, opts.WEBPQuality
	} else {
		if err := encodeJPEG(&buf, out, opts.JPEGQuality); err != nil {
			return nil, err
		}
		res.Ext, res.MIME, res.Quality = ".jpg", MIMEJPEG, opts.JPEGQuality
	}
	res.Data = buf.Bytes()
	return res, nil
}

func fit(img image.Image, maxSide int) (image.Image, bool) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img, false
	}
	if w >= h {
		return imaging.Resize(img, maxSide, 0, imaging.Lanczos), true
	}
	return imaging.Resize(img, 0, maxSide, imaging.Lanczos), true
}

func encodeWEBP(buf *bytes.Buffer, img image.Image, quality int) error {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return fmt.Errorf("webp options: %w", err)
	}
	options.Method = webpMethod

	// libwebp принимает только NRGBA/RGBA, imaging.Clone приводит к NRGBA.
	if err := webp.Encode(buf, imaging.Clone(img), options); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}

func encodeJPEG(buf *bytes.Buffer, img image.Image, quality int) error {
	err := jpeg.Encode(buf, toRGBA(img), &jpeg.EncoderOptions{
		Quality:         quality,
		OptimizeCoding:  true,
		ProgressiveMode: true,
	})
	if err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// toRGBA приводит кадр к *image.RGBA с началом в (0,0): libjpeg принимает RGBA, Gray и YCbCr.
func toRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}
