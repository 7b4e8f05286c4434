package imageproc

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

var testOpts = Options{MaxSidePx: 100, JPEGQuality: 82, WEBPQuality: 80}

func opaqueImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	return img
}

func transparentImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: uint8(x % 256)})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// pngChunk собирает PNG-чанк: длина, тип, данные, CRC.
func pngChunk(typ string, data []byte) []byte {
	out := make([]byte, 0, len(data)+12)
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, typ...)
	out = append(out, data...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(append([]byte(typ), data...)))
}

func pngHeader(w, h int, colorType byte) []byte {
	ihdr := binary.BigEndian.AppendUint32(nil, uint32(w))
	ihdr = binary.BigEndian.AppendUint32(ihdr, uint32(h))
	ihdr = append(ihdr, 8, colorType, 0, 0, 0)
	return append([]byte("\x89PNG\r\n\x1a\n"), pngChunk("IHDR", ihdr)...)
}

// rgbaPNG пишет PNG с цветовым типом 6 (RGBA) и полностью непрозрачными пикселями.
// png.Encode сохранил бы такой кадр как RGB.
func rgbaPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var raw bytes.Buffer
	for y := 0; y < h; y++ {
		raw.WriteByte(0)
		for x := 0; x < w; x++ {
			raw.Write([]byte{uint8(x * 10), uint8(y * 20), 90, 0xff})
		}
	}
	var idat bytes.Buffer
	zw := zlib.NewWriter(&idat)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	out := pngHeader(w, h, 6)
	out = append(out, pngChunk("IDAT", idat.Bytes())...)
	return append(out, pngChunk("IEND", nil)...)
}

// withOrientation вставляет после SOI сегмент APP1 с EXIF Orientation.
func withOrientation(jpg []byte, orientation byte) []byte {
	exif := []byte("Exif\x00\x00MM\x00\x2a\x00\x00\x00\x08" +
		"\x00\x01" +
		"\x01\x12\x00\x03\x00\x00\x00\x01\x00")
	exif = append(exif, orientation, 0, 0, 0, 0, 0, 0)
	seg := []byte{0xff, 0xe1}
	seg = binary.BigEndian.AppendUint16(seg, uint16(len(exif)+2))
	seg = append(seg, exif...)

	out := append([]byte{}, jpg[:2]...)
	out = append(out, seg...)
	return append(out, jpg[2:]...)
}

func TestIsAllowedMIME(t *testing.T) {
	tests := []struct {
		ct   string
		want bool
	}{
		{"image/jpeg", true},
		{"image/JPG", true},
		{"image/pjpeg", true},
		{"image/png", true},
		{"image/x-png", true},
		{"image/webp; charset=binary", true},
		{"image/gif", false},
		{"image/svg+xml", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAllowedMIME(tt.ct); got != tt.want {
			t.Errorf("IsAllowedMIME(%q) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}

func TestDecodeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not an image")},
		{"truncated png", pngBytes(t, opaqueImage(10, 10))[:20]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, DefaultMaxPixels)
			if !errors.Is(err, ErrInvalidImage) {
				t.Fatalf("Decode() error = %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestDecodeFormats(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, opaqueImage(30, 20), nil); err != nil {
		t.Fatal(err)
	}

	src, err := Decode(jpg.Bytes(), DefaultMaxPixels)
	if err != nil {
		t.Fatalf("Decode(jpeg) error = %v", err)
	}
	if src.Format != "jpeg" || src.HasAlpha || src.Image.Bounds().Dx() != 30 || src.Image.Bounds().Dy() != 20 {
		t.Errorf("Decode(jpeg) = %s alpha=%v %v", src.Format, src.HasAlpha, src.Image.Bounds())
	}

	src, err = Decode(pngBytes(t, transparentImage(8, 8)), DefaultMaxPixels)
	if err != nil || src.Format != "png" || !src.HasAlpha {
		t.Errorf("Decode(png) = %+v, %v", src, err)
	}
}

func TestDecodeAlphaFromSource(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"rgba png with opaque pixels", rgbaPNG(t, 20, 10), true},
		{"rgb png", pngBytes(t, opaqueImage(20, 10)), false},
		{"gray png", pngBytes(t, image.NewGray(image.Rect(0, 0, 4, 4))), false},
		{"translucent png", pngBytes(t, transparentImage(20, 10)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Decode(tt.data, DefaultMaxPixels)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if src.HasAlpha != tt.want {
				t.Errorf("HasAlpha = %v, want %v (%T)", src.HasAlpha, tt.want, src.Image)
			}
		})
	}
}

func TestDecodeRotatedJPEGHasNoAlpha(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, opaqueImage(80, 40), nil); err != nil {
		t.Fatal(err)
	}

	// 6 — поворот на 90° по часовой стрелке.
	src, err := Decode(withOrientation(jpg.Bytes(), 6), DefaultMaxPixels)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.Image.Bounds().Dx() != 40 || src.Image.Bounds().Dy() != 80 {
		t.Errorf("oriented bounds = %v, want 40x80", src.Image.Bounds())
	}
	if src.HasAlpha {
		t.Error("jpeg never carries alpha")
	}

	res, err := Process(src, testOpts)
	if err != nil {
		t.Fatal(err)
	}
	if res.MIME != MIMEJPEG {
		t.Errorf("MIME = %s, want %s", res.MIME, MIMEJPEG)
	}
}

func TestDecodeRejectsTooManyPixels(t *testing.T) {
	header := pngHeader(20000, 20000, 0)

	if _, err := Decode(header, DefaultMaxPixels); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("Decode() error = %v, want ErrInvalidImage", err)
	}

	small := pngBytes(t, opaqueImage(30, 20))
	if _, err := Decode(small, 600); err != nil {
		t.Errorf("exactly at the limit: %v", err)
	}
	if _, err := Decode(small, 599); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("one pixel over the limit: %v", err)
	}
}

func TestHasAlpha(t *testing.T) {
	translucent := image.NewRGBA(image.Rect(0, 0, 2, 2))
	translucent.Set(0, 0, color.RGBA{A: 10})

	opaquePalette := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	// png.Decode отдаёт NRGBA для RGBA и LA даже при непрозрачных пикселях.
	opaqueNRGBA := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 3; i < len(opaqueNRGBA.Pix); i += 4 {
		opaqueNRGBA.Pix[i] = 0xff
	}

	transparentPalette := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.NRGBA{}})

	tests := []struct {
		name string
		img  image.Image
		want bool
	}{
		{"opaque rgba", opaqueImage(2, 2), false},
		{"translucent rgba", translucent, true},
		{"nrgba", transparentImage(2, 2), true},
		{"opaque nrgba", opaqueNRGBA, true},
		{"gray", image.NewGray(image.Rect(0, 0, 2, 2)), false},
		{"ycbcr", image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420), false},
		{"nycbcra", image.NewNYCbCrA(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420), true},
		{"alpha", image.NewAlpha(image.Rect(0, 0, 2, 2)), true},
		{"opaque palette", opaquePalette, false},
		{"palette with transparency", transparentPalette, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAlpha(tt.img); got != tt.want {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessSmallImageKeepsDimensions(t *testing.T) {
	res, err := Process(NewSource(opaqueImage(80, 40)), testOpts)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.Resized {
		t.Error("image within the cap must not be resized")
	}
	if res.Width != 80 || res.Height != 40 {
		t.Errorf("dimensions = %dx%d, want 80x40", res.Width, res.Height)
	}
	if res.MIME != MIMEJPEG || res.Ext != ".jpg" || res.Quality != 82 {
		t.Errorf("result = %s %s q%d", res.MIME, res.Ext, res.Quality)
	}

	if !bytes.Contains(res.Data, []byte{0xff, 0xc2}) {
		t.Error("JPEG must be progressive (SOF2)")
	}

	decoded, err := jpeg.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if decoded.Bounds().Dx() != 80 || decoded.Bounds().Dy() != 40 {
		t.Errorf("encoded bounds = %v", decoded.Bounds())
	}
}

func TestProcessCapsLongerSide(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape", 400, 200, 100, 50},
		{"portrait", 150, 300, 50, 100},
		{"square", 250, 250, 100, 100},
		{"exactly at cap", 100, 60, 100, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Process(NewSource(opaqueImage(tt.w, tt.h)), testOpts)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if res.Width != tt.wantW || res.Height != tt.wantH {
				t.Errorf("dimensions = %dx%d, want %dx%d", res.Width, res.Height, tt.wantW, tt.wantH)
			}
			if res.Resized != (tt.w > 100 || tt.h > 100) {
				t.Errorf("Resized = %v", res.Resized)
			}
		})
	}
}

func TestProcessAlphaProducesWEBP(t *testing.T) {
	res, err := Process(NewSource(transparentImage(300, 120)), testOpts)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.MIME != MIMEWEBP || res.Ext != ".webp" || !res.HasAlpha {
		t.Fatalf("result = %s %s alpha=%v", res.MIME, res.Ext, res.HasAlpha)
	}
	if res.Quality != 80 {
		t.Errorf("Quality = %d, want 80", res.Quality)
	}
	if res.Width != 100 || res.Height != 40 {
		t.Errorf("dimensions = %dx%d, want 100x40", res.Width, res.Height)
	}
	if len(res.Data) < 12 || string(res.Data[0:4]) != "RIFF" || string(res.Data[8:12]) != "WEBP" {
		t.Error("output does not carry a WEBP header")
	}

	src, err := Decode(res.Data, DefaultMaxPixels)
	if err != nil {
		t.Fatalf("WEBP output does not decode: %v", err)
	}
	if src.Image.Bounds().Dx() != 100 {
		t.Errorf("decoded width = %d", src.Image.Bounds().Dx())
	}
}

func TestProcessPaletteWithTransparency(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 20, 20), color.Palette{color.NRGBA{A: 0}, color.NRGBA{R: 255, A: 255}})
	pal.SetColorIndex(5, 5, 1)

	src, err := Decode(pngBytes(t, pal), DefaultMaxPixels)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Process(src, testOpts)
	if err != nil {
		t.Fatal(err)
	}
	if res.MIME != MIMEWEBP {
		t.Errorf("MIME = %s, want %s", res.MIME, MIMEWEBP)
	}
}

func TestProcessRejectsEmptyImage(t *testing.T) {
	if _, err := Process(NewSource(image.NewRGBA(image.Rect(0, 0, 0, 0))), testOpts); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Process(empty) error = %v", err)
	}
}

func TestProcessOpaqueRGBAPNGBecomesWEBP(t *testing.T) {
	src, err := Decode(rgbaPNG(t, 20, 10), DefaultMaxPixels)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Process(src, testOpts)
	if err != nil {
		t.Fatal(err)
	}
	if res.MIME != MIMEWEBP || !res.HasAlpha {
		t.Errorf("result = %s alpha=%v, want %s", res.MIME, res.HasAlpha, MIMEWEBP)
	}
}
