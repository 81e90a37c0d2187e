// Package bigchar renders a letter as large block art using half-block
// characters.
package bigchar

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// fontPaths lists system fonts that cover Hebrew, Greek, Coptic and Arabic.
var fontPaths = []string{
	// macOS
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Times New Roman.ttf",
	// Linux
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/freefont/FreeSerif.ttf",
	"/usr/share/fonts/gnu-free/FreeSerif.ttf",
	"/usr/share/fonts/opentype/noto/NotoSans-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansHebrew-Regular.ttf",
	// Windows
	"C:\\Windows\\Fonts\\arial.ttf",
	"C:\\Windows\\Fonts\\times.ttf",
}

var (
	mu    sync.Mutex
	face  font.Face
	tried bool
	cache = make(map[cacheKey]string)
)

type cacheKey struct {
	letter     string
	cols, rows int
}

// LoadFont loads the font at path, replacing any font loaded before. An
// empty path searches the usual system locations.
func LoadFont(path string) error {
	mu.Lock()
	defer mu.Unlock()

	tried = true
	paths := fontPaths
	if path != "" {
		paths = []string{path}
	}
	var lastErr error
	for _, p := range paths {
		f, err := loadFace(p)
		if err != nil {
			lastErr = err
			continue
		}
		face = f
		cache = make(map[cacheKey]string)
		return nil
	}
	return lastErr
}

func loadFace(path string) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts := &opentype.FaceOptions{Size: 64, DPI: 72}

	// Try parsing as font collection first
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			return opentype.NewFace(fnt, opts)
		}
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(fnt, opts)
}

func ensureFace() font.Face {
	mu.Lock()
	needLoad := !tried
	mu.Unlock()
	if needLoad {
		_ = LoadFont("")
	}
	mu.Lock()
	defer mu.Unlock()
	return face
}

// IsAvailable reports whether a usable font was found.
func IsAvailable() bool {
	return ensureFace() != nil
}

// Render returns letter as cols x rows cells of block art, or "" when no
// font is available or the font has no glyph for it.
func Render(letter string, cols, rows int) string {
	f := ensureFace()
	if letter == "" || f == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	key := cacheKey{letter, cols, rows}
	mu.Lock()
	if s, ok := cache[key]; ok {
		mu.Unlock()
		return s
	}
	mu.Unlock()

	img := Rasterize(f, letter)
	out := ""
	if img != nil {
		out = ToHalfBlocks(scaleDown(img, cols, rows*2), cols, rows)
	}

	mu.Lock()
	cache[key] = out
	mu.Unlock()
	return out
}

// Rasterize draws the first rune of letter white on black at the face's
// natural size. It returns nil when the face has no glyph for it.
func Rasterize(f font.Face, letter string) *image.Gray {
	r := []rune(letter)[0]
	bounds, _, ok := f.GlyphBounds(r)
	if !ok {
		return nil
	}
	glyphWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	const padding = 4
	srcWidth := max(glyphWidth+padding*2, 64)
	srcHeight := max(glyphHeight+padding*2, 64)

	img := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	x := (srcWidth-glyphWidth)/2 - bounds.Min.X.Floor()
	y := srcHeight - padding - bounds.Max.Y.Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: f,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(string(r))
	return img
}

// scaleDown scales a grayscale image using area averaging.
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	srcWidth := src.Bounds().Max.X
	srcHeight := src.Bounds().Max.Y
	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for dy := 0; dy < dstHeight; dy++ {
		for dx := 0; dx < dstWidth; dx++ {
			sx1 := int(float64(dx) * xRatio)
			sy1 := int(float64(dy) * yRatio)
			sx2 := min(int(float64(dx+1)*xRatio), srcWidth)
			sy2 := min(int(float64(dy+1)*yRatio), srcHeight)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}
	return dst
}

// threshold is the brightness above which a half cell is drawn.
const threshold = 40

// ToHalfBlocks converts a grayscale image of cols x rows*2 pixels into
// rows lines of ▀ ▄ █ and spaces.
func ToHalfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := brightness(img, col, row*2) > threshold
			bottom := brightness(img, col, row*2+1) > threshold
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
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}
