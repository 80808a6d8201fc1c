package imaging

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	PreviewWidth = 800
	FrameMargin  = 48
	jpegQuality  = 85
)

// Renderer derives cached preview and framed variants from original assets.
// Output paths are deterministic per photo id, so first-use races are
// harmless: both writers produce the same file and the rename is atomic.
type Renderer struct {
	previewDir    string
	frameDir      string
	watermarkText string
}

func NewRenderer(previewDir, frameDir, watermarkText string) (*Renderer, error) {
	for _, dir := range []string{previewDir, frameDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
		}
	}
	return &Renderer{
		previewDir:    previewDir,
		frameDir:      frameDir,
		watermarkText: watermarkText,
	}, nil
}

func (r *Renderer) PreviewPath(photoID uint) string {
	return filepath.Join(r.previewDir, fmt.Sprintf("%d.jpg", photoID))
}

func (r *Renderer) FramePath(photoID uint) string {
	return filepath.Join(r.frameDir, fmt.Sprintf("%d.jpg", photoID))
}

// EnsurePreview renders the downsized, watermarked preview on first request
// and returns the cached path afterwards without touching the original.
func (r *Renderer) EnsurePreview(photoID uint, open func() (io.ReadCloser, error)) (string, error) {
	path := r.PreviewPath(photoID)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	src, err := open()
	if err != nil {
		return "", fmt.Errorf("failed to open original: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode original: %w", err)
	}

	resized := imaging.Resize(img, PreviewWidth, 0, imaging.Lanczos)
	stamped := r.stampWatermark(resized)

	if err := saveAtomic(stamped, path); err != nil {
		return "", err
	}
	return path, nil
}

// EnsureFrame renders the decorative framed variant bundled with downloads.
func (r *Renderer) EnsureFrame(photoID uint, open func() (io.ReadCloser, error)) (string, error) {
	path := r.FramePath(photoID)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	src, err := open()
	if err != nil {
		return "", fmt.Errorf("failed to open original: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode original: %w", err)
	}

	framed := addFrame(img)

	if err := saveAtomic(framed, path); err != nil {
		return "", err
	}
	return path, nil
}

// stampWatermark tiles semi-transparent studio text across the image.
func (r *Renderer) stampWatermark(img image.Image) *image.NRGBA {
	stamped := imaging.Clone(img)
	bounds := stamped.Bounds()

	drawer := &font.Drawer{
		Dst:  stamped,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 90}),
		Face: basicfont.Face7x13,
	}

	stepX := drawer.MeasureString(r.watermarkText).Ceil() + 60
	if stepX < 120 {
		stepX = 120
	}

	row := 0
	for y := 40; y < bounds.Dy(); y += 70 {
		// Stagger alternate rows so crops can't dodge the mark.
		offset := 0
		if row%2 == 1 {
			offset = stepX / 2
		}
		for x := -offset; x < bounds.Dx(); x += stepX {
			drawer.Dot = fixed.P(x, y)
			drawer.DrawString(r.watermarkText)
		}
		row++
	}

	return stamped
}

func addFrame(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	framed := imaging.New(bounds.Dx()+2*FrameMargin, bounds.Dy()+2*FrameMargin, color.NRGBA{R: 250, G: 248, B: 243, A: 255})
	return imaging.Paste(framed, img, image.Pt(FrameMargin, FrameMargin))
}

// saveAtomic writes to a temp file then renames, so concurrent first-use
// renders end with a complete file either way.
func saveAtomic(img image.Image, path string) error {
	tmp := fmt.Sprintf("%s.%d.tmp.jpg", path, os.Getpid())
	if err := imaging.Save(img, tmp, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to save derived image: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move derived image into place: %w", err)
	}
	return nil
}
