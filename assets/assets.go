// Package assets implements the asset resolver collaborator contract
// over a local directory, plus image probing and loading helpers for
// executors.
//
// The resolver confirms asset existence during validation; the loader
// decodes referenced images into compositor buffers at playback setup.
// PNG, JPEG, GIF, WebP and BMP sources are recognized.
package assets

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/lumakit/luma/composite"
	"github.com/lumakit/luma/ir"
	"github.com/lumakit/luma/validate"
)

// LocalResolver resolves asset keys against a base directory.
type LocalResolver struct {
	base string
}

// NewLocalResolver builds a resolver rooted at the given directory.
func NewLocalResolver(base string) *LocalResolver {
	return &LocalResolver{base: base}
}

// CanResolve implements validate.AssetResolver.
func (r *LocalResolver) CanResolve(key string) bool {
	_, err := os.Stat(filepath.Join(r.base, filepath.FromSlash(key)))
	return err == nil
}

// Resolve implements validate.AssetResolver.
func (r *LocalResolver) Resolve(key string) (string, error) {
	p := filepath.Join(r.base, filepath.FromSlash(key))
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("assets: cannot resolve %q: %w", key, err)
	}
	return p, nil
}

var _ validate.AssetResolver = (*LocalResolver)(nil)

// Probe reads only the image header and returns format and dimensions
// without decoding pixel data.
func Probe(path string) (format string, width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, 0, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", 0, 0, fmt.Errorf("assets: probe %q: %w", path, err)
	}
	return format, cfg.Width, cfg.Height, nil
}

// Load decodes an image file into a premultiplied compositor buffer.
func Load(path string) (*composite.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %q: %w", path, err)
	}
	return composite.FromImage(img), nil
}

// LoadScaled decodes an image file and scales it to the given size
// with Catmull-Rom resampling. Used when bound user content does not
// match the binding layer's declared dimensions.
func LoadScaled(path string, width, height int) (*composite.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %q: %w", path, err)
	}
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		return composite.FromImage(img), nil
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)
	return composite.FromImage(scaled), nil
}

// LoadAll resolves and decodes every image asset of an animation,
// returning buffers keyed by asset id. Assets with declared dimensions
// are scaled to match.
func LoadAll(anim *ir.Animation, resolver *LocalResolver) (map[ir.AssetID]*composite.Buffer, error) {
	out := make(map[ir.AssetID]*composite.Buffer, len(anim.Assets))
	for id, info := range anim.Assets {
		path, err := resolver.Resolve(info.Path)
		if err != nil {
			return nil, err
		}
		var buf *composite.Buffer
		if info.Width > 0 && info.Height > 0 {
			buf, err = LoadScaled(path, info.Width, info.Height)
		} else {
			buf, err = Load(path)
		}
		if err != nil {
			return nil, err
		}
		out[id] = buf
	}
	return out, nil
}
