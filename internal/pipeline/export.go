package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"heightfield/internal/demio"
	"heightfield/internal/render"
)

// Export writes every name in cfg.Exports into dir and returns the written
// paths. Images use cfg.Format at ExportWidth x ExportHeight, except the
// stream map which stays at grid resolution.
func (p *Pipeline) Export(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	format, err := render.ParseFormat(p.cfg.Format)
	if err != nil {
		return nil, err
	}
	var written []string
	for _, name := range p.cfg.Exports {
		path, err := p.exportOne(ctx, dir, name, format)
		if err != nil {
			return written, fmt.Errorf("export %s: %w", name, err)
		}
		written = append(written, path)
		p.logger.Printf("wrote %s", path)
	}
	return written, nil
}

func (p *Pipeline) exportOne(ctx context.Context, dir, name string, format render.Format) (string, error) {
	w, h := p.cfg.ExportWidth, p.cfg.ExportHeight
	g := p.grid

	switch name {
	case ExportText:
		path := filepath.Join(dir, "elevation.txt")
		return path, demio.Save(path, g)
	case ExportPoints:
		path := filepath.Join(dir, "points.txt")
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if err := demio.WritePoints(f, g, w, h); err != nil {
			f.Close()
			return "", err
		}
		return path, f.Close()
	}

	var (
		img image.Image
		err error
	)
	switch name {
	case ExportElevation:
		img, err = gray(render.Elevation(ctx, g, w, h))
	case ExportGradient:
		var gx, gy render.Field
		if gx, gy, err = render.Gradient(ctx, g, w, h); err == nil {
			img = render.GradientImage(gx, gy)
		}
	case ExportLaplacian:
		img, err = gray(render.Laplacian(ctx, g, w, h))
	case ExportSlope:
		img, err = gray(render.Slope(ctx, g, w, h))
	case ExportAverageSlope:
		img, err = gray(render.AverageSlope(ctx, g, w, h))
	case ExportNormal:
		img, err = render.NormalImage(ctx, g, w, h)
	case ExportShading:
		var f render.Field
		if f, err = render.Shading(ctx, g, w, h, p.light()); err == nil {
			img = render.ShadingImage(f)
		}
	case ExportGlobal:
		img, err = gray(render.GlobalShading(ctx, g, w, h, p.cfg.ShadingSamples, p.cfg.Seed))
	case ExportStream:
		img = render.StreamImage(p.area)
	default:
		return "", fmt.Errorf("unknown export %q", name)
	}
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+"."+string(format))
	return path, render.WriteImage(path, img)
}

func gray(f render.Field, err error) (image.Image, error) {
	if err != nil {
		return nil, err
	}
	return render.Gray(f), nil
}
