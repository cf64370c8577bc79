package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benoitkugler/bitmapfont/config"
	"github.com/benoitkugler/bitmapfont/fonts/bdf"
	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
	"github.com/benoitkugler/bitmapfont/fonts/u8g"
	"github.com/benoitkugler/bitmapfont/specimen"
)

// Artifact is a rendered output file.
type Artifact struct {
	Name string // file name, without directory
	Data []byte
}

var extensions = map[string]string{
	config.BDF:      ".bdf",
	config.Array:    ".c",
	config.Specimen: ".pdf",
}

// formats lists the output formats, in rendering order
var formats = []string{config.BDF, config.Array, config.Specimen}

// Render serializes the font in every requested format,
// each format once. Nothing is written to disk.
func (c *Converter) Render(f *bitmap.Font) ([]Artifact, error) {
	f.ComputeBounds()
	base := f.Name
	if base == "" {
		base = config.Default().Name
	}
	var out []Artifact
	for _, format := range formats {
		if !c.cfg.HasOutput(format) {
			continue
		}
		var buf bytes.Buffer
		switch format {
		case config.BDF:
			if err := bdf.Write(&buf, f); err != nil {
				return nil, err
			}
		case config.Array:
			data, err := u8g.Encode(f)
			if err != nil {
				return nil, err
			}
			if err := u8g.WriteSource(&buf, base, data); err != nil {
				return nil, err
			}
		case config.Specimen:
			if err := specimen.Write(&buf, f); err != nil {
				return nil, fmt.Errorf("rendering specimen: %w", err)
			}
		}
		out = append(out, Artifact{Name: base + extensions[format], Data: buf.Bytes()})
	}
	return out, nil
}

// writeAtomic writes to a temporary file in the same directory,
// renamed to `path` once complete
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fontalize-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after the rename
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Save writes the artifacts in `dir`, and returns their paths.
// If one of them can't be written, the ones already saved are removed.
func (c *Converter) Save(dir string, artifacts []Artifact) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	var paths []string
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Name)
		if err := writeAtomic(path, a.Data); err != nil {
			for _, p := range paths {
				os.Remove(p)
			}
			return nil, fmt.Errorf("saving %s: %w", a.Name, err)
		}
		c.log.WithField("file", path).Info("output written")
		paths = append(paths, path)
	}
	return paths, nil
}

// Run converts the files and saves the outputs in the configured
// directory. Every output is rendered before the first one is written,
// so that a failed conversion leaves no file.
func (c *Converter) Run(ctx context.Context, paths []string, base *bitmap.Font) ([]string, error) {
	f, err := c.Files(ctx, paths, base)
	if err != nil {
		return nil, err
	}
	artifacts, err := c.Render(f)
	if err != nil {
		return nil, err
	}
	return c.Save(c.cfg.OutputDir, artifacts)
}
