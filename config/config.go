// Package config loads the conversion settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
	"github.com/benoitkugler/bitmapfont/fonts/simpleencodings"
	"github.com/benoitkugler/bitmapfont/raster"
	"gopkg.in/yaml.v2"
)

// Output formats
const (
	BDF      = "bdf"
	Array    = "array"
	Specimen = "specimen"
)

// Config stores the settings of one conversion.
// Zero width and height mean the cell is given by the largest image.
type Config struct {
	Name  string `yaml:"name"`
	Start int    `yaml:"start"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	AlphaMin   int    `yaml:"alpha_min"`
	Background string `yaml:"background"` // "#rrggbb", optional
	Binarize   bool   `yaml:"binarize"`
	Threshold  int    `yaml:"threshold"`
	Scale      bool   `yaml:"scale"` // fit images to the cell

	Encoding string   `yaml:"encoding"`
	Outputs  []string `yaml:"outputs"`
	// OutputDir defaults to the working directory.
	OutputDir string `yaml:"output_dir"`
	Workers   int    `yaml:"workers"`

	PointSize  int `yaml:"point_size"` // defaults to the cell height
	Resolution int `yaml:"resolution"`

	// Properties are added to the BDF header.
	Properties map[string]string `yaml:"properties"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Name:       "Untitled",
		AlphaMin:   255,
		Threshold:  128,
		Encoding:   "iso-8859-1",
		Outputs:    []string{BDF},
		Resolution: bitmap.DefaultResolution,
	}
}

// Load reads the file at `path`, over the default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s out of range: %d (expected %d..%d)", field, v, lo, hi)
	}
	return nil
}

// Validate checks the ranges and names of the settings.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		checkRange("start", c.Start, 0, bitmap.MaxGlyphs-1),
		checkRange("width", c.Width, 0, bitmap.MaxWidth),
		checkRange("height", c.Height, 0, 255),
		checkRange("alpha_min", c.AlphaMin, 0, 255),
		checkRange("threshold", c.Threshold, 0, 255),
		checkRange("workers", c.Workers, 0, 1024),
		checkRange("point_size", c.PointSize, 0, 1000),
		checkRange("resolution", c.Resolution, 1, 10000),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Background != "" {
		if _, err := raster.ParseColor(c.Background); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if _, err := simpleencodings.ByName(c.Encoding); err != nil {
		errs = append(errs, err.Error())
	}
	if len(c.Outputs) == 0 {
		errs = append(errs, "no output format")
	}
	for _, o := range c.Outputs {
		switch o {
		case BDF, Array, Specimen:
		default:
			errs = append(errs, fmt.Sprintf("unknown output format %q", o))
		}
	}
	if len(errs) != 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

// HasOutput returns true if `format` is requested.
func (c Config) HasOutput(format string) bool {
	for _, o := range c.Outputs {
		if o == format {
			return true
		}
	}
	return false
}

// RasterOptions returns the extraction options.
// The configuration is expected to be valid.
func (c Config) RasterOptions() raster.Options {
	opts := raster.Options{
		AlphaMin:  uint8(c.AlphaMin),
		Binarize:  c.Binarize,
		Threshold: uint8(c.Threshold),
	}
	if c.Background != "" {
		bg, _ := raster.ParseColor(c.Background)
		opts.Background = &bg
	}
	return opts
}
