// This tool converts images into a bitmap font: every color
// of every image becomes one glyph.
//
// Usage:
//
//	fontalize [flags] image1.png image2.png ...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/benoitkugler/bitmapfont/config"
	"github.com/benoitkugler/bitmapfont/convert"
	"github.com/benoitkugler/bitmapfont/fonts/bdf"
	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
	"github.com/benoitkugler/bitmapfont/fonts/simpleencodings"
	"github.com/benoitkugler/bitmapfont/preview"
)

func check(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal error:", err)
		os.Exit(1)
	}
}

type flags struct {
	config string
	base   string
	sample string

	start, width, height int
	alpha, threshold     int
	background           string
	binarize, scale      bool
	encoding             string
	bdf, array, specimen bool
	name, dir            string
	workers              int
	verbose              bool
}

func parseFlags() flags {
	var fl flags
	flag.StringVar(&fl.config, "config", "", "YAML configuration file")
	flag.StringVar(&fl.base, "base", "", "existing .bdf font to extend")
	flag.StringVar(&fl.sample, "preview", "", "print a sample text with the font")

	flag.IntVar(&fl.start, "start", 0, "code of the first glyph")
	flag.IntVar(&fl.width, "w", 0, "cell width (default: largest image)")
	flag.IntVar(&fl.height, "h", 0, "cell height (default: largest image)")
	flag.IntVar(&fl.alpha, "alpha", 255, "minimum alpha of the pixels")
	flag.IntVar(&fl.threshold, "threshold", 128, "gray level threshold used by -binarize")
	flag.StringVar(&fl.background, "bg", "", "background color to ignore (#rrggbb)")
	flag.BoolVar(&fl.binarize, "binarize", false, "convert images to black and white first")
	flag.BoolVar(&fl.scale, "scale", false, "scale images to the cell")
	flag.StringVar(&fl.encoding, "encoding", "iso-8859-1", "character set used for glyph names")

	flag.BoolVar(&fl.bdf, "bdf", false, "write a .bdf font")
	flag.BoolVar(&fl.array, "array", false, "write a C byte array (u8glib format)")
	flag.BoolVar(&fl.specimen, "specimen", false, "write a PDF specimen")
	flag.StringVar(&fl.name, "o", "Untitled", "font name, also used for the output files")
	flag.StringVar(&fl.dir, "dir", "", "output directory")
	flag.IntVar(&fl.workers, "workers", 0, "images processed in parallel (default: number of CPUs)")
	flag.BoolVar(&fl.verbose, "v", false, "verbose logging")
	flag.Parse()
	return fl
}

// apply overrides the configuration with the flags explicitly set
func (fl flags) apply(cfg *config.Config) {
	var outputs []string
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start":
			cfg.Start = fl.start
		case "w":
			cfg.Width = fl.width
		case "h":
			cfg.Height = fl.height
		case "alpha":
			cfg.AlphaMin = fl.alpha
		case "threshold":
			cfg.Threshold = fl.threshold
		case "bg":
			cfg.Background = fl.background
		case "binarize":
			cfg.Binarize = fl.binarize
		case "scale":
			cfg.Scale = fl.scale
		case "encoding":
			cfg.Encoding = fl.encoding
		case "o":
			cfg.Name = fl.name
		case "dir":
			cfg.OutputDir = fl.dir
		case "workers":
			cfg.Workers = fl.workers
		case "bdf":
			if fl.bdf {
				outputs = append(outputs, config.BDF)
			}
		case "array":
			if fl.array {
				outputs = append(outputs, config.Array)
			}
		case "specimen":
			if fl.specimen {
				outputs = append(outputs, config.Specimen)
			}
		}
	})
	if len(outputs) != 0 {
		cfg.Outputs = outputs
	}
}

func loadBase(path string) (*bitmap.Font, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return bdf.Read(f)
}

func main() {
	fl := parseFlags()
	log := newLogger(fl.verbose)
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if fl.config != "" {
		var err error
		cfg, err = config.Load(fl.config)
		check(err)
	}
	fl.apply(&cfg)

	conv, err := convert.New(cfg, log)
	check(err)

	var base *bitmap.Font
	if fl.base != "" {
		base, err = loadBase(fl.base)
		check(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	font, err := conv.Files(ctx, flag.Args(), base)
	check(err)
	artifacts, err := conv.Render(font)
	check(err)
	written, err := conv.Save(cfg.OutputDir, artifacts)
	check(err)
	for _, path := range written {
		fmt.Println(path)
	}

	if fl.sample != "" {
		enc, err := simpleencodings.ByName(cfg.Encoding)
		check(err)
		fmt.Print(preview.Text(preview.NewFace(font, enc), fl.sample))
	}
}
