package main

import (
	"strings"
	"testing"
	"time"

	"github.com/benoitkugler/bitmapfont/config"
	"github.com/sirupsen/logrus"
)

func TestLogFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Level:   logrus.WarnLevel,
		Time:    time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC),
		Message: "glyph dropped",
		Data:    logrus.Fields{"index": 256, "file": "a.png"},
	}
	b, err := (&LogFormatter{}).Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	expected := "WARNING\t2021-03-04T05:06:07.000\tinternal\tglyph dropped\tfile=a.png\tindex=256\n"
	if string(b) != expected {
		t.Errorf("expected %q, got %q", expected, string(b))
	}
}

func TestApplyDefaults(t *testing.T) {
	// no flag set: the configuration is untouched
	cfg := config.Default()
	cfg.Start = 32
	flags{start: 0, name: "Untitled"}.apply(&cfg)
	if cfg.Start != 32 || !strings.EqualFold(cfg.Outputs[0], config.BDF) {
		t.Errorf("unexpected config %+v", cfg)
	}
}
