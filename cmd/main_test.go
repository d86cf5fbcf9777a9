package main

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imgconv/converter"
)

func writeSource(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		img.SetNRGBA(i%w, i/w, color.NRGBA{uint8(i), 80, 160, 255})
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.png", 30, 20)
	b := writeSource(t, dir, "b.png", 15, 20)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		output  string
	}{
		{
			name:    "missing destination",
			args:    []string{a},
			wantErr: converter.ErrUsage,
		},
		{
			name:    "quality with pdf",
			args:    []string{"--quality", "80", a, filepath.Join(dir, "q.pdf")},
			wantErr: converter.ErrUsage,
		},
		{
			name:    "several sources to an image",
			args:    []string{a, b, filepath.Join(dir, "many.png")},
			wantErr: converter.ErrUsage,
		},
		{
			name:    "option after the file names",
			args:    []string{a, b, filepath.Join(dir, "late.pdf"), "--grayscale"},
			wantErr: converter.ErrUsage,
			output:  filepath.Join(dir, "late.pdf"),
		},
		{
			name:    "missing source",
			args:    []string{filepath.Join(dir, "nope.png"), filepath.Join(dir, "nope.pdf")},
			wantErr: converter.ErrDecode,
		},
		{
			name:   "pdf with filters",
			args:   []string{"--adjust-widths", "--grayscale", "--title", "scans", a, b, filepath.Join(dir, "out.pdf")},
			output: filepath.Join(dir, "out.pdf"),
		},
		{
			name:   "single image with quality",
			args:   []string{"--quality", "60", "--grayscale", a, filepath.Join(dir, "out.jpg")},
			output: filepath.Join(dir, "out.jpg"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newApp().Run(append([]string{"imgconv"}, tt.args...))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if tt.output != "" {
					if _, err := os.Stat(tt.output); !os.IsNotExist(err) {
						t.Errorf("expected no %s, stat err = %v", tt.output, err)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if info, err := os.Stat(tt.output); err != nil || info.Size() == 0 {
				t.Errorf("expected a non-empty %s, stat err = %v", tt.output, err)
			}
		})
	}
}
