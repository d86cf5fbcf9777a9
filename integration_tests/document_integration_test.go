package tests

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"imgconv/contracts"
	"imgconv/converter"
)

func TestMain(m *testing.M) {
	// keep pdfcpu from creating a config directory in $HOME
	model.ConfigPath = "disable"
	os.Exit(m.Run())
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 200, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func TestAdjustedGrayscaleDocument(t *testing.T) {
	dir := t.TempDir()
	sizes := [][2]int{{300, 200}, {400, 266}, {500, 333}}
	var sources []string
	for i, s := range sizes {
		path := filepath.Join(dir, []string{"one.jpg", "two.jpg", "three.jpg"}[i])
		writeJPEG(t, path, s[0], s[1])
		sources = append(sources, path)
	}

	outFile := filepath.Join(dir, "document.pdf")
	filters := []contracts.Filter{converter.WidthAdjuster(converter.DefaultResample), converter.ToGrayscale}
	if err := converter.ImagesToDocument(sources, outFile, filters, nil); err != nil {
		t.Fatalf("ImagesToDocument failed: %v", err)
	}

	if err := api.ValidateFile(outFile, nil); err != nil {
		t.Fatalf("pdfcpu validation failed: %v", err)
	}

	pageCount, err := api.PageCountFile(outFile)
	if err != nil {
		t.Fatalf("Failed to count pages: %v", err)
	}
	if pageCount != 3 {
		t.Fatalf("Expected 3 pages, got %d", pageCount)
	}

	dims, err := api.PageDimsFile(outFile)
	if err != nil {
		t.Fatalf("Failed to read page dimensions: %v", err)
	}
	for i, dim := range dims {
		if dim.Width != 300 {
			t.Errorf("Page %d: width %.2f, want 300", i+1, dim.Width)
		}
		if dim.Height < 199 || dim.Height > 201 {
			t.Errorf("Page %d: height %.2f, want about 200", i+1, dim.Height)
		}
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", outFile, err)
	}
	if n := strings.Count(string(data), "/ColorSpace /DeviceGray"); n != 3 {
		t.Errorf("Expected 3 single-channel pages, got %d", n)
	}
	if strings.Contains(string(data), "/DeviceRGB") {
		t.Error("Found an RGB page in a grayscale document")
	}
}

func TestDocumentKeepsSourceOrder(t *testing.T) {
	dir := t.TempDir()
	var sources []string
	for _, s := range []struct {
		name string
		w, h int
	}{{"c.jpg", 50, 10}, {"a.jpg", 50, 20}, {"b.jpg", 50, 30}} {
		path := filepath.Join(dir, s.name)
		writeJPEG(t, path, s.w, s.h)
		sources = append(sources, path)
	}

	outFile := filepath.Join(dir, "ordered.pdf")
	if err := converter.ImagesToDocument(sources, outFile, nil, contracts.EncoderOptions{"resolution": 144}); err != nil {
		t.Fatalf("ImagesToDocument failed: %v", err)
	}

	dims, err := api.PageDimsFile(outFile)
	if err != nil {
		t.Fatalf("Failed to read page dimensions: %v", err)
	}
	if len(dims) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(dims))
	}
	for i, want := range []float64{5, 10, 15} {
		if dims[i].Width != 25 || dims[i].Height != want {
			t.Errorf("Page %d: %.2fx%.2f, want 25x%.0f", i+1, dims[i].Width, dims[i].Height, want)
		}
	}
}
