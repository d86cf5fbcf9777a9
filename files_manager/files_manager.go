package files_manager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	HEIFExtensions     = []string{".heic", ".heif"}
	DocumentExtensions = []string{".pdf"}
	ImageExtensions    = append([]string{
		".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp", ".webp",
	}, HEIFExtensions...)
)

// HasExtension reports whether name ends with any of exts, ignoring case.
// exts are expected to be lowercase.
func HasExtension(name string, exts []string) bool {
	name = strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func IsHEIF(name string) bool {
	return HasExtension(name, HEIFExtensions)
}

func IsDocument(name string) bool {
	return HasExtension(name, DocumentExtensions)
}

// GetImagePaths lists the image files directly inside dir, in name order.
func GetImagePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "._") {
			continue
		}
		if HasExtension(entry.Name(), ImageExtensions) {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	return images, nil
}

// ExpandSources replaces every directory in paths with the images it
// contains. Other paths are kept as given.
func ExpandSources(paths []string) ([]string, error) {
	sources := make([]string, 0, len(paths))
	for _, path := range paths {
		stat, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", path, err)
		}
		if !stat.IsDir() {
			sources = append(sources, path)
			continue
		}
		images, err := GetImagePaths(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		if len(images) == 0 {
			return nil, fmt.Errorf("no image files found in %s", path)
		}
		sources = append(sources, images...)
	}
	return sources, nil
}
