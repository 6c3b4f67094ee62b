package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImageFile represents a source image found on disk.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Base is the file name without its extension.
	Base string
}

// SupportedExtensions lists the lower-case file extensions treated as images.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListImageFiles lists the image files directly inside a directory.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: The image files sorted by path. Subdirectories are skipped.
// - error: Error if the directory cannot be read.
func ListImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []ImageFile
	for _, file := range files {
		if file.IsDir() || !IsImageFile(file.Name()) {
			continue
		}

		name := file.Name()
		images = append(images, ImageFile{
			Path: filepath.Join(dir, name),
			Base: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Path < images[j].Path
	})

	return images, nil
}
