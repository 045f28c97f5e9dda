package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrInvalidImage is returned when an upload is not a base64 data URI.
var ErrInvalidImage = errors.New("expected a data:image/...;base64,... payload")

// Root returns the directory decoded images are stored under.
func Root() string {
	root := os.Getenv("MEDIA_ROOT")
	if root == "" {
		root = "./media"
	}
	return root
}

// IsDataURI reports whether s looks like an inline base64 image payload.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image")
}

// SaveBase64Image decodes a "data:image/<ext>;base64,<payload>" string and
// writes it under MEDIA_ROOT/recipes/images. The filename is an xxHash of
// the decoded content, so re-uploading the same image reuses the same file.
// Returns the path relative to MEDIA_ROOT.
func SaveBase64Image(dataURI string) (string, error) {
	if !IsDataURI(dataURI) {
		return "", ErrInvalidImage
	}

	meta, payload, found := strings.Cut(dataURI, ";base64,")
	if !found || payload == "" {
		return "", ErrInvalidImage
	}

	// meta is "data:image/<ext>"
	ext := meta[strings.LastIndex(meta, "/")+1:]
	if ext == "" {
		return "", ErrInvalidImage
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}

	name := fmt.Sprintf("%016x.%s", xxhash.Sum64(raw), ext)
	rel := filepath.Join("recipes", "images", name)
	full := filepath.Join(Root(), rel)

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, raw, 0644); err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// URL returns the absolute URL a stored image is served from.
func URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	domain := os.Getenv("DOMAIN")
	if domain == "" {
		domain = "http://localhost:8080"
	}
	return strings.TrimSuffix(domain, "/") + "/media/" + relPath
}
