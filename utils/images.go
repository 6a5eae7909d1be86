package utils

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var ErrBadImage = errors.New("invalid image data")

// SaveBase64Image decodes a data-URI image ("data:image/png;base64,...."
// or a bare base64 string), writes it under dir with a generated name
// and drops a 300px thumbnail next to it. Returns the relative path of
// the stored original.
func SaveBase64Image(data, dir string) (string, error) {
	ext := ".png"
	if strings.HasPrefix(data, "data:") {
		parts := strings.SplitN(data, ",", 2)
		if len(parts) != 2 {
			return "", ErrBadImage
		}
		if strings.Contains(parts[0], "image/jpeg") {
			ext = ".jpg"
		}
		data = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", ErrBadImage
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}

	// Thumbnail failures are not fatal, the original is already stored.
	if img, err := imaging.Open(path); err == nil {
		thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
		_ = imaging.Save(thumb, filepath.Join(dir, "thumb_"+name))
	}

	return path, nil
}
