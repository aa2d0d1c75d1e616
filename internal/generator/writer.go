package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/profilecsv"
)

// WriteDataset writes profiles to path, as JSON when the extension is .json
// and as profile CSV otherwise. Parent directories are created.
func WriteDataset(profiles []domain.Profile, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = profilecsv.WriteJSON(file, profiles)
	} else {
		err = profilecsv.Write(file, profiles)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
