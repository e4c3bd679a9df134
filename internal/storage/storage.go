package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/model"
)

const (
	dirName          = ".jbstime"
	holidaysFileName = "holidays.yaml"
)

// BaseDir returns the per-user state directory (~/.jbstime).
func BaseDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// holidaysFilePath returns the path of the holiday cache under base.
func holidaysFilePath(base string) string {
	return filepath.Join(base, holidaysFileName)
}

// LoadHolidays reads the holiday cache. A missing file yields an empty set.
// A file that is not valid YAML is moved aside and reported as an error.
func LoadHolidays(base string) (model.Holidays, error) {
	path := holidaysFilePath(base)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Holidays{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, backupCorrupt(path, err)
	}

	holidays := make(model.Holidays, len(raw))
	for k, name := range raw {
		d, err := dates.ParseKey(k)
		if err != nil {
			return nil, backupCorrupt(path, fmt.Errorf("bad date %q: %w", k, err))
		}
		holidays[d] = name
	}
	return holidays, nil
}

// backupCorrupt renames a corrupt file so the next save starts fresh.
func backupCorrupt(path string, cause error) error {
	backupPath := path + ".corrupt"
	_ = os.Rename(path, backupPath)
	return fmt.Errorf("corrupt YAML in %s (backed up to %s): %w", path, backupPath, cause)
}

// SaveHolidays atomically writes the holiday cache.
func SaveHolidays(base string, holidays model.Holidays) error {
	path := holidaysFilePath(base)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	raw := make(map[string]string, len(holidays))
	for d, name := range holidays {
		raw[dates.FormatKey(d)] = name
	}

	// yaml.v3 sorts map keys, so the file stays stable between runs.
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("storage error marshalling YAML: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// HolidayFile is the file-backed holiday cache rooted at Base.
type HolidayFile struct {
	Base string
}

func (f HolidayFile) Load() (model.Holidays, error) { return LoadHolidays(f.Base) }

func (f HolidayFile) Save(h model.Holidays) error { return SaveHolidays(f.Base, h) }
