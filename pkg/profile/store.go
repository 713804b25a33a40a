package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the profile store inside the config directory
const FileName = "profiles.yaml"

// storeFile is the on-disk layout of the profile store
type storeFile struct {
	Profiles []PrinterProfile `yaml:"profiles"`
}

// DefaultPath returns the per-user location of the profile store
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "printtracker", FileName), nil
}

// Load reads user profiles from a YAML file. A missing file yields no
// profiles. The reference profile is never read from disk.
func Load(path string) ([]PrinterProfile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var file storeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateAll(file.Profiles); err != nil {
		return nil, fmt.Errorf("invalid profiles file %s: %w", path, err)
	}
	return file.Profiles, nil
}

func validateAll(profiles []PrinterProfile) error {
	seen := make(map[uuid.UUID]bool, len(profiles))
	for i, p := range profiles {
		if p.ID == uuid.Nil {
			return fmt.Errorf("profile %d (%q): id must be set and must not be the reference id", i, p.Name)
		}
		if seen[p.ID] {
			return fmt.Errorf("profile %d (%q): duplicate id %s", i, p.Name, p.ID)
		}
		seen[p.ID] = true
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Save writes profiles to a YAML file, creating its directory if needed.
// The reference profile is skipped.
func Save(path string, profiles []PrinterProfile) error {
	file := storeFile{Profiles: make([]PrinterProfile, 0, len(profiles))}
	for _, p := range profiles {
		if p.IsReference() {
			continue
		}
		file.Profiles = append(file.Profiles, p)
	}

	data, err := Marshal(file.Profiles)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profiles file: %w", err)
	}
	return nil
}

// Marshal renders profiles in the store format
func Marshal(profiles []PrinterProfile) ([]byte, error) {
	data, err := yaml.Marshal(storeFile{Profiles: profiles})
	if err != nil {
		return nil, fmt.Errorf("failed to encode profiles: %w", err)
	}
	return data, nil
}

// LoadRegistry creates a registry holding the reference profile plus every
// profile stored at path.
func LoadRegistry(path string) (*Registry, error) {
	profiles, err := Load(path)
	if err != nil {
		return nil, err
	}

	r := NewRegistry()
	for _, p := range profiles {
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SaveRegistry persists every user profile held by r
func SaveRegistry(path string, r *Registry) error {
	return Save(path, r.Custom())
}
