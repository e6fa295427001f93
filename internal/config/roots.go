package config

import (
	"fmt"
	"io"
	"os"

	"github.com/parent-node-finder/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// LoadRootProfiles reads the YAML root profiles file. A missing file yields
// an empty set.
func LoadRootProfiles(filePath string) (*models.RootProfiles, error) {
	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return &models.RootProfiles{Profiles: []models.RootProfile{}}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseRootProfiles(file)
}

// ParseRootProfiles parses profiles from an io.Reader.
func ParseRootProfiles(r io.Reader) (*models.RootProfiles, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	profiles := &models.RootProfiles{}
	if err := yaml.Unmarshal(data, profiles); err != nil {
		return nil, fmt.Errorf("parsing root profiles: %w", err)
	}
	if profiles.Profiles == nil {
		profiles.Profiles = []models.RootProfile{}
	}

	seen := make(map[string]struct{}, len(profiles.Profiles))
	for i, p := range profiles.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("root profile %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("duplicate root profile: %s", p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	return profiles, nil
}
