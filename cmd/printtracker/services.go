package main

import (
	"fmt"

	"github.com/philipparndt/printtracker/pkg/analysis"
	"github.com/philipparndt/printtracker/pkg/cache"
	"github.com/philipparndt/printtracker/pkg/formats"
	"github.com/philipparndt/printtracker/pkg/profile"
)

// services bundles the long lived components shared by the commands
type services struct {
	profilePath string
	profiles    *profile.Registry
	models      *cache.PrintModelCache
	analyzer    *analysis.Analyzer
	formats     *formats.Registry
}

func loadServices() (*services, error) {
	path := profilesPath
	if path == "" {
		p, err := profile.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	registry, err := profile.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load printer profiles: %w", err)
	}

	models := cache.New(nil)
	return &services{
		profilePath: path,
		profiles:    registry,
		models:      models,
		analyzer:    analysis.New(models, registry),
		formats:     formats.Default(),
	}, nil
}

// selectedProfile resolves the --profile flag
func (s *services) selectedProfile() (profile.PrinterProfile, error) {
	return s.profiles.Lookup(profileRef)
}

func (s *services) saveProfiles() error {
	return profile.SaveRegistry(s.profilePath, s.profiles)
}
