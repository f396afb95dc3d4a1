package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/milk9111/truckrun/prefabs"
)

const defaultAutopilot = prefabs.AutopilotScript

// loadSpecs resolves the level and vehicle from --config, --vehicle-config
// and --variant. Without explicit files the prefabs are used.
func loadSpecs() (*prefabs.LevelSpec, *prefabs.VehicleSpec, error) {
	level, err := loadLevel()
	if err != nil {
		return nil, nil, err
	}
	vehicle, err := loadVehicle()
	if err != nil {
		return nil, nil, err
	}
	return level, vehicle, nil
}

func loadLevel() (*prefabs.LevelSpec, error) {
	if flagConfig == "" {
		return prefabs.LoadLevelSpec()
	}
	spec, err := prefabs.LoadFile[prefabs.LevelSpec](flagConfig)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", flagConfig, err)
	}
	return &spec, nil
}

func loadVehicle() (*prefabs.VehicleSpec, error) {
	if flagVehicleConfig == "" {
		return prefabs.LoadVehicleSpec(flagVariant)
	}
	spec, err := prefabs.LoadFile[prefabs.VehicleSpec](flagVehicleConfig)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", flagVehicleConfig, err)
	}
	return &spec, nil
}

// loadAutopilot reads a script from an explicit path, falling back to the
// prefab scripts. An empty name disables the autopilot.
func loadAutopilot(name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	data, err := os.ReadFile(name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("autopilot: read %s: %w", name, err)
	}
	data, err = prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("autopilot: load %s: %w", name, err)
	}
	return data, nil
}

// watchPaths lists the directories that hold the active tuning files.
func watchPaths() []string {
	seen := map[string]bool{}
	var paths []string
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return
		}
		seen[dir] = true
		paths = append(paths, dir)
	}

	add("prefabs")
	add(filepath.Join("prefabs", "scripts"))
	if flagConfig != "" {
		add(filepath.Dir(flagConfig))
	}
	if flagVehicleConfig != "" {
		add(filepath.Dir(flagVehicleConfig))
	}
	if _, err := os.Stat(flagAutopilot); flagAutopilot != "" && err == nil {
		add(filepath.Dir(flagAutopilot))
	}
	return paths
}
