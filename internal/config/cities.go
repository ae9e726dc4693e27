package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// City describes one municipal open-data feed
type City struct {
	Name   string `yaml:"name"`
	APIURL string `yaml:"api_url"`
	Active bool   `yaml:"active"`
}

// CityRegistry is the set of configured cities, loaded once at startup
type CityRegistry struct {
	Cities []City `yaml:"cities"`
}

// LoadCities reads the city registry from a YAML file
func LoadCities(path string) (*CityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read city registry %s: %w", path, err)
	}

	var registry CityRegistry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse city registry %s: %w", path, err)
	}

	if len(registry.Cities) == 0 {
		return nil, fmt.Errorf("city registry %s contains no cities", path)
	}

	return &registry, nil
}

// ActiveCities returns only the cities with the active flag set
func (r *CityRegistry) ActiveCities() []City {
	var active []City
	for _, c := range r.Cities {
		if c.Active {
			active = append(active, c)
		}
	}
	return active
}
