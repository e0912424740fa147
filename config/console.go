package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend services the console talks to. Each may live on its own base URL.
const (
	ServiceAuth       = "auth"
	ServicePatients   = "patients"
	ServiceStudents   = "students"
	ServiceTeachers   = "teachers"
	ServiceSchools    = "schools"
	ServiceScreenings = "screenings"
	ServiceMasterData = "master-data"
	ServiceHospitals  = "hospitals"
	ServiceAdmin      = "admin"
	ServiceDashboard  = "dashboard"
)

var AllServices = []string{
	ServiceAuth, ServicePatients, ServiceStudents, ServiceTeachers, ServiceSchools,
	ServiceScreenings, ServiceMasterData, ServiceHospitals, ServiceAdmin, ServiceDashboard,
}

// ConsoleConfig is read from console.yaml:
//
//	base_url: http://localhost:8080
//	timeout_seconds: 15
//	services:
//	  master-data: http://localhost:8014
type ConsoleConfig struct {
	BaseURL        string            `yaml:"base_url"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Services       map[string]string `yaml:"services"`
}

// LoadConsole reads path (a missing file is not an error) and applies
// EVEP_BASE_URL and EVEP_<SERVICE>_URL overrides.
func LoadConsole(path string) (*ConsoleConfig, error) {
	cfg := &ConsoleConfig{BaseURL: "http://localhost:8080", TimeoutSeconds: 15}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read console config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse console config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("EVEP_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if cfg.Services == nil {
		cfg.Services = map[string]string{}
	}
	for _, svc := range AllServices {
		key := "EVEP_" + strings.ToUpper(strings.ReplaceAll(svc, "-", "_")) + "_URL"
		if v := os.Getenv(key); v != "" {
			cfg.Services[svc] = v
		}
	}
	for svc := range cfg.Services {
		if !knownService(svc) {
			return nil, fmt.Errorf("console config: unknown service %q", svc)
		}
	}
	return cfg, nil
}

// URL returns the base URL for service, falling back to BaseURL.
func (c *ConsoleConfig) URL(service string) string {
	if v := c.Services[service]; v != "" {
		return strings.TrimRight(v, "/")
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func knownService(s string) bool {
	for _, v := range AllServices {
		if v == s {
			return true
		}
	}
	return false
}
