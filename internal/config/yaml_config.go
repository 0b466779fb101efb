package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the dashboard.yaml file.
// Column roles are lists that are easier to manage in YAML than env vars.
type YAMLConfig struct {
	Columns ColumnsConfig `yaml:"columns"`
}

// ColumnsConfig maps worksheet columns to the roles the dashboard needs.
// Candidate lists are tried in order; the first column present wins.
type ColumnsConfig struct {
	Deadline    []string `yaml:"deadline"`     // days remaining
	RequestDate []string `yaml:"request_date"` // shown as the latest request
	Filters     []string `yaml:"filters"`      // equality filter controls
	Critical    []string `yaml:"critical"`     // columns of the critical items table
	Campaign    string   `yaml:"campaign"`
	ID          string   `yaml:"id"`
	Status      string   `yaml:"status"`
	Label       string   `yaml:"label"` // derived deadline label column
}

// DefaultColumns returns the column roles of the campaign worksheet.
func DefaultColumns() ColumnsConfig {
	return ColumnsConfig{
		Deadline:    []string{"Prazo", "Prazo (dias)", "Prazo em dias", "Dias Restantes", "Deadline"},
		RequestDate: []string{"Data Solicitação", "Data", "Data de Solicitação", "Criado em"},
		Filters:     []string{"Status", "Prioridade", "Produção"},
		Critical:    []string{"ID", "Campanha", "Status"},
		Campaign:    "Campanha",
		ID:          "ID",
		Status:      "Status",
		Label:       "Deadline Status",
	}
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "dashboard.yaml".
// A missing file yields the defaults.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLFile(getEnv("CONFIG_FILE", "dashboard.yaml"))
}

// LoadYAMLFile loads path, filling unset roles with the defaults.
func LoadYAMLFile(path string) (*YAMLConfig, error) {
	cfg := &YAMLConfig{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, goerr.Wrap(err, "reading config file", goerr.V("path", path))
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, goerr.Wrap(err, "parsing config file", goerr.V("path", path))
		}
	}

	cfg.Columns.applyDefaults()
	return cfg, nil
}

func (c *ColumnsConfig) applyDefaults() {
	d := DefaultColumns()
	if len(c.Deadline) == 0 {
		c.Deadline = d.Deadline
	}
	if len(c.RequestDate) == 0 {
		c.RequestDate = d.RequestDate
	}
	if c.Filters == nil {
		c.Filters = d.Filters
	}
	if len(c.Critical) == 0 {
		c.Critical = d.Critical
	}
	if c.Campaign == "" {
		c.Campaign = d.Campaign
	}
	if c.ID == "" {
		c.ID = d.ID
	}
	if c.Status == "" {
		c.Status = d.Status
	}
	if c.Label == "" {
		c.Label = d.Label
	}
}
