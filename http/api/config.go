package api

import (
	"time"

	"github.com/buildlens/core/config"
)

// ConfigVariable is a single configuration value. Secrets are disguised.
type ConfigVariable struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	EnvName     string `json:"env_name,omitempty"`
	Description string `json:"description,omitempty"`
	Merged      bool   `json:"merged"`
}

// Config is the currently active configuration
type Config struct {
	CreatedAt time.Time        `json:"created_at"`
	LoadedAt  time.Time        `json:"loaded_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Overrides []string         `json:"overrides"`
	Config    []ConfigVariable `json:"config"`
}

func (c *Config) Unmarshal(cfg *config.Config) {
	if cfg == nil {
		return
	}

	c.CreatedAt = cfg.CreatedAt
	c.LoadedAt = cfg.LoadedAt
	c.UpdatedAt = cfg.UpdatedAt
	c.Overrides = cfg.Overrides()
	c.Config = []ConfigVariable{}

	for _, v := range cfg.Vars() {
		c.Config = append(c.Config, ConfigVariable{
			Name:        v.Name,
			Value:       v.Value,
			EnvName:     v.EnvName,
			Description: v.Description,
			Merged:      v.Merged,
		})
	}
}
