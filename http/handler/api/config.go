package api

import (
	"net/http"

	cfgstore "github.com/buildlens/core/config/store"
	"github.com/buildlens/core/http/api"

	"github.com/labstack/echo/v4"
)

// The ConfigHandler type provides handler functions for reading the current config.
type ConfigHandler struct {
	store cfgstore.Store
}

// NewConfig return a new Config type. You have to provide a valid config store.
func NewConfig(store cfgstore.Store) *ConfigHandler {
	return &ConfigHandler{
		store: store,
	}
}

// Get returns the currently active configuration
// @Summary Retrieve the currently active configuration
// @Description Retrieve the currently active configuration. Secrets are disguised.
// @ID config-1-get
// @Produce json
// @Success 200 {object} api.Config
// @Router /api/v1/config [get]
func (p *ConfigHandler) Get(c echo.Context) error {
	cfg := p.store.GetActive()
	if cfg == nil {
		return api.Err(http.StatusNotFound, "No active configuration")
	}

	apicfg := api.Config{}
	apicfg.Unmarshal(cfg)

	return c.JSON(http.StatusOK, apicfg)
}
