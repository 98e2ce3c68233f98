package api

import (
	"net/http"
	"time"

	"github.com/buildlens/core/app"
	"github.com/buildlens/core/http/api"

	"github.com/labstack/echo/v4"
)

type AboutConfig struct {
	Name      string
	ID        string
	CreatedAt time.Time

	// Storage is the type of the filesystem with the build results.
	Storage string
}

// The AboutHandler type provides handler functions for retrieving details
// about the API version and build infos.
type AboutHandler struct {
	config AboutConfig
}

// NewAbout returns a new About type
func NewAbout(config AboutConfig) *AboutHandler {
	return &AboutHandler{
		config: config,
	}
}

// About returns API version and build infos
// @Summary API version and build infos
// @Description API version and build infos
// @ID about
// @Produce json
// @Success 200 {object} api.About
// @Router /api [get]
func (p *AboutHandler) About(c echo.Context) error {
	createdAt := p.config.CreatedAt

	about := api.About{
		App:       app.Name,
		Name:      p.config.Name,
		ID:        p.config.ID,
		CreatedAt: createdAt.Format(time.RFC3339),
		Uptime:    uint64(time.Since(createdAt).Seconds()),
		Storage:   p.config.Storage,
		Version: api.AboutVersion{
			Number:   app.Version.String(),
			Commit:   app.Commit,
			Branch:   app.Branch,
			Build:    app.Build,
			Arch:     app.Arch,
			Compiler: app.Compiler,
		},
	}

	return c.JSON(http.StatusOK, about)
}
