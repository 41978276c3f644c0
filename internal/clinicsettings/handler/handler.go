// Package handler exposes the clinic settings session over HTTP.
package handler

import (
	"net/http"

	"github.com/shashank35i/DentraOS-sub001/internal/clinicsettings"
	apphttp "github.com/shashank35i/DentraOS-sub001/internal/http"
	"github.com/shashank35i/DentraOS-sub001/platform/config"
	"github.com/shashank35i/DentraOS-sub001/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for clinic settings.
type Handler struct {
	gateway clinicsettings.Gateway
	cfg     config.SettingsConfig
}

// New creates a new clinic settings handler.
func New(gateway clinicsettings.Gateway, cfg config.SettingsConfig) *Handler {
	return &Handler{gateway: gateway, cfg: cfg}
}

// Name returns the module name for logging.
func (h *Handler) Name() string { return "clinicsettings" }

// RegisterRoutes registers the module's routes under /api/v1/clinic-setup.
func (h *Handler) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.Protected.Group("/clinic-setup")
	rg.GET("", h.Get)
	rg.PUT("", h.Save)
}

func (h *Handler) newSession() *clinicsettings.Session {
	return clinicsettings.NewSession(clinicsettings.SessionConfig{
		Gateway:    h.gateway,
		OutcomeTTL: h.cfg.GetOutcomeMessageTTL(),
	})
}

// Get handles GET /api/v1/clinic-setup. It returns the normalized record's
// editable projection, whatever naming convention the stored wire record
// used.
func (h *Handler) Get(c *gin.Context) {
	session := h.newSession()
	if err := session.Load(c.Request.Context()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{
		"phase":   session.Phase(),
		"buffers": session.Buffers(),
	})
}

// Save handles PUT /api/v1/clinic-setup. The body carries the edited
// buffers; validation failures abort before the core API is called.
func (h *Handler) Save(c *gin.Context) {
	var buffers clinicsettings.Buffers
	if err := c.ShouldBindJSON(&buffers); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	session := h.newSession()
	session.SetBuffers(buffers)
	if err := session.Save(c.Request.Context()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": session.Outcome()})
}

// Compile-time check that Handler implements http.Module.
var _ apphttp.Module = (*Handler)(nil)
