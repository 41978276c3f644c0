// Package handler exposes the appointment detail view over HTTP.
package handler

import (
	"github.com/shashank35i/DentraOS-sub001/internal/agentstatus"
	"github.com/shashank35i/DentraOS-sub001/internal/appointments"
	apphttp "github.com/shashank35i/DentraOS-sub001/internal/http"
	"github.com/shashank35i/DentraOS-sub001/platform/httpkit"
	"github.com/shashank35i/DentraOS-sub001/platform/logger"

	"github.com/gin-gonic/gin"
)

// Gateway is everything the appointment endpoints need from the core API.
type Gateway interface {
	appointments.Gateway
	agentstatus.Fetcher
}

// Handler handles HTTP requests for the appointment detail view.
type Handler struct {
	gateway Gateway
	log     *logger.Logger
}

// New creates a new appointments handler.
func New(gateway Gateway, log *logger.Logger) *Handler {
	return &Handler{gateway: gateway, log: log}
}

// Name returns the module name for logging.
func (h *Handler) Name() string { return "appointments" }

// RegisterRoutes registers the module's routes under /api/v1/appointments.
func (h *Handler) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.Protected.Group("/appointments")
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/agent-status", h.GetAgentStatus)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/cancel", h.Cancel)
}

// detailResponse is the combined detail view payload.
type detailResponse struct {
	Item        *appointments.Record `json:"item"`
	AgentStatus agentstatus.Snapshot `json:"agentStatus"`
	CanMutate   bool                 `json:"canMutate"`
}

// newController builds a per-request detail controller. The web views hold
// no server-side state between requests, so polling beyond the first fetch
// is left to the client; Close cancels anything the controller armed.
func (h *Handler) newController() *appointments.Controller {
	poller := agentstatus.NewPoller(agentstatus.PollerConfig{
		Fetcher: h.gateway,
		Logger:  h.log,
	})
	return appointments.NewController(h.gateway, poller)
}

// GetByID handles GET /api/v1/appointments/:id.
func (h *Handler) GetByID(c *gin.Context) {
	controller := h.newController()
	defer controller.Close()

	record, err := controller.Load(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, detailResponse{
		Item:        record,
		AgentStatus: controller.AgentStatus(),
		CanMutate:   controller.CanMutate(),
	})
}

// GetAgentStatus handles GET /api/v1/appointments/:id/agent-status.
// Read-through: every call hits the core API, nothing is cached here.
func (h *Handler) GetAgentStatus(c *gin.Context) {
	event, err := h.gateway.FetchLatestAgentEvent(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"latest": event})
}

// Complete handles POST /api/v1/appointments/:id/complete.
func (h *Handler) Complete(c *gin.Context) {
	h.mutate(c, func(controller *appointments.Controller) error {
		return controller.Complete(c.Request.Context())
	})
}

// Cancel handles POST /api/v1/appointments/:id/cancel.
func (h *Handler) Cancel(c *gin.Context) {
	h.mutate(c, func(controller *appointments.Controller) error {
		return controller.Cancel(c.Request.Context())
	})
}

func (h *Handler) mutate(c *gin.Context, transition func(*appointments.Controller) error) {
	controller := h.newController()
	defer controller.Close()

	if _, err := controller.Load(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	if err := transition(controller); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, detailResponse{
		Item:        controller.Current(),
		AgentStatus: controller.AgentStatus(),
		CanMutate:   controller.CanMutate(),
	})
}

// Compile-time check that Handler implements http.Module.
var _ apphttp.Module = (*Handler)(nil)
