// Package handler exposes the staff directory over HTTP.
package handler

import (
	"net/http"

	apphttp "github.com/shashank35i/DentraOS-sub001/internal/http"
	"github.com/shashank35i/DentraOS-sub001/internal/staffdirectory"
	"github.com/shashank35i/DentraOS-sub001/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the staff directory.
type Handler struct {
	svc *staffdirectory.Service
}

// New creates a new staff directory handler.
func New(svc *staffdirectory.Service) *Handler {
	return &Handler{svc: svc}
}

// Name returns the module name for logging.
func (h *Handler) Name() string { return "staffdirectory" }

// RegisterRoutes registers the module's routes under /api/v1/staff.
func (h *Handler) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.Protected.Group("/staff")
	rg.GET("", h.List)
	rg.POST("", httpkit.RequireRole(string(staffdirectory.RoleAdmin)), h.Create)
}

// List handles GET /api/v1/staff. Role queries that fail upstream degrade
// to an empty contribution, so this endpoint always answers with a roster.
func (h *Handler) List(c *gin.Context) {
	roster := h.svc.LoadDirectory(c.Request.Context())
	httpkit.OK(c, gin.H{"items": roster})
}

// Create handles POST /api/v1/staff.
func (h *Handler) Create(c *gin.Context) {
	var req staffdirectory.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	entry, err := h.svc.CreateStaff(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, entry)
}

// Compile-time check that Handler implements http.Module.
var _ apphttp.Module = (*Handler)(nil)
