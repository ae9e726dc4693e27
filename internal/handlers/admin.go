package handlers

import (
	"log"
	"net/http"

	"github.com/airvigil/airvigil/internal/api"
	"github.com/airvigil/airvigil/internal/database"
	"github.com/airvigil/airvigil/internal/middleware"
	"gorm.io/gorm"
)

// AdminHandler manages service credentials: listing and revocation.
// Mounted behind the dashboard admin JWT.
type AdminHandler struct {
	db         *gorm.DB
	apiKeyAuth *middleware.APIKeyMiddleware
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, apiKeyAuth *middleware.APIKeyMiddleware) *AdminHandler {
	return &AdminHandler{db: db, apiKeyAuth: apiKeyAuth}
}

// SetupRoutes sets up admin routes
func (h *AdminHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/admin/clients", h.handleListClients)
	mux.HandleFunc("/admin/clients/deactivate", h.handleDeactivateClient)
}

// clientView exposes credential metadata without the key material.
type clientView struct {
	ServiceName string `json:"service_name"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

// handleListClients handles GET /admin/clients
func (h *AdminHandler) handleListClients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var clients []database.APIClient
	if err := h.db.Order("service_name asc").Find(&clients).Error; err != nil {
		log.Printf("AdminHandler: client listing failed: %v", err)
		api.RespondErrorWithCode(w, http.StatusInternalServerError, "storage_error", "Failed to list clients")
		return
	}

	views := make([]clientView, 0, len(clients))
	for _, c := range clients {
		views = append(views, clientView{
			ServiceName: c.ServiceName,
			IsActive:    c.IsActive,
			CreatedAt:   c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	api.RespondJSON(w, http.StatusOK, map[string]interface{}{"clients": views})
}

// DeactivateClientRequest is the request body for POST /admin/clients/deactivate.
type DeactivateClientRequest struct {
	ServiceName string `json:"service_name" validate:"required"`
}

// handleDeactivateClient handles POST /admin/clients/deactivate. The row is
// deactivated, never deleted, and the auth middleware reloads so the
// revocation takes effect immediately.
func (h *AdminHandler) handleDeactivateClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req DeactivateClientRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondErrorWithCode(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}

	if err := database.DeactivateClient(h.db, req.ServiceName); err != nil {
		log.Printf("AdminHandler: deactivating client %q failed: %v", req.ServiceName, err)
		api.RespondErrorWithCode(w, http.StatusInternalServerError, "storage_error", "Failed to deactivate client")
		return
	}

	if err := h.apiKeyAuth.LoadClientsFromDB(); err != nil {
		log.Printf("AdminHandler: credential reload after revocation failed: %v", err)
	}

	admin := middleware.GetUserFromContext(r.Context())
	log.Printf("AdminHandler: client %q deactivated by %q", req.ServiceName, admin)

	api.RespondJSON(w, http.StatusOK, map[string]string{
		"status":       "deactivated",
		"service_name": req.ServiceName,
	})
}
