package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/sidebar"
	"github.com/cmlabs-hris/hris-sync-go/internal/handler/http/response"
)

type SidebarHandler interface {
	// GetCounts returns the current badge snapshot
	GetCounts(w http.ResponseWriter, r *http.Request)
	// Refresh forces a full count refresh now
	Refresh(w http.ResponseWriter, r *http.Request)
}

type sidebarHandlerImpl struct {
	sidebarService sidebar.Service
}

func NewSidebarHandler(sidebarService sidebar.Service) SidebarHandler {
	return &sidebarHandlerImpl{sidebarService: sidebarService}
}

// GetCounts handles GET /sidebar/counts
func (h *sidebarHandlerImpl) GetCounts(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.sidebarService.Snapshot())
}

// Refresh handles POST /sidebar/refresh
func (h *sidebarHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	h.sidebarService.Refresh(r.Context())
	response.Success(w, h.sidebarService.Snapshot())
}
