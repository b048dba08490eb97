package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-sync-go/internal/domain/sidebar"
	"github.com/cmlabs-hris/hris-sync-go/internal/handler/http/response"
)

type AuthHandler interface {
	// Login signs the staff member in against the remote backend
	Login(w http.ResponseWriter, r *http.Request)
	// Logout tears down the session and resets the sidebar
	Logout(w http.ResponseWriter, r *http.Request)
	// Session returns the signed-in identity
	Session(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	sessions       session.Service
	sidebarService sidebar.Service
}

func NewAuthHandler(sessions session.Service, sidebarService sidebar.Service) AuthHandler {
	return &authHandlerImpl{sessions: sessions, sidebarService: sidebarService}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(w, "Email and password are required")
		return
	}

	info, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Badges come up with the session instead of waiting for the next
	// periodic tick
	h.sidebarService.Refresh(r.Context())

	response.SuccessWithMessage(w, "Signed in", info)
}

// Logout handles POST /auth/logout
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut()
	h.sidebarService.Reset()
	response.SuccessWithMessage(w, "Signed out", nil)
}

// Session handles GET /auth/session
func (h *authHandlerImpl) Session(w http.ResponseWriter, r *http.Request) {
	info, ok := h.sessions.Current()
	if !ok {
		response.HandleError(w, session.ErrNotSignedIn)
		return
	}
	response.Success(w, info)
}
