package handler

import (
	"net/http"

	mw "github.com/itchan-dev/modcore/backend/internal/middleware"
	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/utils"
)

type meResponse struct {
	Username string `json:"username"`
	Role     int    `json:"role"`
	RoleName string `json:"role_name"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := utils.DecodeValidate(r.Body, &creds); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	sessionID, ok, err := h.auth.Login(r.Context(), mw.GetRequestContext(r), creds)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if !ok {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, h.sessionCookie(sessionID, maxAge(h.cfg.Public.SessionTTL)))

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("You logged in"))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), mw.GetRequestContext(r), mw.GetSessionID(r)); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	http.SetCookie(w, h.sessionCookie("", -1))

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	rc := mw.GetRequestContext(r)
	utils.WriteJSON(w, http.StatusOK, meResponse{
		Username: rc.Username,
		Role:     rc.Role,
		RoleName: domain.RoleName(rc.Role),
	})
}
