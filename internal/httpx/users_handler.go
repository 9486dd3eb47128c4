package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-shop-orders/internal/users"
)

type UsersHandler struct {
	Accounts Accounts
}

type registerReq struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     users.Role `json:"role,omitempty"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UsersHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.Accounts.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Tokens are stateless; the client drops its copy.
func (h *UsersHandler) logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *UsersHandler) profile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Accounts.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
