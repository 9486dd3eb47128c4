package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	Carts Carts
}

type addItemReq struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandler) Register(r chi.Router) {
	r.Post("/add", h.add)
	r.Delete("/remove/{itemId}", h.remove)
	r.Get("/", h.items)
	r.Delete("/clear", h.clear)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	var req addItemReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.Carts.Add(r.Context(), actor.UserID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	productID, err := idParam(r, "itemId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.Carts.Remove(r.Context(), actor.UserID, productID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Item removed from cart")
}

func (h *CartHandler) items(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	items, err := h.Carts.Items(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if _, err := h.Carts.Clear(r.Context(), actor.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Cart cleared successfully")
}
