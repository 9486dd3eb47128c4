package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/ariefcatur/go-shop-orders/internal/orders"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	Orders  OrderService
	Catalog Catalog
}

type CreateOrderItem struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderReq struct {
	Items []CreateOrderItem `json:"items"`
}

type successResp struct {
	Success bool `json:"success"`
}

// Register expects the auth middleware to run first.
func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/", h.createOrder)
	r.Get("/user", h.userOrders)
	r.With(RequireSeller).Get("/pending", h.pendingOrders)
	r.Get("/{id}", h.getOrder)
	r.Put("/{id}/cancel", h.cancelOrder)
	r.With(RequireSeller).Put("/{id}/complete", h.completeOrder)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	var req CreateOrderReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Items) == 0 {
		writeMessage(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := h.priceItems(ctx, req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.Orders.CreateOrder(ctx, actor.UserID, items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// priceItems attaches the current catalog price to each requested line.
// Size falls back to M when omitted.
func (h *OrdersHandler) priceItems(ctx context.Context, in []CreateOrderItem) ([]orders.ItemRequest, error) {
	out := make([]orders.ItemRequest, 0, len(in))
	for _, it := range in {
		size := catalog.SizeM
		if it.Size != "" {
			s, ok := catalog.ParseSize(it.Size)
			if !ok {
				return nil, apperr.New(apperr.CodeInvalidInput, "Invalid size. Must be S, M, or L")
			}
			size = s
		}
		req := orders.ItemRequest{ProductID: it.ProductID, Size: size, Quantity: it.Quantity}
		if it.ProductID > 0 && it.Quantity > 0 {
			p, err := h.Catalog.GetProduct(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			req.UnitPrice = p.Price
		}
		out = append(out, req)
	}
	return out, nil
}

func (h *OrdersHandler) userOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	list, err := h.Orders.GetUserOrders(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) pendingOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.GetPendingOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.Orders.GetOrderByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if actor, _ := ActorFrom(r.Context()); !actor.IsSeller() && d.Order.UserID != actor.UserID {
		writeMessage(w, http.StatusForbidden, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *OrdersHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	actor, _ := ActorFrom(r.Context())
	ok, err := h.Orders.CancelOrder(r.Context(), id, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResp{Success: ok})
}

func (h *OrdersHandler) completeOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.Orders.CompleteOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResp{Success: ok})
}
