package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type ProductsHandler struct {
	Catalog Catalog
}

type stockReq struct {
	Size  string `json:"size"`
	Count *int   `json:"count"`
}

// Register returns the product routes. Reads are public; writes need auth
// and the seller role.
func (h *ProductsHandler) Register(auth func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/{id}/stock", h.stock)

		r.Group(func(r chi.Router) {
			r.Use(auth, RequireSeller)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
			r.Put("/{id}/stock", h.setStock)
		})
	}
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.ListProducts(r.Context(), queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) stock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	levels, err := h.Catalog.Stock(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Catalog.CreateProduct(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch catalog.ProductPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.Catalog.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResp{Success: ok})
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.Catalog.DeleteProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResp{Success: ok})
}

func (h *ProductsHandler) setStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req stockReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	size, ok := catalog.ParseSize(req.Size)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid size. Must be S, M, or L")
		return
	}
	if req.Count == nil {
		writeError(w, r, apperr.New(apperr.CodeInvalidInput, "Stock count is required"))
		return
	}
	updated, err := h.Catalog.SetStock(r.Context(), id, size, *req.Count)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResp{Success: updated})
}
