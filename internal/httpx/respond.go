package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var statusByCode = map[apperr.Code]int{
	apperr.CodeInvalidInput:      http.StatusBadRequest,
	apperr.CodeInsufficientStock: http.StatusBadRequest,
	apperr.CodeInvalidTransition: http.StatusBadRequest,
	apperr.CodeUnauthorized:      http.StatusUnauthorized,
	apperr.CodeForbidden:         http.StatusForbidden,
	apperr.CodeNotFound:          http.StatusNotFound,
	apperr.CodeConflict:          http.StatusConflict,
}

type message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, message{Message: msg})
}

// writeError maps the error taxonomy to a status. Anything outside it is a
// 500 with a generic body; the cause is only logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, ok := statusByCode[apperr.CodeOf(err)]
	if !ok {
		code = http.StatusInternalServerError
		slog.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeMessage(w, code, apperr.Message(err))
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.CodeInvalidInput, "Request body is required")
		}
		return apperr.Wrap(apperr.CodeInvalidInput, "Invalid JSON body", err)
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.CodeInvalidInput, "Invalid %s", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
