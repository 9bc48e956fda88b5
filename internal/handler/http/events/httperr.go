package events

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/handler/http/respond"
)

// detailEnvelope is the query API's single error shape (§7): every
// internal error maps to one HTTP status and a {detail} body.
type detailEnvelope struct {
	Detail string `json:"detail"`
}

// writeDetailError writes {detail} at the given status, sanitizing the
// message via respond.SanitizeError for any 5xx, under the "detail" key
// the query API's wire contract specifies (§7).
func writeDetailError(w http.ResponseWriter, code int, err error) {
	msg := err.Error()
	if code >= 500 {
		slog.Default().Error("query api internal error", slog.Int("code", code), slog.Any("error", respond.SanitizeError(err)))
		msg = "internal server error"
	}
	respond.JSON(w, code, detailEnvelope{Detail: msg})
}

// writeError maps the domain error taxonomy (§7) to the query API's
// {detail} envelope and matching HTTP status.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		writeDetailError(w, http.StatusNotFound, err)
	case errors.Is(err, entity.ErrBadRequest):
		writeDetailError(w, http.StatusBadRequest, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, entity.ErrTimeout):
		writeDetailError(w, http.StatusGatewayTimeout, err)
	default:
		writeDetailError(w, http.StatusInternalServerError, err)
	}
}
