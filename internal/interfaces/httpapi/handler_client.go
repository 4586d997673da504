package httpapi

import (
	"fmt"
	"net/http"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

type confirmPhoneCodeRequest struct {
	Code string `json:"code" validate:"required,numeric"`
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	c, err := h.clientService.GetClient(ctx, principal.ClientID)
	if err != nil {
		h.logger.WarnContext(ctx, "get client failed", "client_id", principal.ClientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clientToDTO(c))
}

func (h *Handler) RequestPhoneCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestPhoneCode")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	if err := h.clientService.RequestPhoneCode(ctx, principal.ClientID); err != nil {
		h.logger.WarnContext(ctx, "request phone code failed", "client_id", principal.ClientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *Handler) ConfirmPhoneCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmPhoneCode")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req confirmPhoneCodeRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.clientService.ConfirmPhoneCode(ctx, principal.ClientID, req.Code); err != nil {
		h.logger.WarnContext(ctx, "confirm phone code failed", "client_id", principal.ClientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "verified"})
}
