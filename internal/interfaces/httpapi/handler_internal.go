package httpapi

import (
	"net/http"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

type provisionClientRequest struct {
	FullName string `json:"full_name" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email"`
}

type establishSessionRequest struct {
	ClientID string `json:"client_id" validate:"required"`
}

// ProvisionClient is called by the identity collaborator after it
// authenticates a new user, creating the local registration record.
func (h *Handler) ProvisionClient(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProvisionClient")
	defer span.End()

	var req provisionClientRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	c, err := h.clientService.RegisterClient(ctx, usecase.RegisterClientInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "provision client failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, clientToDTO(c))
}

// EstablishSession runs the login-time completion audit and issues
// either a full or a restricted resolution session.
func (h *Handler) EstablishSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EstablishSession")
	defer span.End()

	var req establishSessionRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.resolutionService.EstablishSession(ctx, req.ClientID)
	if err != nil {
		h.logger.WarnContext(ctx, "establish session failed", "client_id", req.ClientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, loginResultToDTO(result))
}
