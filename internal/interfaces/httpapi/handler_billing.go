package httpapi

import (
	"fmt"
	"net/http"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

// receiptFormLimit bounds the whole multipart form held in memory.
const receiptFormLimit = 8 << 20

func (h *Handler) FeeQuote(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FeeQuote")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	quote, err := h.feeService.QuoteTeam(ctx, principal.ClientID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "fee quote failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, quoteToDTO(quote))
}

func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPayment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	if err := r.ParseMultipartForm(receiptFormLimit); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid multipart form: %v", usecase.ErrInvalidInput, err))
		return
	}
	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: receipt file is required", usecase.ErrInvalidInput))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	teamID := r.PathValue("teamID")
	p, err := h.paymentService.SubmitReceipt(ctx, usecase.SubmitReceiptInput{
		ClientID:    principal.ClientID,
		TeamID:      teamID,
		Receipt:     file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit payment failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, paymentToDTO(p))
}

func (h *Handler) ListMyPayments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPayments")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	payments, err := h.paymentService.ListClientPayments(ctx, principal.ClientID)
	if err != nil {
		h.logger.WarnContext(ctx, "list payments failed", "client_id", principal.ClientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]paymentDTO, 0, len(payments))
	for _, p := range payments {
		items = append(items, paymentToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
