package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

type decidePaymentRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type deactivateClientRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type reactivateClientResponse struct {
	Reactivated bool           `json:"reactivated"`
	Report      auditReportDTO `json:"report"`
}

func (h *Handler) ListPendingPayments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingPayments")
	defer span.End()

	payments, err := h.reconcileService.ListPending(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list pending payments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]paymentDTO, 0, len(payments))
	for _, p := range payments {
		items = append(items, paymentToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	h.decidePayment(w, r, true)
}

func (h *Handler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	h.decidePayment(w, r, false)
}

func (h *Handler) decidePayment(w http.ResponseWriter, r *http.Request, approve bool) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.decidePayment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req decidePaymentRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	paymentID := r.PathValue("paymentID")
	p, err := h.reconcileService.Decide(ctx, usecase.DecideInput{
		PaymentID: paymentID,
		AdminID:   principal.ClientID,
		Approve:   approve,
		Note:      req.Note,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "decide payment failed", "payment_id", paymentID, "approve", approve, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, paymentToDTO(p))
}

func (h *Handler) ViewReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ViewReceipt")
	defer span.End()

	paymentID := r.PathValue("paymentID")
	rc, contentType, err := h.paymentService.OpenReceipt(ctx, paymentID)
	if err != nil {
		h.logger.WarnContext(ctx, "open receipt failed", "payment_id", paymentID, "error", err)
		writeError(ctx, w, err)
		return
	}
	defer func() {
		_ = rc.Close()
	}()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

func (h *Handler) ListTeamAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamAuditLog")
	defer span.End()

	teamID := r.PathValue("teamID")
	entries, err := h.reconcileService.TeamHistory(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list team audit log failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]auditEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, auditEntryToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DeactivateClient(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivateClient")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req deactivateClientRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	clientID := r.PathValue("clientID")
	if err := h.adminService.DeactivateClient(ctx, clientID, principal.ClientID, req.Reason); err != nil {
		h.logger.WarnContext(ctx, "deactivate client failed", "client_id", clientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *Handler) ReactivateClient(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReactivateClient")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	clientID := r.PathValue("clientID")
	report, err := h.adminService.ReactivateClient(ctx, clientID, principal.ClientID)
	if err != nil {
		h.logger.WarnContext(ctx, "reactivate client failed", "client_id", clientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reactivateClientResponse{
		Reactivated: report.Complete(),
		Report:      auditReportToDTO(report),
	})
}
