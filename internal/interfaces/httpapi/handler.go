package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

type Handler struct {
	clientService     *usecase.ClientService
	rosterService     *usecase.RosterService
	feeService        *usecase.FeeService
	paymentService    *usecase.PaymentService
	reconcileService  *usecase.ReconcileService
	auditService      *usecase.AuditService
	resolutionService *usecase.ResolutionService
	adminService      *usecase.AdminService
	catalogService    *usecase.CatalogService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	clientService *usecase.ClientService,
	rosterService *usecase.RosterService,
	feeService *usecase.FeeService,
	paymentService *usecase.PaymentService,
	reconcileService *usecase.ReconcileService,
	auditService *usecase.AuditService,
	resolutionService *usecase.ResolutionService,
	adminService *usecase.AdminService,
	catalogService *usecase.CatalogService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		clientService:     clientService,
		rosterService:     rosterService,
		feeService:        feeService,
		paymentService:    paymentService,
		reconcileService:  reconcileService,
		auditService:      auditService,
		resolutionService: resolutionService,
		adminService:      adminService,
		catalogService:    catalogService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(r *http.Request, into any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(into); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// parseDate accepts an empty string as a zero time; the completion
// audit reports the gap later instead of blocking the write.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, raw)
	}
	return parsed, nil
}
