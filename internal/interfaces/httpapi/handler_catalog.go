package httpapi

import "net/http"

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.catalogService.ListLeagues(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListProvinces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListProvinces")
	defer span.End()

	provinces, err := h.catalogService.ListProvinces(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list provinces failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]provinceDTO, 0, len(provinces))
	for _, p := range provinces {
		items = append(items, provinceToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCities")
	defer span.End()

	provinceID := r.PathValue("provinceID")
	cities, err := h.catalogService.ListCities(ctx, provinceID)
	if err != nil {
		h.logger.WarnContext(ctx, "list cities failed", "province_id", provinceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]cityDTO, 0, len(cities))
	for _, c := range cities {
		items = append(items, cityToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
