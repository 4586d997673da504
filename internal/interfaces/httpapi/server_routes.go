package httpapi

import (
	"net/http"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/session"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/provinces", handler.ListProvinces)
	mux.HandleFunc("GET /v1/provinces/{provinceID}/cities", handler.ListCities)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler, sessions session.Store) {
	full := func(h http.HandlerFunc) http.Handler {
		return RequireSession(sessions, RequireFullAccess(h))
	}
	restricted := func(h http.HandlerFunc) http.Handler {
		return RequireSession(sessions, h)
	}

	// The resolution form and logout stay reachable on a restricted
	// session; everything else needs full access.
	mux.Handle("GET /v1/resolution", restricted(handler.GetProblems))
	mux.Handle("POST /v1/resolution", restricted(handler.SubmitFixes))
	mux.Handle("POST /v1/logout", restricted(handler.Logout))

	mux.Handle("GET /v1/me", full(handler.GetMe))
	mux.Handle("POST /v1/me/phone/code", full(handler.RequestPhoneCode))
	mux.Handle("POST /v1/me/phone/confirm", full(handler.ConfirmPhoneCode))

	mux.Handle("POST /v1/teams", full(handler.CreateTeam))
	mux.Handle("GET /v1/teams", full(handler.ListMyTeams))
	mux.Handle("GET /v1/teams/{teamID}", full(handler.GetTeam))
	mux.Handle("PUT /v1/teams/{teamID}/leagues", full(handler.SelectLeagues))
	mux.Handle("DELETE /v1/teams/{teamID}", full(handler.WithdrawTeam))
	mux.Handle("POST /v1/teams/{teamID}/members", full(handler.AddMember))
	mux.Handle("PUT /v1/teams/{teamID}/members/{memberID}", full(handler.UpdateMember))
	mux.Handle("DELETE /v1/teams/{teamID}/members/{memberID}", full(handler.WithdrawMember))

	mux.Handle("GET /v1/teams/{teamID}/fee-quote", full(handler.FeeQuote))
	mux.Handle("POST /v1/teams/{teamID}/payments", full(handler.SubmitPayment))
	mux.Handle("GET /v1/payments", full(handler.ListMyPayments))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, sessions session.Store) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireSession(sessions, RequireAdmin(h))
	}

	mux.Handle("GET /v1/admin/payments", admin(handler.ListPendingPayments))
	mux.Handle("POST /v1/admin/payments/{paymentID}/approve", admin(handler.ApprovePayment))
	mux.Handle("POST /v1/admin/payments/{paymentID}/reject", admin(handler.RejectPayment))
	mux.Handle("GET /v1/admin/payments/{paymentID}/receipt", admin(handler.ViewReceipt))
	mux.Handle("GET /v1/admin/teams/{teamID}/audit-log", admin(handler.ListTeamAuditLog))
	mux.Handle("POST /v1/admin/clients/{clientID}/deactivate", admin(handler.DeactivateClient))
	mux.Handle("POST /v1/admin/clients/{clientID}/reactivate", admin(handler.ReactivateClient))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalAPIToken string) {
	mux.Handle("POST /v1/internal/clients", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.ProvisionClient)))
	mux.Handle("POST /v1/internal/sessions", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.EstablishSession)))
}
