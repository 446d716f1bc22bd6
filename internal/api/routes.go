package api

import (
	"github.com/go-chi/chi"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Post("/v1/withdraw-requests", registerHandler(handlers.CreateWithdrawRequest))
	r.Get("/v1/withdraw-requests", registerHandler(handlers.GetWithdrawRequest))
	r.Post("/v1/withdraw-requests/settlement", registerHandler(handlers.AttachSettlementTransaction))
}
