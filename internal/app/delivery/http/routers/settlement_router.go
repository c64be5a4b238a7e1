package routers

import (
	"settlement-service/internal/app/delivery/http/controllers"
	"settlement-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachSettlementRoutes(r chi.Router, m *middlewares.Middlewares, controller *controllers.SettlementController) {
	r.With(m.Authentication).Post("/", controller.Settle)
}
