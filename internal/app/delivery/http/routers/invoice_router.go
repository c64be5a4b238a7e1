package routers

import (
	"settlement-service/internal/app/delivery/http/controllers"
	"settlement-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachInvoiceRoutes(r chi.Router, m *middlewares.Middlewares, controller *controllers.InvoiceController) {
	r.With(m.Authentication).Post("/", controller.CreateInvoice)
	r.With(m.Authentication).Get("/{invoiceID}", controller.GetInvoice)
	r.With(m.Authentication).Get("/owner/{ownerID}", controller.ListByOwner)
}
