package routers

import (
	"settlement-service/internal/app/delivery/http/controllers"
	"settlement-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachPaymentRoutes(r chi.Router, m *middlewares.Middlewares, controller *controllers.PaymentController) {
	r.With(m.Authentication).Get("/{paymentID}", controller.GetPayment)
	r.With(m.Authentication).Get("/invoice/{invoiceID}", controller.ListByInvoice)
}
