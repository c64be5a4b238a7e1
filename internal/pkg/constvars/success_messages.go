package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Invoice messages
	InvoiceCreatedSuccess = "invoice created successfully"
	InvoiceGetSuccess     = "get invoice successfully"
	InvoiceListSuccess    = "get invoices successfully"

	// Payment messages
	PaymentGetSuccess  = "get payment successfully"
	PaymentListSuccess = "get payments successfully"

	// Settlement messages
	SettlementPaidSuccess       = "payment processed successfully"
	SettlementPendingSuccess    = "payment processed successfully, invoice settlement is in progress"
	SettlementDeclinedByGateway = "payment was declined by the gateway"
	SettlementAlreadyPaid       = "this invoice has already been settled"
)
