package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldOwnerID     = "owner_id"
	FieldMobile      = "mobile"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldDay         = "day"
	FieldExpenseID   = "expense_id"
	FieldAmountCents = "amount_cents"
)

// Standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentAlerts  = "alerts"
	ComponentAuth    = "auth"
)
