package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldCount     = "count"
	FieldProductID = "product_id"
	FieldReceiptID = "receipt_id"
	FieldCategory  = "category"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldDay       = "day"
	FieldBackend   = "backend"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentAPI       = "api"
	ComponentInventory = "inventory"
	ComponentReceipts  = "receipts"
	ComponentCalendar  = "calendar"
	ComponentSettings  = "settings"
	ComponentSuggest   = "suggest"
)
