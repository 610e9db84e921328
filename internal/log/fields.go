package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldCollection = "collection"
	FieldRecordID   = "record_id"
	FieldKey        = "key"
	FieldCount      = "count"
	FieldBytes      = "bytes"
	FieldBackend    = "backend"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldMerchant   = "merchant"
	FieldImageURI   = "image_uri"
	FieldProvider   = "provider"
	FieldDuration   = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStore    = "record_store"
	ComponentKV       = "kv"
	ComponentSeeder   = "seeder"
	ComponentDash     = "dashboard"
	ComponentReceipts = "receipts"
	ComponentAccounts = "accounts"
	ComponentProfile  = "profile"
	ComponentCapture  = "capture"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpList     = "list"
	OpUpsert   = "upsert"
	OpDelete   = "delete"
	OpSeed     = "seed"
	OpLoad     = "load"
	OpCapture  = "capture"
	OpScan     = "scan"
	OpSync     = "sync"
	OpSignIn   = "sign_in"
	OpSignOut  = "sign_out"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRecord adds the collection and record id of a store operation.
func (f LogFields) WithRecord(collection, id string) LogFields {
	f[FieldCollection] = collection
	if id != "" {
		f[FieldRecordID] = id
	}
	return f
}

// With adds an arbitrary field.
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
