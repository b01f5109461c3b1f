package constant

// Attendance builder error codes
const (
	// Input validation errors (1xx)
	ErrCodeInvalidLinkFormat = "ATT101"
	ErrCodeMissingScheduleID = "ATT102"
	ErrCodeInvalidDateTime   = "ATT103"
	ErrCodeInvalidMode       = "ATT104"

	// Rendering errors (2xx)
	ErrCodeEncodingCapacity = "ATT201"
	ErrCodeRenderFailure    = "ATT202"
)

// QR infrastructure error codes
const (
	ErrCodeQREncode    = "QR001"
	ErrCodeQRPNG       = "QR002"
	ErrCodeQRWriteFile = "QR003"
)

// Console error codes
const (
	ErrCodeConsoleRead = "CON001"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeRender     = "render"

	// Infrastructure error types
	ErrTypeQR      = "qrcode"
	ErrTypeConsole = "console"
)
