package constant

import "time"

// Request context keys
const (
	RequestIDKey = "request_id"
)

// HTTP header names
const (
	HeaderRequestID = "X-Request-ID"
)

// Attendance system endpoints
const (
	CourseLinkMarker  = "ccc.nottingham.edu.cn/study/home/details"
	AttendanceBaseURL = "https://ccc.nottingham.edu.cn/study/attendance"
	ParamScheduleID   = "scheduleId"
	ParamID           = "id"
	ParamTime         = "time"
)

// AutoModeOffset leaves time to open a scanner before the check-in window is evaluated.
const AutoModeOffset = time.Minute

// Defaults
const (
	DefaultOutputPath = "qrcode.png"
	DefaultPort       = 8080
	DefaultCacheSize  = 64
	DefaultLogLevel   = "INFO"
	DefaultModuleSize = 10
)

// Function/Context names
const (
	// Domain context names
	CtxDomain   = "domain"
	CtxGenerate = "Generate"
	CtxBuild    = "Build"

	// Infrastructure context names
	CtxRender        = "Render"
	CtxRenderAndSave = "RenderAndSave"
	CtxConsole       = "console"
	CtxAPI           = "api"

	// General context names
	CtxRouter           = "Router"
	CtxMain             = "Main"
	CtxShowForm         = "ShowForm"
	CtxSubmitForm       = "SubmitForm"
	CtxCreateAttendance = "CreateAttendance"
)

// Data field keys
const (
	// Domain data fields
	DataService       = "service"
	DataLink          = "link"
	DataMode          = "mode"
	DataScheduleID    = "schedule_id"
	DataTimestamp     = "timestamp_ms"
	DataAttendanceURL = "attendance_url"

	// Rendering data fields
	DataOutputPath = "output_path"
	DataSize       = "size"
	DataBytes      = "bytes"
	DataCacheHit   = "cache_hit"
	DataContentLen = "content_length"

	// API data fields
	DataMethod      = "method"
	DataPath        = "path"
	DataStatus      = "status"
	DataLatency     = "latency"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataPort        = "port"
	DataEnvironment = "environment"
)

// Error message constants
const (
	ErrInvalidLinkFormat        = "link is not a course detail link"
	ErrMissingScheduleID        = "link does not carry a scheduleId or id parameter"
	ErrInvalidDateTime          = "invalid check-in date/time"
	ErrInvalidMode              = "mode must be auto or manual"
	ErrEncodingCapacityExceeded = "content exceeds QR code capacity"
)

// Error codes
const (
	ErrCodeAPIDecodeRequest  = "API001"
	ErrCodeAPIServiceError   = "API002"
	ErrCodeAPITemplate       = "API003"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
	ErrCodeAppGenerate       = "APP004"
)

// Error types
const (
	ErrTypeAPI = "api"
	ErrTypeApp = "application"
)

// API routes
const (
	RouteForm             = "/"
	RouteCreateAttendance = "/api/attendance"
	RouteHealthcheck      = "/health"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStderr    = "stderr"
)

// Message constants for application
const (
	MsgApplicationStarting = "Application starting"
	MsgServerStarting      = "Server starting"
	MsgServerFailedToStart = "Server failed to start"
	MsgServerShuttingDown  = "Server shutting down"
	MsgServerShutdownError = "Error during server shutdown"
	MsgServerStopped       = "Server stopped"
	MsgGenerationFailed    = "Failed to generate attendance QR code"
	MsgRequestReceived     = "Request received"
	MsgRequestCompleted    = "Request completed"
	MsgSettingUpRoutes     = "Setting up API routes"
	MsgHealthcheckRequest  = "Handling healthcheck request"
	MsgHealthy             = "Healthy"
)

// Cache Namespace
const (
	QRImageNamespace = "QR"
)
