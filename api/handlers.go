package api

import (
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prasetyowira/checkin/constant"
	"github.com/prasetyowira/checkin/domain/attendance"
	appLogger "github.com/prasetyowira/checkin/infrastructure/logger"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

// Generator is the attendance service as seen by the HTTP layer
type Generator interface {
	Generate(ctx context.Context, in attendance.Input) (*attendance.Result, error)
}

// Handler contains service dependencies for API handlers
type Handler struct {
	service Generator
	now     func() time.Time
}

// CreateAttendanceRequest is the request object for CreateAttendance endpoint
type CreateAttendanceRequest struct {
	Link   string `json:"link"`
	Mode   string `json:"mode"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Day    int    `json:"day"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

// AttendanceResponse is the response object for a generated check-in code
type AttendanceResponse struct {
	AttendanceURL string `json:"attendance_url"`
	ScheduleID    string `json:"schedule_id"`
	Time          int64  `json:"time"`
	OutputPath    string `json:"output_path"`
	QRCode        string `json:"qr_code"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// formPage is the view model of the HTML form
type formPage struct {
	Link   string
	Mode   string
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int

	Error         string
	AttendanceURL string
	QRCode        template.URL
	OutputPath    string
}

// NewHandler creates a new API handler
func NewHandler(service Generator) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

// ShowForm renders an empty form with the manual fields set to the current local time
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	appLogger.CtxDebug(r.Context(), "Rendering attendance form", appLogger.LoggerInfo{
		ContextFunction: constant.CtxShowForm,
	})

	now := h.now()
	h.renderForm(w, r, formPage{
		Mode:   string(attendance.ModeAuto),
		Year:   now.Year(),
		Month:  int(now.Month()),
		Day:    now.Day(),
		Hour:   now.Hour(),
		Minute: now.Minute(),
	}, http.StatusOK)
}

// SubmitForm handles the HTML form post and shows the generated code inline
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		appLogger.CtxWarn(ctx, "Error parsing form", appLogger.LoggerInfo{
			ContextFunction: constant.CtxSubmitForm,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIDecodeRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
		h.renderForm(w, r, formPage{Error: "Invalid form submission"}, http.StatusBadRequest)
		return
	}

	page := formPage{
		Link: strings.TrimSpace(r.PostFormValue("link")),
		Mode: r.PostFormValue("mode"),
	}
	in, err := formInput(&page, r.PostFormValue)
	if err == nil {
		var result *attendance.Result
		result, err = h.service.Generate(ctx, in)
		if err == nil {
			page.AttendanceURL = result.URL.String()
			page.OutputPath = result.OutputPath
			page.QRCode = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(result.Image.PNG))
			h.renderForm(w, r, page, http.StatusOK)
			return
		}
	}

	status := statusFor(err)
	h.logServiceError(ctx, constant.CtxSubmitForm, err, status, page.Link)
	page.Error = userMessage(err)
	h.renderForm(w, r, page, status)
}

// formInput fills page's numeric fields and converts the page into service input.
// Numbers are only required in manual mode.
func formInput(page *formPage, value func(string) string) (attendance.Input, error) {
	mode, err := attendance.ParseMode(page.Mode)
	if err != nil {
		return attendance.Input{}, err
	}

	fields := []struct {
		name string
		dst  *int
	}{
		{"year", &page.Year},
		{"month", &page.Month},
		{"day", &page.Day},
		{"hour", &page.Hour},
		{"minute", &page.Minute},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(value(f.name))
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			if mode == attendance.ModeManual {
				return attendance.Input{}, fmt.Errorf("%w: %s %q is not a number", attendance.ErrInvalidDateTime, f.name, raw)
			}
			continue
		}
		*f.dst = n
	}

	return attendance.Input{
		Link: page.Link,
		Mode: mode,
		Manual: attendance.ManualTime{
			Year:   page.Year,
			Month:  page.Month,
			Day:    page.Day,
			Hour:   page.Hour,
			Minute: page.Minute,
		},
	}, nil
}

// CreateAttendance handles JSON generation requests
func (h *Handler) CreateAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		appLogger.CtxError(ctx, "Error decoding request body", appLogger.LoggerInfo{
			ContextFunction: constant.CtxCreateAttendance,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIDecodeRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})

		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	mode, err := attendance.ParseMode(req.Mode)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Generate(ctx, attendance.Input{
		Link: req.Link,
		Mode: mode,
		Manual: attendance.ManualTime{
			Year:   req.Year,
			Month:  req.Month,
			Day:    req.Day,
			Hour:   req.Hour,
			Minute: req.Minute,
		},
	})
	if err != nil {
		status := statusFor(err)
		h.logServiceError(ctx, constant.CtxCreateAttendance, err, status, req.Link)
		WriteJSONError(w, err.Error(), status)
		return
	}

	appLogger.CtxInfo(ctx, "Created attendance QR code", appLogger.LoggerInfo{
		ContextFunction: constant.CtxCreateAttendance,
		Data: map[string]interface{}{
			constant.DataScheduleID:    result.URL.ScheduleID,
			constant.DataAttendanceURL: result.URL.String(),
		},
	})

	WriteJSON(w, AttendanceResponse{
		AttendanceURL: result.URL.String(),
		ScheduleID:    result.URL.ScheduleID,
		Time:          result.URL.TimestampMs(),
		OutputPath:    result.OutputPath,
		QRCode:        base64.StdEncoding.EncodeToString(result.Image.PNG),
	}, http.StatusCreated)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, page formPage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, page); err != nil {
		appLogger.CtxError(r.Context(), "Error rendering form", appLogger.LoggerInfo{
			ContextFunction: constant.CtxShowForm,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPITemplate,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
	}
}

func (h *Handler) logServiceError(ctx context.Context, function string, err error, status int, link string) {
	logFunc := appLogger.CtxWarn
	if status >= http.StatusInternalServerError {
		logFunc = appLogger.CtxError
	}
	logFunc(ctx, "Error generating attendance QR code", appLogger.LoggerInfo{
		ContextFunction: function,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeAPIServiceError,
			Message: err.Error(),
			Type:    constant.ErrTypeAPI,
		},
		Data: map[string]interface{}{
			constant.DataLink:   link,
			constant.DataStatus: status,
		},
	})
}

func statusFor(err error) int {
	switch {
	case attendance.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, attendance.ErrEncodingCapacityExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, attendance.ErrInvalidLinkFormat):
		return "The link must come from a ccc.nottingham.edu.cn course details page."
	case errors.Is(err, attendance.ErrMissingScheduleID):
		return "Could not find an id or scheduleId in the link."
	case errors.Is(err, attendance.ErrInvalidDateTime):
		return "Check the date and time (month <= 12, valid day, hour < 24, minute < 60)."
	case errors.Is(err, attendance.ErrInvalidMode):
		return "Pick auto or manual mode."
	case errors.Is(err, attendance.ErrEncodingCapacityExceeded):
		return "The link is too long to fit in a QR code."
	default:
		return "Failed to generate the QR code."
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}
