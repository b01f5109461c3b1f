package attendance

import (
	"context"
	"errors"

	"github.com/prasetyowira/checkin/constant"
	"github.com/prasetyowira/checkin/infrastructure/logger"
	"github.com/prasetyowira/checkin/infrastructure/qrcode"
)

// Renderer encodes a URL as a QR image and persists it
type Renderer interface {
	RenderAndSave(ctx context.Context, content, outputPath string) (*qrcode.Image, error)
}

// Result is the outcome of one successful generation
type Result struct {
	URL        *URL
	Image      *qrcode.Image
	OutputPath string
}

// Service runs one invocation: build the URL, then render and save it
type Service struct {
	builder    *Builder
	renderer   Renderer
	outputPath string
}

// NewService creates a new attendance service writing to outputPath
func NewService(builder *Builder, renderer Renderer, outputPath string) *Service {
	logger.Debug("Creating attendance service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService:    "attendance",
			constant.DataOutputPath: outputPath,
		},
	})

	return &Service{
		builder:    builder,
		renderer:   renderer,
		outputPath: outputPath,
	}
}

// Generate builds the attendance URL for in and saves its QR code. The
// renderer is not called when the input is rejected.
func (s *Service) Generate(ctx context.Context, in Input) (*Result, error) {
	logger.CtxDebug(ctx, "Generating attendance QR code", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataLink: in.Link,
			constant.DataMode: string(in.Mode),
		},
	})

	url, err := s.builder.Build(in)
	if err != nil {
		logger.CtxWarn(ctx, "Rejected attendance input", logger.LoggerInfo{
			ContextFunction: constant.CtxBuild,
			Error: &logger.CustomError{
				Code:    errorCode(err),
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataLink: in.Link,
			},
		})
		return nil, err
	}

	attendanceURL := url.String()
	logger.CtxDebug(ctx, "Attendance URL built", logger.LoggerInfo{
		ContextFunction: constant.CtxBuild,
		Data: map[string]interface{}{
			constant.DataScheduleID:    url.ScheduleID,
			constant.DataTimestamp:     url.TimestampMs(),
			constant.DataAttendanceURL: attendanceURL,
		},
	})

	img, err := s.renderer.RenderAndSave(ctx, attendanceURL, s.outputPath)
	if err != nil {
		logger.CtxError(ctx, "Failed to render attendance QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerate,
			Error: &logger.CustomError{
				Code:    errorCode(err),
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataAttendanceURL: attendanceURL,
				constant.DataOutputPath:    s.outputPath,
			},
		})
		return nil, err
	}

	logger.CtxInfo(ctx, "Attendance QR code generated", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataScheduleID:    url.ScheduleID,
			constant.DataMode:          string(url.Mode),
			constant.DataAttendanceURL: attendanceURL,
			constant.DataOutputPath:    s.outputPath,
		},
	})

	return &Result{
		URL:        url,
		Image:      img,
		OutputPath: s.outputPath,
	}, nil
}

// IsInputError reports whether err was caused by what the user entered
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidLinkFormat) ||
		errors.Is(err, ErrMissingScheduleID) ||
		errors.Is(err, ErrInvalidDateTime) ||
		errors.Is(err, ErrInvalidMode)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidLinkFormat):
		return constant.ErrCodeInvalidLinkFormat
	case errors.Is(err, ErrMissingScheduleID):
		return constant.ErrCodeMissingScheduleID
	case errors.Is(err, ErrInvalidDateTime):
		return constant.ErrCodeInvalidDateTime
	case errors.Is(err, ErrInvalidMode):
		return constant.ErrCodeInvalidMode
	case errors.Is(err, ErrEncodingCapacityExceeded):
		return constant.ErrCodeEncodingCapacity
	default:
		return constant.ErrCodeRenderFailure
	}
}
