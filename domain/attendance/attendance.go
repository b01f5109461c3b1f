package attendance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prasetyowira/checkin/constant"
	"github.com/prasetyowira/checkin/infrastructure/qrcode"
)

// Errors returned while turning an Input into a check-in URL. Detail is
// wrapped around them, so compare with errors.Is.
var (
	ErrInvalidLinkFormat = errors.New(constant.ErrInvalidLinkFormat)
	ErrMissingScheduleID = errors.New(constant.ErrMissingScheduleID)
	ErrInvalidDateTime   = errors.New(constant.ErrInvalidDateTime)
	ErrInvalidMode       = errors.New(constant.ErrInvalidMode)

	ErrEncodingCapacityExceeded = qrcode.ErrEncodingCapacityExceeded
)

// Mode selects how the check-in time is computed
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// ParseMode accepts "auto" or "manual" in any case. An empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeAuto):
		return ModeAuto, nil
	case string(ModeManual):
		return ModeManual, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ManualTime is a user-entered local check-in time
type ManualTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// Time validates the fields and returns the instant in loc
func (m ManualTime) Time(loc *time.Location) (time.Time, error) {
	switch {
	case m.Year < 1 || m.Year > 9999:
		return time.Time{}, fmt.Errorf("%w: year %d out of range", ErrInvalidDateTime, m.Year)
	case m.Month < 1 || m.Month > 12:
		return time.Time{}, fmt.Errorf("%w: month %d out of range", ErrInvalidDateTime, m.Month)
	case m.Day < 1 || m.Day > daysIn(m.Year, time.Month(m.Month)):
		return time.Time{}, fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrInvalidDateTime, m.Day, m.Year, m.Month)
	case m.Hour < 0 || m.Hour > 23:
		return time.Time{}, fmt.Errorf("%w: hour %d out of range", ErrInvalidDateTime, m.Hour)
	case m.Minute < 0 || m.Minute > 59:
		return time.Time{}, fmt.Errorf("%w: minute %d out of range", ErrInvalidDateTime, m.Minute)
	}
	return time.Date(m.Year, time.Month(m.Month), m.Day, m.Hour, m.Minute, 0, 0, loc), nil
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month normalises to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Input is everything a front-end collects for one invocation
type Input struct {
	Link   string
	Mode   Mode
	Manual ManualTime
}

// URL is a built attendance check-in link
type URL struct {
	ScheduleID string
	CheckInAt  time.Time
	Mode       Mode
}

// TimestampMs is the check-in instant in epoch milliseconds
func (u *URL) TimestampMs() int64 {
	return u.CheckInAt.UnixMilli()
}

// String renders the link scanned by the attendance system
func (u *URL) String() string {
	return constant.AttendanceBaseURL +
		"?" + constant.ParamScheduleID + "=" + u.ScheduleID +
		"&" + constant.ParamTime + "=" + strconv.FormatInt(u.TimestampMs(), 10)
}

// ParseScheduleID extracts the schedule identifier from a course link. It
// reads the raw query (after the first '?', before any '#') and returns the
// value of scheduleId, falling back to id. Values are returned verbatim.
func ParseScheduleID(link string) (string, error) {
	query := link
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}
	i := strings.IndexByte(query, '?')
	if i < 0 {
		return "", ErrMissingScheduleID
	}
	query = query[i+1:]

	var scheduleID, id string
	var hasScheduleID, hasID bool
	for _, pair := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(pair, "=")
		switch key {
		case constant.ParamScheduleID:
			if !hasScheduleID {
				scheduleID, hasScheduleID = value, true
			}
		case constant.ParamID:
			if !hasID {
				id, hasID = value, true
			}
		}
	}

	switch {
	case hasScheduleID && scheduleID != "":
		return scheduleID, nil
	case hasID && id != "":
		return id, nil
	default:
		return "", ErrMissingScheduleID
	}
}

// Builder turns an Input into a URL
type Builder struct {
	now      func() time.Time
	offset   time.Duration
	location *time.Location
}

// Option configures a Builder
type Option func(*Builder)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithLocation sets the zone manual times are interpreted in
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) { b.location = loc }
}

// WithAutoOffset sets how far ahead of the clock auto mode stamps the link
func WithAutoOffset(d time.Duration) Option {
	return func(b *Builder) { b.offset = d }
}

// NewBuilder returns a Builder using the system clock, the local zone and a
// one minute auto-mode offset unless overridden.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		now:      time.Now,
		offset:   constant.AutoModeOffset,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates the link, extracts its schedule identifier and stamps the
// check-in time according to the mode.
func (b *Builder) Build(in Input) (*URL, error) {
	link := strings.TrimSpace(in.Link)
	if !strings.Contains(link, constant.CourseLinkMarker) {
		return nil, ErrInvalidLinkFormat
	}

	scheduleID, err := ParseScheduleID(link)
	if err != nil {
		return nil, err
	}

	mode := in.Mode
	if mode == "" {
		mode = ModeAuto
	}

	var at time.Time
	switch mode {
	case ModeAuto:
		at = b.now().Add(b.offset)
	case ModeManual:
		at, err = in.Manual.Time(b.location)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	return &URL{
		ScheduleID: scheduleID,
		CheckInAt:  at,
		Mode:       mode,
	}, nil
}
