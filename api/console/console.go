package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prasetyowira/checkin/constant"
	"github.com/prasetyowira/checkin/domain/attendance"
	"github.com/prasetyowira/checkin/infrastructure/logger"
)

const instructions = `Usage:
  1. Open https://ccc.nottingham.edu.cn/study/ in a phone browser.
  2. Long-press "View details" and copy the link.
  3. Paste it below (.../details?id=xxxx or ...scheduleId=xxxx).
Auto mode stamps the current time plus one minute; manual mode asks for a 24-hour time.
`

// Prompter collects attendance input through a question-and-answer sequence
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a prompter reading answers from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Collect asks for the link, the mode and, in manual mode, the five time fields
func (p *Prompter) Collect(ctx context.Context) (attendance.Input, error) {
	fmt.Fprint(p.out, instructions)

	link, err := p.ask(ctx, "Link: ")
	if err != nil {
		return attendance.Input{}, err
	}

	answer, err := p.ask(ctx, "Mode [auto/manual] (auto): ")
	if err != nil {
		return attendance.Input{}, err
	}
	mode, err := attendance.ParseMode(answer)
	if err != nil {
		return attendance.Input{}, err
	}

	in := attendance.Input{Link: link, Mode: mode}
	if mode != attendance.ModeManual {
		return in, nil
	}

	fmt.Fprintln(p.out, "Check-in time (24-hour clock):")
	fields := []struct {
		label string
		dst   *int
	}{
		{"Year: ", &in.Manual.Year},
		{"Month: ", &in.Manual.Month},
		{"Day: ", &in.Manual.Day},
		{"Hour: ", &in.Manual.Hour},
		{"Minute: ", &in.Manual.Minute},
	}
	for _, f := range fields {
		answer, err := p.ask(ctx, f.label)
		if err != nil {
			return attendance.Input{}, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			return attendance.Input{}, fmt.Errorf("%w: %s%q is not a number", attendance.ErrInvalidDateTime, strings.ToLower(f.label), answer)
		}
		*f.dst = n
	}

	return in, nil
}

func (p *Prompter) ask(ctx context.Context, label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		err := p.in.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		logger.CtxWarn(ctx, "Failed to read answer", logger.LoggerInfo{
			ContextFunction: constant.CtxConsole,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeConsoleRead,
				Message: err.Error(),
				Type:    constant.ErrTypeConsole,
			},
		})
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Report prints the attendance URL, optionally the terminal QR code, and where the image was saved
func Report(out io.Writer, result *attendance.Result, display bool) {
	fmt.Fprintf(out, "Attendance link: %s\n", result.URL.String())
	if display && result.Image != nil {
		fmt.Fprintln(out)
		fmt.Fprint(out, result.Image.Terminal)
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "QR code saved to %s\n", result.OutputPath)
}

// ReportError prints a one-line, user-facing explanation of err
func ReportError(out io.Writer, err error) {
	switch {
	case errors.Is(err, attendance.ErrInvalidLinkFormat):
		fmt.Fprintln(out, "Error: the link must come from a ccc.nottingham.edu.cn course details page.")
	case errors.Is(err, attendance.ErrMissingScheduleID):
		fmt.Fprintln(out, "Error: the link has no id= or scheduleId= parameter.")
	case errors.Is(err, attendance.ErrInvalidDateTime):
		fmt.Fprintf(out, "Error: check the date and time (month <= 12, valid day, hour < 24, minute < 60): %v\n", err)
	case errors.Is(err, attendance.ErrEncodingCapacityExceeded):
		fmt.Fprintln(out, "Error: the link is too long to fit in a QR code.")
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}
