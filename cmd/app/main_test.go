package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prasetyowira/checkin/config"
	"github.com/prasetyowira/checkin/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const link = "https://ccc.nottingham.edu.cn/study/home/details?id=42"

func TestRun_ManualFlags(t *testing.T) {
	out := filepath.Join(t.TempDir(), "qrcode.png")
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-link", link, "-mode", "manual",
		"-year", "2026", "-month", "1", "-day", "15", "-hour", "9", "-minute", "30",
		"-out", out,
	}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	expectedMs := time.Date(2026, 1, 15, 9, 30, 0, 0, time.Local).UnixMilli()
	assert.Contains(t, stdout.String(), "scheduleId=42&time="+strconv.FormatInt(expectedMs, 10))
	assert.Contains(t, stdout.String(), "█")
	assert.FileExists(t, out)
}

func TestRun_PromptsWithoutLink(t *testing.T) {
	out := filepath.Join(t.TempDir(), "qrcode.png")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-out", out, "-display=false"}, strings.NewReader(link+"\nauto\n"), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Link: ")
	assert.Contains(t, stdout.String(), "scheduleId=42&time=")
	assert.NotContains(t, stdout.String(), "█")
	assert.FileExists(t, out)
}

func TestRun_InvalidDateLeavesNoFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "qrcode.png")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-link", link, "-mode", "manual", "-year", "2026", "-month", "13", "-day", "1", "-out", out},
		strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "check the date and time")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_MissingIdentifierLeavesNoFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "qrcode.png")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-link", "https://ccc.nottingham.edu.cn/study/home/details?lang=en", "-out", out},
		strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "id= or scheduleId=")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_BadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run([]string{"-port", "99999"}, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, 0, run([]string{"-h"}, strings.NewReader(""), &stdout, &stderr))
}

func TestCollectInput_FlagsMatchPrompts(t *testing.T) {
	cfg := config.Config{
		Link: link, Mode: "MANUAL",
		Year: 2026, Month: 1, Day: 15, Hour: 9, Minute: 30,
	}
	fromFlags, err := collectInput(context.Background(), cfg, strings.NewReader(""), io.Discard)
	require.NoError(t, err)

	answers := strings.NewReader(link + "\nmanual\n2026\n1\n15\n9\n30\n")
	fromPrompts, err := collectInput(context.Background(), config.Config{}, answers, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, fromPrompts, fromFlags)
	assert.Equal(t, attendance.ModeManual, fromFlags.Mode)
}

func TestCollectInput_InvalidMode(t *testing.T) {
	_, err := collectInput(context.Background(), config.Config{Link: link, Mode: "later"}, strings.NewReader(""), io.Discard)

	assert.ErrorIs(t, err, attendance.ErrInvalidMode)
}
