package attendance

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailsLink = "https://ccc.nottingham.edu.cn/study/home/details?id=A1b2C3"

var fixedNow = time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC)

func fixedBuilder() *Builder {
	return NewBuilder(
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
}

func TestParseScheduleID(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{"id parameter", "https://ccc.nottingham.edu.cn/study/home/details?id=123", "123"},
		{"scheduleId parameter", "https://ccc.nottingham.edu.cn/study/home/details?scheduleId=xyz", "xyz"},
		{"stops at ampersand", "https://ccc.nottingham.edu.cn/study/home/details?id=123&lang=zh", "123"},
		{"stops at fragment", "https://ccc.nottingham.edu.cn/study/home/details?id=123#top", "123"},
		{"not first parameter", "https://ccc.nottingham.edu.cn/study/home/details?lang=zh&scheduleId=s9", "s9"},
		{"scheduleId wins over id", "https://ccc.nottingham.edu.cn/study/home/details?id=short&scheduleId=long", "long"},
		{"empty scheduleId falls back to id", "https://ccc.nottingham.edu.cn/study/home/details?scheduleId=&id=7", "7"},
		{"value kept verbatim", "https://ccc.nottingham.edu.cn/study/home/details?id=a%2Bb", "a%2Bb"},
		{"uuid style id", "https://ccc.nottingham.edu.cn/study/home/details?id=3f2c9a1e-55b0-4c1d-9a77-0e6a1f4b2c10", "3f2c9a1e-55b0-4c1d-9a77-0e6a1f4b2c10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScheduleID(tt.link)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScheduleID_Missing(t *testing.T) {
	links := []string{
		"https://ccc.nottingham.edu.cn/study/home/details",
		"https://ccc.nottingham.edu.cn/study/home/details?",
		"https://ccc.nottingham.edu.cn/study/home/details?id=",
		"https://ccc.nottingham.edu.cn/study/home/details?id=&scheduleId=",
		"https://ccc.nottingham.edu.cn/study/home/details?courseid=5",
		"https://ccc.nottingham.edu.cn/study/home/details?ID=5",
		"https://ccc.nottingham.edu.cn/study/home/details#?id=5",
	}

	for _, link := range links {
		_, err := ParseScheduleID(link)
		assert.ErrorIs(t, err, ErrMissingScheduleID, link)
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAuto, mode)

	mode, err = ParseMode(" Manual ")
	require.NoError(t, err)
	assert.Equal(t, ModeManual, mode)

	_, err = ParseMode("later")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestBuild_AutoMode(t *testing.T) {
	// Arrange
	b := fixedBuilder()

	// Act
	url, err := b.Build(Input{Link: detailsLink, Mode: ModeAuto})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "A1b2C3", url.ScheduleID)
	assert.Equal(t, fixedNow.Add(time.Minute).UnixMilli(), url.TimestampMs())
	assert.Equal(t,
		"https://ccc.nottingham.edu.cn/study/attendance?scheduleId=A1b2C3&time=1768469460000",
		url.String())
}

func TestBuild_AutoModeAgainstSystemClock(t *testing.T) {
	b := NewBuilder()

	before := time.Now()
	url, err := b.Build(Input{Link: detailsLink})
	require.NoError(t, err)

	expected := before.Add(time.Minute).UnixMilli()
	assert.InDelta(t, expected, url.TimestampMs(), float64((2 * time.Second).Milliseconds()))
	assert.Equal(t, ModeAuto, url.Mode)
}

func TestBuild_CustomOffset(t *testing.T) {
	b := NewBuilder(
		WithClock(func() time.Time { return fixedNow }),
		WithAutoOffset(0),
	)

	url, err := b.Build(Input{Link: detailsLink, Mode: ModeAuto})

	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), url.TimestampMs())
}

func TestBuild_ManualMode(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*60*60)
	b := NewBuilder(WithLocation(shanghai))

	url, err := b.Build(Input{
		Link:   detailsLink,
		Mode:   ModeManual,
		Manual: ManualTime{Year: 2026, Month: 1, Day: 15, Hour: 9, Minute: 30},
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 9, 30, 0, 0, shanghai).UnixMilli(), url.TimestampMs())
	assert.Equal(t, int64(1768440600000), url.TimestampMs())
	assert.Equal(t, ModeManual, url.Mode)
}

func TestBuild_ManualModeUsesLocalZoneByDefault(t *testing.T) {
	b := NewBuilder()

	url, err := b.Build(Input{
		Link:   detailsLink,
		Mode:   ModeManual,
		Manual: ManualTime{Year: 2026, Month: 1, Day: 15, Hour: 9, Minute: 30},
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 9, 30, 0, 0, time.Local).UnixMilli(), url.TimestampMs())
}

func TestBuild_InvalidManualTime(t *testing.T) {
	tests := []struct {
		name   string
		manual ManualTime
	}{
		{"month 13", ManualTime{2026, 13, 1, 9, 0}},
		{"month 0", ManualTime{2026, 0, 1, 9, 0}},
		{"day 32", ManualTime{2026, 1, 32, 9, 0}},
		{"april 31", ManualTime{2026, 4, 31, 9, 0}},
		{"feb 29 non leap", ManualTime{2025, 2, 29, 9, 0}},
		{"day 0", ManualTime{2026, 1, 0, 9, 0}},
		{"hour 24", ManualTime{2026, 1, 15, 24, 0}},
		{"negative hour", ManualTime{2026, 1, 15, -1, 0}},
		{"minute 60", ManualTime{2026, 1, 15, 9, 60}},
		{"year 0", ManualTime{0, 1, 15, 9, 0}},
		{"year 10000", ManualTime{10000, 1, 15, 9, 0}},
	}

	b := fixedBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := b.Build(Input{Link: detailsLink, Mode: ModeManual, Manual: tt.manual})
			assert.Nil(t, url)
			assert.ErrorIs(t, err, ErrInvalidDateTime)
		})
	}
}

func TestBuild_LeapDay(t *testing.T) {
	b := fixedBuilder()

	url, err := b.Build(Input{
		Link:   detailsLink,
		Mode:   ModeManual,
		Manual: ManualTime{Year: 2024, Month: 2, Day: 29, Hour: 23, Minute: 59},
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC), url.CheckInAt)
}

func TestBuild_InvalidLinkFormat(t *testing.T) {
	b := fixedBuilder()

	for _, link := range []string{
		"",
		"https://example.com/details?id=1",
		"https://spdpo.nottingham.edu.cn/study/home/details/123",
	} {
		_, err := b.Build(Input{Link: link})
		assert.ErrorIs(t, err, ErrInvalidLinkFormat, link)
	}
}

func TestBuild_MissingScheduleID(t *testing.T) {
	b := fixedBuilder()

	url, err := b.Build(Input{Link: "https://ccc.nottingham.edu.cn/study/home/details?lang=zh"})

	assert.Nil(t, url)
	assert.True(t, errors.Is(err, ErrMissingScheduleID))
}

func TestBuild_TrimsWhitespace(t *testing.T) {
	b := fixedBuilder()

	url, err := b.Build(Input{Link: "  " + detailsLink + "\n"})

	require.NoError(t, err)
	assert.Equal(t, "A1b2C3", url.ScheduleID)
}

func TestBuild_UnknownMode(t *testing.T) {
	b := fixedBuilder()

	_, err := b.Build(Input{Link: detailsLink, Mode: Mode("later")})

	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestBuild_OutputShape(t *testing.T) {
	pattern := regexp.MustCompile(`^https://ccc\.nottingham\.edu\.cn/study/attendance\?scheduleId=([A-Za-z0-9]+)&time=([1-9][0-9]*)$`)
	b := NewBuilder()

	for _, id := range []string{"a", "Z9", "abcDEF123", strings.Repeat("x", 64)} {
		url, err := b.Build(Input{Link: "https://ccc.nottingham.edu.cn/study/home/details?scheduleId=" + id})
		require.NoError(t, err)

		m := pattern.FindStringSubmatch(url.String())
		require.NotNil(t, m, url.String())
		assert.Equal(t, id, m[1])
		assert.Contains(t, url.String(), "scheduleId="+id+"&time=")
	}
}
