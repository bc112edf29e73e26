package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{
			UID:         "abc-123@ledgerly",
			Summary:     "Haircut - Jane Doe",
			Description: "Booked via app",
			Start:       time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
			End:         time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			UID:     "def-456@ledgerly",
			Summary: "Consultation",
			Start:   time.Date(2026, 3, 16, 14, 0, 0, 0, time.UTC),
			End:     time.Date(2026, 3, 16, 15, 0, 0, 0, time.UTC),
		},
	}

	out := Encode(events, now)

	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	require.Equal(t, "BEGIN:VCALENDAR", lines[0])
	assert.Equal(t, "VERSION:2.0", lines[1])
	assert.Equal(t, "END:VCALENDAR", lines[len(lines)-1])

	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Equal(t, 2, strings.Count(out, "END:VEVENT"))
	assert.Contains(t, out, "UID:abc-123@ledgerly\r\n")
	assert.Contains(t, out, "DTSTAMP:20260314T090000Z\r\n")
	assert.Contains(t, out, "DTSTART:20260315T100000Z\r\n")
	assert.Contains(t, out, "DTEND:20260315T103000Z\r\n")
	assert.Contains(t, out, "SUMMARY:Haircut - Jane Doe\r\n")
	assert.Contains(t, out, "DESCRIPTION:Booked via app\r\n")

	// No DESCRIPTION line for the event without one.
	assert.Equal(t, 1, strings.Count(out, "DESCRIPTION:"))

	// Every line ends in CRLF, no bare LF.
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestEncodeEmpty(t *testing.T) {
	out := Encode(nil, time.Now())
	assert.Equal(t,
		"BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Ledgerly//Calendar Export//EN\r\nCALSCALE:GREGORIAN\r\nEND:VCALENDAR\r\n",
		out)
}

func TestEncodeConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	ev := Event{
		UID:     "tz@ledgerly",
		Summary: "Early start",
		Start:   time.Date(2026, 1, 2, 9, 0, 0, 0, loc),
		End:     time.Date(2026, 1, 2, 10, 0, 0, 0, loc),
	}
	out := Encode([]Event{ev}, time.Now())
	assert.Contains(t, out, "DTSTART:20260102T020000Z")
	assert.Contains(t, out, "DTEND:20260102T030000Z")
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"semi;colon", `semi\;colon`},
		{"comma, separated", `comma\, separated`},
		{`back\slash`, `back\\slash`},
		{"line\nbreak", `line\nbreak`},
		{"crlf\r\nbreak", `crlf\nbreak`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Escape(tt.in))
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2026, 7, 4, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, "20260704T123045Z", FormatTime(ts))
}
