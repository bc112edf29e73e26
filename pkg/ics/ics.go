// Package ics renders calendar events as an iCalendar (RFC 5545) document
// for the calendar export endpoint.
package ics

import (
	"strings"
	"time"
)

// Event is one VEVENT block.
type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

const dateTimeFormat = "20060102T150405Z"

// Encode renders a complete VCALENDAR document with CRLF line endings.
// now stamps the DTSTAMP property on every event.
func Encode(events []Event, now time.Time) string {
	var b strings.Builder

	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//Ledgerly//Calendar Export//EN")
	writeLine(&b, "CALSCALE:GREGORIAN")

	stamp := now.UTC().Format(dateTimeFormat)
	for _, ev := range events {
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+Escape(ev.UID))
		writeLine(&b, "DTSTAMP:"+stamp)
		writeLine(&b, "DTSTART:"+ev.Start.UTC().Format(dateTimeFormat))
		writeLine(&b, "DTEND:"+ev.End.UTC().Format(dateTimeFormat))
		writeLine(&b, "SUMMARY:"+Escape(ev.Summary))
		if ev.Description != "" {
			writeLine(&b, "DESCRIPTION:"+Escape(ev.Description))
		}
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// Escape applies RFC 5545 TEXT escaping: backslash, semicolon, comma, and
// newlines.
func Escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(s)
}

// FormatTime exposes the UTC timestamp format used for DTSTART/DTEND.
func FormatTime(t time.Time) string {
	return t.UTC().Format(dateTimeFormat)
}
