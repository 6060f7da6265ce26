package main

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	numberPrinter = message.NewPrinter(language.English)
	titleCaser    = cases.Title(language.English)
)

func formatCount(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

func formatMicros(d time.Duration) string {
	return numberPrinter.Sprintf("%d µs", d.Microseconds())
}

func formatRate(rowsPerSecond float64) string {
	return numberPrinter.Sprintf("%.0f rows/s", rowsPerSecond)
}

func formatStrategy(name string) string {
	return titleCaser.String(name)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatGeometry(width, height int) string {
	return fmt.Sprintf("%s × %s", formatCount(width), formatCount(height))
}
