package estimate

import (
	"fmt"
	"math"
	"time"
)

// FormatWeight renders grams as "850mg" below one gram and "12g" otherwise
func FormatWeight(grams float64) string {
	if grams < 1 {
		return fmt.Sprintf("%.0fmg", math.Round(grams*1000))
	}
	return fmt.Sprintf("%.0fg", math.Round(grams))
}

// FormatDuration renders a print time as "1h 05m", "12m 30s" or "45s"
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}

	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatLength renders filament length in meters
func FormatLength(meters float64) string {
	if meters < 1 {
		return fmt.Sprintf("%.0fcm", meters*100)
	}
	return fmt.Sprintf("%.2fm", meters)
}
