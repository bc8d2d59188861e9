package model

import "math"

const (
	DaysPerYear = 365.25

	calendarYear1Fade  = 0.007
	calendarAnnualFade = 0.0027
)

// CalendarFade returns calendar-only capacity fade (fraction) after the
// given number of elapsed days, independent of cycling and temperature.
func CalendarFade(days float64) float64 {
	years := days / DaysPerYear
	if years <= 1 {
		return calendarYear1Fade * years
	}
	return calendarYear1Fade + (years-1)*calendarAnnualFade
}

// BandedCalendarFade accumulates the per-band calendar table over the
// elapsed days. Whole years add their tabulated rate; the trailing partial
// year adds its pro-rated share of the next year's rate.
func BandedCalendarFade(days float64, b Band) float64 {
	years := days / DaysPerYear
	if years <= 0 {
		return 0
	}
	whole := int(math.Floor(years))
	fade := 0.0
	for y := 1; y <= whole; y++ {
		fade += CalendarRate(b, y)
	}
	if frac := years - float64(whole); frac > 0 {
		fade += frac * CalendarRate(b, whole+1)
	}
	return fade
}
