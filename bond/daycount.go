package bond

import "time"

// DayCount selects the day-distance rule used for fractional periods.
type DayCount string

const (
	Thirty360US DayCount = "30/360"
	ThirtyE360  DayCount = "30E/360"
	Act360      DayCount = "ACT/360"
	Act365F     DayCount = "ACT/365F"
	ActAct      DayCount = "ACT/ACT"
)

// Days returns the day distance from start to end under the convention.
//
// The two 30/360 variants count months as 30 days with their respective
// end-of-month rules; the ACT variants count calendar days.
func (dc DayCount) Days(start, end time.Time) float64 {
	switch dc {
	case Thirty360US:
		d1, d2 := start.Day(), end.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return days360(start, end, d1, d2)
	case ThirtyE360:
		d1, d2 := start.Day(), end.Day()
		if d1 > 30 {
			d1 = 30
		}
		if d2 > 30 {
			d2 = 30
		}
		return days360(start, end, d1, d2)
	default:
		return end.Sub(start).Hours() / 24
	}
}

func days360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1) + 30*(m2-m1) + (d2 - d1))
}

// standardPeriodDays is the fallback accrual-period length when a cash flow
// carries no accrual bounds: 360/freq for 30/360-family conventions, 365/freq
// otherwise. The family is detected by probing a known 6-month span rather
// than by switching on names, so a new convention gets a sane default.
func standardPeriodDays(dc DayCount, frequency int) float64 {
	probeStart := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	probeEnd := time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC)
	if dc.Days(probeStart, probeEnd) == 180 {
		return 360.0 / float64(frequency)
	}
	return 365.0 / float64(frequency)
}
