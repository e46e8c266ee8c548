package music

import "time"

// Period is a named time window used to filter plays before ranking.
type Period string

const (
	PeriodOverall Period = "overall"
	Period7Day    Period = "7day"
	Period1Month  Period = "1month"
	Period3Month  Period = "3month"
	Period6Month  Period = "6month"
	Period12Month Period = "12month"
)

const day = 24 * time.Hour

// ParsePeriod maps a query-string value to a Period. Unknown values
// fall back to overall, matching the upstream API contract.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case Period7Day, Period1Month, Period3Month, Period6Month, Period12Month:
		return Period(s)
	default:
		return PeriodOverall
	}
}

// CutoffUnix returns the oldest play timestamp included in the
// period, relative to now. Month periods are fixed day counts
// (30/90/180/365), not calendar months; changing this would silently
// alter every historical report.
func (p Period) CutoffUnix(now time.Time) int64 {
	switch p {
	case Period7Day:
		return now.Add(-7 * day).Unix()
	case Period1Month:
		return now.Add(-30 * day).Unix()
	case Period3Month:
		return now.Add(-90 * day).Unix()
	case Period6Month:
		return now.Add(-180 * day).Unix()
	case Period12Month:
		return now.Add(-365 * day).Unix()
	default:
		return 0
	}
}
