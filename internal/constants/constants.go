package constants

const (
	// DateFormat is the canonical YYYY-MM-DD layout used for all record keys.
	DateFormat = "2006-01-02"

	// DefaultTimezone is the reference timezone used for day-boundary
	// computation when settings don't override it.
	DefaultTimezone = "Africa/Lagos"

	// MaxStreakLookbackDays bounds the backward streak walk so corrupted or
	// sparse history can never turn it into an unbounded loop.
	MaxStreakLookbackDays = 3650

	// PinLength is the required number of digits in a user PIN.
	PinLength = 4

	// DaysPerWeek is the span of a weekly report.
	DaysPerWeek = 7
)
