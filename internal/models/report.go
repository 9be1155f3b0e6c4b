package models

// DayStat is one day's entry in a weekly report.
type DayStat struct {
	Date           string `json:"date"` // YYYY-MM-DD format
	DayName        string `json:"day_name"`
	CompletionRate int    `json:"completion_rate"`
	HasRecord      bool   `json:"has_record"`
}

// TaskStat summarizes one routine item's completion across a week.
type TaskStat struct {
	ItemID        string `json:"item_id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	CompletedDays int    `json:"completed_days"`
	Percentage    int    `json:"percentage"`
}

// WeeklyReport is the rollup of seven days anchored to a Sunday.
type WeeklyReport struct {
	WeekStart     string    `json:"week_start"` // Sunday, YYYY-MM-DD
	PerDay        []DayStat `json:"per_day"`
	WeeklyAverage int       `json:"weekly_average"`
	BestDay       DayStat   `json:"best_day"`
	ActiveDays    int       `json:"active_days"`
	PerTask       []TaskStat `json:"per_task"`
}
