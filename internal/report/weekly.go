package report

import (
	"fmt"
	"sort"

	"github.com/techtalk/routinely/internal/constants"
	"github.com/techtalk/routinely/internal/models"
	"github.com/techtalk/routinely/internal/tracker"
)

// Builder produces weekly rollups from live and archived records.
type Builder struct {
	tracker *tracker.Tracker
}

func NewBuilder(t *tracker.Tracker) *Builder {
	return &Builder{tracker: t}
}

// Build assembles the report for the week weekOffset weeks before the
// current one (0 = this week). Weeks are Sunday-anchored. Each day's rate
// is computed against the catalog's active-item count for that specific
// date, so day-restricted items don't dilute off days.
func (b *Builder) Build(userID string, weekOffset int) (models.WeeklyReport, error) {
	if weekOffset < 0 {
		return models.WeeklyReport{}, fmt.Errorf("week offset must be >= 0, got %d", weekOffset)
	}

	clk := b.tracker.Clock()
	cat := b.tracker.Catalog()

	today := clk.Now()
	startOfWeek := today.AddDate(0, 0, -int(today.Weekday())-constants.DaysPerWeek*weekOffset)

	rep := models.WeeklyReport{
		WeekStart: startOfWeek.Format(constants.DateFormat),
		PerDay:    make([]models.DayStat, 0, constants.DaysPerWeek),
	}

	completedByDay := make([][]string, constants.DaysPerWeek)
	rateSum := 0

	for i := 0; i < constants.DaysPerWeek; i++ {
		day := startOfWeek.AddDate(0, 0, i)
		date := day.Format(constants.DateFormat)

		items, found, err := b.tracker.RecordOn(userID, date)
		if err != nil {
			return models.WeeklyReport{}, err
		}
		completedByDay[i] = items

		rate := 0
		if found {
			rate = tracker.CompletionRate(len(items), cat.ActiveCount(date))
		}

		stat := models.DayStat{
			Date:           date,
			DayName:        day.Weekday().String()[:3],
			CompletionRate: rate,
			HasRecord:      found,
		}
		rep.PerDay = append(rep.PerDay, stat)

		rateSum += rate
		if rate > 0 {
			rep.ActiveDays++
		}
		// Strict > keeps the earliest date on ties
		if rate > rep.BestDay.CompletionRate || i == 0 {
			rep.BestDay = stat
		}
	}

	rep.WeeklyAverage = roundDiv(rateSum, constants.DaysPerWeek)
	rep.PerTask = b.taskStats(completedByDay)

	return rep, nil
}

// taskStats counts, per catalog item, how many of the seven days had the
// item completed, sorted by percentage descending (catalog order on ties).
func (b *Builder) taskStats(completedByDay [][]string) []models.TaskStat {
	cat := b.tracker.Catalog()

	stats := make([]models.TaskStat, 0, len(cat.Items()))
	for _, item := range cat.Items() {
		days := 0
		for _, completed := range completedByDay {
			for _, id := range completed {
				if id == item.ID {
					days++
					break
				}
			}
		}
		stats = append(stats, models.TaskStat{
			ItemID:        item.ID,
			Name:          item.Name,
			Icon:          item.Icon,
			CompletedDays: days,
			Percentage:    roundDiv(days*100, constants.DaysPerWeek),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Percentage > stats[j].Percentage
	})
	return stats
}

// WeekTitle names a week offset the way the report header shows it.
func WeekTitle(weekOffset int) string {
	switch weekOffset {
	case 0:
		return "This Week"
	case 1:
		return "Last Week"
	default:
		return fmt.Sprintf("%d Weeks Ago", weekOffset)
	}
}

// roundDiv returns round(a / b) in integer arithmetic.
func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
