package catalog

import "time"

// Default returns the standard routine checklist every user starts with.
func Default() *Catalog {
	return New([]Item{
		{
			ID:          "prayer",
			Name:        "Prayer",
			Icon:        "🙏",
			Description: "Daily spiritual practice and reflection",
		},
		{
			ID:          "study",
			Name:        "Study",
			Icon:        "📚",
			Description: "Learning, reading, or skill development",
		},
		{
			ID:          "hygiene",
			Name:        "Hygiene",
			Icon:        "🧼",
			Description: "Personal care and cleanliness",
		},
		{
			ID:          "work",
			Name:        "Work",
			Icon:        "💼",
			Description: "Professional tasks and responsibilities",
		},
		{
			ID:          "exercise",
			Name:        "Exercise",
			Icon:        "💪",
			Description: "Physical activity and fitness",
		},
		{
			ID:          "nutrition",
			Name:        "Nutrition",
			Icon:        "🥗",
			Description: "Healthy eating and meal planning",
		},
		{
			ID:          "reflection",
			Name:        "Reflection",
			Icon:        "🤔",
			Description: "Daily journaling or self-reflection",
		},
		{
			ID:          "connection",
			Name:        "Connection",
			Icon:        "👥",
			Description: "Meaningful social interactions",
		},
		{
			ID:          "fasting",
			Name:        "Fasting",
			Icon:        "🌙",
			Description: "Spiritual fasting practice",
			DaysOfWeek:  []time.Weekday{time.Wednesday, time.Friday},
		},
	})
}
