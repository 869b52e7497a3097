package domain

// Theme describes the monthly theme that steers quote selection and
// reflection content.
type Theme struct {
	Name        string
	Description string
}

// monthlyThemes is the fixed twelve-entry theme registry, indexed by month.
var monthlyThemes = map[int]Theme{
	1:  {Name: "Discipline and Self-Improvement", Description: "Focus on building habits, self-control, and starting fresh"},
	2:  {Name: "Relationships and Community", Description: "Our connections to others, love, friendship, and social virtue"},
	3:  {Name: "Resilience and Adversity", Description: "Facing challenges, growing through difficulty, and mental toughness"},
	4:  {Name: "Nature and Acceptance", Description: "Living in accordance with nature, accepting what is"},
	5:  {Name: "Virtue and Character", Description: "The four cardinal virtues (wisdom, justice, courage, temperance)"},
	6:  {Name: "Wisdom and Philosophy", Description: "The love of wisdom, continuous learning, and philosophical practice"},
	7:  {Name: "Freedom and Autonomy", Description: "Inner freedom, independence of mind, and self-sufficiency"},
	8:  {Name: "Patience and Endurance", Description: "Long-term thinking, persistence, and bearing hardship"},
	9:  {Name: "Purpose and Calling", Description: "Finding meaning, living deliberately, and fulfilling your role"},
	10: {Name: "Mortality and Impermanence", Description: "Memento mori, making the most of time, and perspective on death"},
	11: {Name: "Gratitude and Contentment", Description: "Appreciating what we have, finding sufficiency, and thanksgiving"},
	12: {Name: "Reflection and Legacy", Description: "Year-end contemplation, examining life, and what we leave behind"},
}

// ThemeForMonth returns the theme for a month (1-12).
// Returns a validation error for any month outside that range.
func ThemeForMonth(month int) (Theme, error) {
	theme, ok := monthlyThemes[month]
	if !ok {
		return Theme{}, NewValidationErrorWithValue("month", "must be between 1 and 12", month)
	}

	return theme, nil
}

// KnownTheme reports whether name matches one of the twelve registered
// theme names. Used by dataset cross-validation.
func KnownTheme(name string) bool {
	for _, theme := range monthlyThemes {
		if theme.Name == name {
			return true
		}
	}

	return false
}
