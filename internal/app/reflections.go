package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
	"github.com/jsamuelsen/daily-reflections/internal/history"
)

// ReflectionView is the read model for a published reflection. MonthlyTheme
// is resolved from the theme registry at read time and may differ from the
// entry's stored theme if the dataset was curated under another name.
type ReflectionView struct {
	Date         time.Time
	Quote        string
	Attribution  string
	Theme        string
	Reflection   string
	MonthlyTheme domain.Theme
}

// ReflectionService answers read queries over the published history.
type ReflectionService struct {
	history *history.Store
	now     func() time.Time
	logger  *slog.Logger
}

// ReflectionServiceConfig contains dependencies for the read service.
type ReflectionServiceConfig struct {
	History *history.Store
	Now     func() time.Time
	Logger  *slog.Logger
}

// NewReflectionService creates the read service. Panics if History is nil.
func NewReflectionService(cfg ReflectionServiceConfig) *ReflectionService {
	if cfg.History == nil {
		panic("app.ReflectionService: History is required")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ReflectionService{
		history: cfg.History,
		now:     now,
		logger:  logger.With(slog.String("component", "app.ReflectionService")),
	}
}

// ByDate returns the published reflection for the given date, or a
// not-found error when no entry exists for it.
func (s *ReflectionService) ByDate(ctx context.Context, date time.Time) (ReflectionView, error) {
	entries, err := s.history.Load(ctx)
	if err != nil {
		return ReflectionView{}, fmt.Errorf("loading history: %w", err)
	}

	for _, entry := range entries {
		if entry.SameDate(date) {
			return s.view(entry), nil
		}
	}

	return ReflectionView{}, domain.NewNotFoundError("reflection", date.Format(domain.DateLayout))
}

// Today returns the reflection published for the current UTC date.
func (s *ReflectionService) Today(ctx context.Context) (ReflectionView, error) {
	return s.ByDate(ctx, s.now().UTC())
}

func (s *ReflectionService) view(entry domain.HistoryEntry) ReflectionView {
	view := ReflectionView{
		Date:        entry.Date,
		Quote:       entry.Quote,
		Attribution: entry.Attribution,
		Theme:       entry.Theme,
		Reflection:  entry.Reflection,
	}

	if theme, err := domain.ThemeForMonth(int(entry.Date.Month())); err == nil {
		view.MonthlyTheme = theme
	}

	return view
}
