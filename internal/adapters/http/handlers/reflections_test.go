package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-reflections/internal/adapters/storage"
	"github.com/jsamuelsen/daily-reflections/internal/app"
	"github.com/jsamuelsen/daily-reflections/internal/domain"
	"github.com/jsamuelsen/daily-reflections/internal/history"
)

func newTestRouter(t *testing.T, entries []domain.HistoryEntry, now time.Time) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store := history.NewStore(history.Config{Store: storage.NewMemoryStore(), Key: "quote_history.json"})
	require.NoError(t, store.Save(context.Background(), entries))

	service := app.NewReflectionService(app.ReflectionServiceConfig{
		History: store,
		Now:     func() time.Time { return now },
	})

	engine := gin.New()
	NewReflectionHandler(service).RegisterReflectionRoutes(engine.Group("/api/v1"))

	return engine
}

func publishedEntry() domain.HistoryEntry {
	return domain.HistoryEntry{
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Quote:       "You have power over your mind, not outside events.",
		Attribution: "Marcus Aurelius - Meditations 8.4",
		Theme:       "Clarity and Sound Judgment",
		Reflection:  "A reflection.",
	}
}

func TestByDate_OK(t *testing.T) {
	router := newTestRouter(t, []domain.HistoryEntry{publishedEntry()},
		time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reflections/2025-03-10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-10", resp["date"])
	assert.Equal(t, "Marcus Aurelius - Meditations 8.4", resp["attribution"])
	assert.Equal(t, "A reflection.", resp["reflection"])

	theme, ok := resp["monthlyTheme"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Clarity and Sound Judgment", theme["name"])
}

func TestByDate_Today(t *testing.T) {
	router := newTestRouter(t, []domain.HistoryEntry{publishedEntry()},
		time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reflections/today", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-10", resp["date"])
}

func TestByDate_NotFound(t *testing.T) {
	router := newTestRouter(t, nil, time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reflections/2025-03-10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestByDate_BadDate(t *testing.T) {
	router := newTestRouter(t, nil, time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reflections/March-10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")
}
