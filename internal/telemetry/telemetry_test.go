package telemetry

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/BDubDesigns/git-rich-quick/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func mustEvent(t *testing.T, typ EventType, at time.Time, md EventMetadata) Event {
	t.Helper()
	e, err := NewEvent(typ, at, md)
	require.NoError(t, err)
	return e
}

func openSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "telemetry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func openSQLiteMemory(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositories(t *testing.T) {
	repos := map[string]func(t *testing.T) Repository{
		"memory":        func(t *testing.T) Repository { return NewMemoryRepository() },
		"sqlite":        func(t *testing.T) Repository { return openSQLite(t) },
		"sqlite memory": func(t *testing.T) Repository { return openSQLiteMemory(t) },
	}

	for name, open := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			require.NoError(t, repo.RecordEvent(ctx, mustEvent(t, EventTick, t0, EventMetadata{"loc": "1"})))
			require.NoError(t, repo.RecordEvent(ctx, mustEvent(t, EventLOCWritten, t0.Add(500*time.Millisecond), EventMetadata{"loc": "1"})))
			require.NoError(t, repo.RecordEvent(ctx, mustEvent(t, EventTick, t0.Add(time.Second), nil)))

			all, err := repo.GetEvents(ctx, time.Time{}, nil)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, EventLOCWritten, all[1].Type)
			assert.True(t, all[1].Timestamp.Equal(t0.Add(500*time.Millisecond)))

			ticks, err := repo.GetEvents(ctx, time.Time{}, []EventType{EventTick})
			require.NoError(t, err)
			assert.Len(t, ticks, 2)

			recent, err := repo.GetEvents(ctx, t0.Add(100*time.Millisecond), nil)
			require.NoError(t, err)
			assert.Len(t, recent, 2)

			assert.Error(t, repo.RecordEvent(ctx, Event{Type: EventTick}), "events need an id")

			require.NoError(t, repo.Clear(ctx))
			all, err = repo.GetEvents(ctx, time.Time{}, nil)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestOpenSQLiteRequiresDSN(t *testing.T) {
	_, err := OpenSQLite(" ")
	assert.Error(t, err)
}

func TestRecorderThroughStore(t *testing.T) {
	ctx := context.Background()
	tables := config.Default()
	repo := NewMemoryRepository()
	store := game.NewStore(&tables,
		game.WithClock(game.NewFakeClock(t0)),
		game.WithRecorder(NewRecorder(repo)))

	_, err := store.Dispatch(ctx, game.ClickCode{})
	require.NoError(t, err)
	_, err = store.Dispatch(ctx, game.BuyEmployee{Type: "intern"})
	require.NoError(t, err)
	_, err = store.Dispatch(ctx, game.BuyEmployee{Type: "ceo"})
	require.ErrorIs(t, err, game.ErrUnknownKey)
	_, err = store.Dispatch(ctx, game.SetActiveTab{Tab: config.TabProjects})
	require.NoError(t, err)

	events, err := repo.GetEvents(ctx, time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, EventLOCWritten, events[0].Type)
	assert.Equal(t, t0, events[0].Timestamp)
	assert.NotEmpty(t, events[0].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)

	assert.Equal(t, EventActionRejected, events[1].Type)
	var md EventMetadata
	require.NoError(t, json.Unmarshal([]byte(events[1].Metadata), &md))
	assert.Equal(t, "insufficient_funds", md["reason"])
	assert.Equal(t, "BUY_EMPLOYEE", md["action"])

	assert.Equal(t, EventActionRejected, events[2].Type)
	assert.Contains(t, events[2].Metadata, "unknown employee")

	assert.Equal(t, EventTabChanged, events[3].Type)
}

func TestRecorderEmitsUnlocksAndPurchases(t *testing.T) {
	tables := config.Default()
	before := game.NewState(&tables)
	before.Money = 1000

	after, out, err := game.Reduce(&tables, before, game.BuyEmployee{Type: "intern"})
	require.NoError(t, err)
	out.Unlocked = append(out.Unlocked, "employee:junior")

	events, err := eventsFor(game.Dispatched{
		Action: game.BuyEmployee{Type: "intern"}, Outcome: out, Before: before, After: after, At: t0,
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventEmployeeHired, events[0].Type)
	assert.JSONEq(t, `{"employee_type":"intern","cost":1000,"count":1}`, events[0].Metadata)
	assert.Equal(t, EventUnlocked, events[1].Type)
}

func TestCalculateStats(t *testing.T) {
	events := []Event{
		mustEvent(t, EventLOCWritten, t0, EventMetadata{"loc": "1", "cps": 1}),
		mustEvent(t, EventLOCWritten, t0, EventMetadata{"loc": "1.5", "cps": 6}),
		mustEvent(t, EventTick, t0, EventMetadata{"loc": "2.25"}),
		mustEvent(t, EventTick, t0, EventMetadata{"loc": "0"}),
		mustEvent(t, EventEmployeeHired, t0, EventMetadata{"employee_type": "intern", "cost": 1000, "count": 1}),
		mustEvent(t, EventEmployeeHired, t0, EventMetadata{"employee_type": "intern", "cost": 1100, "count": 2}),
		mustEvent(t, EventProjectCompleted, t0, EventMetadata{"project_key": "toDoListApp", "reward": 5000}),
		mustEvent(t, EventProjectContributed, t0, EventMetadata{"project_id": "leftPad", "level": 1}),
		mustEvent(t, EventUnlocked, t0, EventMetadata{"entity": "employee:junior"}),
		mustEvent(t, EventActionRejected, t0, EventMetadata{"action": "BUY_EMPLOYEE", "reason": "insufficient_funds"}),
		mustEvent(t, EventActionRejected, t0, EventMetadata{"action": "BUY_EMPLOYEE", "reason": "insufficient_funds"}),
		{ID: "broken", Type: EventTick, Timestamp: t0, Metadata: "{"},
	}

	stats, err := CalculateStats(events, t0)
	require.NoError(t, err)

	assert.Equal(t, "2026-01-01", stats.Period)
	assert.Equal(t, 3, stats.EventCounts[EventTick], "unparseable metadata still counts")
	assert.Equal(t, 2, stats.Clicks)
	assert.Equal(t, "2.5", stats.ClickedLOC.String())
	assert.Equal(t, "2.25", stats.PassiveLOC.String())
	assert.Equal(t, 2, stats.Ticks)
	assert.Equal(t, 1.0, stats.ClicksPerTick)
	assert.Equal(t, 6, stats.PeakCPS)
	assert.Equal(t, map[string]int{"intern": 2}, stats.HiresByType)
	assert.Equal(t, int64(2100), stats.MoneySpent)
	assert.Equal(t, map[string]int{"toDoListApp": 1}, stats.ProjectsByKey)
	assert.Equal(t, int64(5000), stats.MoneyEarned)
	assert.Equal(t, map[string]int{"leftPad": 1}, stats.Contributions)
	assert.Equal(t, []string{"employee:junior"}, stats.Unlocks)
	assert.Equal(t, map[string]int{"insufficient_funds": 2}, stats.RejectionsByReason)
}
