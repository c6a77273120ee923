package services

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"dashfleet/internal/config"
	"dashfleet/internal/dataset"
	"dashfleet/internal/models"
	"dashfleet/pkg/cache"
	"dashfleet/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, rows int) string {
	t.Helper()

	csv := "brand,model,range_km,battery_capacity_kWh\n"
	for i := 0; i < rows; i++ {
		csv += "Brand" + strconv.Itoa(i) + ",M" + strconv.Itoa(i) + ",250,\n"
	}
	csv += ",Orphan,300,\n" // no brand: dropped

	path := filepath.Join(t.TempDir(), "vehicles.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	return path
}

func newTestService(t *testing.T, rows int) *FleetService {
	t.Helper()
	svc := NewFleetService(dataset.NewLoader(writeDataset(t, rows)))
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func newSnapshotCache(t *testing.T) cache.SnapshotCache {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(config.RedisConfig{
		URL:         "redis://" + mr.Addr(),
		Host:        "localhost",
		Port:        "0",
		PoolSize:    2,
		DialTimeout: time.Second,
		ReadTimeout: time.Second,
	})
	t.Cleanup(func() { client.Close() })

	return cache.NewDefaultSnapshotCache(client)
}

func TestLoad_SynthesizesAdmittedRows(t *testing.T) {
	svc := newTestService(t, 5)

	vehicles := svc.Vehicles()
	require.Len(t, vehicles, 5, "orphan row must be dropped")
	for i, v := range vehicles {
		assert.Equal(t, i+1, v.ID)
		assert.Equal(t, 50, v.Health)
	}
	assert.False(t, svc.LoadedAt().IsZero())
}

func TestLoad_FailureDegradesToEmptyFleet(t *testing.T) {
	svc := NewFleetService(dataset.NewLoader("/nope/missing.csv"))

	err := svc.Load(context.Background())
	assert.Error(t, err)
	assert.Empty(t, svc.Vehicles())

	// Every view still renders its zero state.
	dash := svc.Dashboard(time.Now())
	assert.Zero(t, dash.TotalVehicles)
	assert.Zero(t, dash.AverageHealth)
	assert.Len(t, dash.HealthTrend, 4)
	assert.Len(t, dash.FailureTrend, 4)
	assert.Empty(t, svc.ActiveMaintenance(time.Now()))
	assert.Empty(t, svc.PredictedFailures())

	view := svc.Schedule(2025, time.June, time.Now())
	assert.Empty(t, view.Pending)
	assert.Zero(t, view.Scheduled)
}

func TestLoad_ReusesCachedSnapshot(t *testing.T) {
	path := writeDataset(t, 8)
	snapCache := newSnapshotCache(t)

	first := NewFleetService(dataset.NewLoader(path))
	first.SetSnapshotCache(snapCache)
	require.NoError(t, first.Load(context.Background()))

	// A second service over the same source must see the identical fleet,
	// including the load-time random fields.
	second := NewFleetService(dataset.NewLoader(path))
	second.SetSnapshotCache(snapCache)
	require.NoError(t, second.Load(context.Background()))

	assert.Equal(t, first.Vehicles(), second.Vehicles())
}

func TestReload_InvalidatesSnapshot(t *testing.T) {
	path := writeDataset(t, 8)
	snapCache := newSnapshotCache(t)

	svc := NewFleetService(dataset.NewLoader(path))
	svc.SetSnapshotCache(snapCache)
	require.NoError(t, svc.Load(context.Background()))
	before := svc.Vehicles()

	require.NoError(t, svc.Reload(context.Background()))
	after := svc.Vehicles()

	// Same admitted rows, same identities; only the volatile load-time
	// fields may differ.
	require.Len(t, after, len(before))
	for i := range after {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Name, after[i].Name)
		assert.Equal(t, before[i].Health, after[i].Health)
	}
}

func TestVehicleByID(t *testing.T) {
	svc := newTestService(t, 3)

	v, ok := svc.VehicleByID(2)
	require.True(t, ok)
	assert.Equal(t, "Brand1 M1", v.Name)

	_, ok = svc.VehicleByID(99)
	assert.False(t, ok, "stale ids miss instead of erroring")
}

func TestListVehicles(t *testing.T) {
	svc := newTestService(t, 30)

	t.Run("Pagination", func(t *testing.T) {
		page1, total := svc.ListVehicles("", SortByID, 1, 10)
		assert.Equal(t, 30, total)
		require.Len(t, page1, 10)
		assert.Equal(t, 1, page1[0].ID)

		page3, _ := svc.ListVehicles("", SortByID, 3, 10)
		require.Len(t, page3, 10)
		assert.Equal(t, 21, page3[0].ID)

		beyond, _ := svc.ListVehicles("", SortByID, 9, 10)
		assert.Empty(t, beyond)
	})

	t.Run("Search", func(t *testing.T) {
		hits, total := svc.ListVehicles("brand1 ", "", 1, 50)
		assert.Equal(t, 1, total) // only "Brand1 M1" contains "brand1 "
		require.Len(t, hits, 1)
		assert.Equal(t, "Brand1 M1", hits[0].Name)
	})

	t.Run("SortByName", func(t *testing.T) {
		sorted, _ := svc.ListVehicles("", SortByName, 1, 50)
		for i := 1; i < len(sorted); i++ {
			assert.LessOrEqual(t, sorted[i-1].Name, sorted[i].Name)
		}
	})

	t.Run("SortByIssuesDescending", func(t *testing.T) {
		sorted, _ := svc.ListVehicles("", SortByIssues, 1, 50)
		for i := 1; i < len(sorted); i++ {
			assert.GreaterOrEqual(t, sorted[i-1].Issues, sorted[i].Issues)
		}
	})
}

func TestDashboard_Aggregates(t *testing.T) {
	svc := newTestService(t, 12)
	dash := svc.Dashboard(time.Now())

	assert.Equal(t, 12, dash.TotalVehicles)
	assert.Equal(t, 50, dash.AverageHealth)
	assert.LessOrEqual(t, dash.ActiveMaintenance, dash.TotalVehicles)
	assert.LessOrEqual(t, dash.PredictedFailures, dash.TotalVehicles)
	assert.Len(t, dash.HealthTrend, 4)
	assert.Len(t, dash.FailureTrend, 4)

	// Next-service dates are 7-36 days out, so all within-window services
	// fall inside the upcoming count's bounds.
	assert.GreaterOrEqual(t, dash.UpcomingServices, 0)
	assert.LessOrEqual(t, dash.UpcomingServices, dash.TotalVehicles)
}

func TestActiveMaintenance_ConsistentWithFailures(t *testing.T) {
	svc := newTestService(t, 40)

	entries := svc.ActiveMaintenance(time.Now())
	for _, e := range entries {
		assert.True(t, e.Vehicle.InMaintenance)
		assert.GreaterOrEqual(t, e.Repair.ETADays, 1)
		assert.Equal(t, maxInt(0, e.Vehicle.Issues-1), e.Repair.Unresolved)
	}

	// The same vehicle shows the same issue count on the failures view.
	for _, p := range svc.PredictedFailures() {
		v, ok := svc.VehicleByID(p.Vehicle.ID)
		require.True(t, ok)
		assert.Equal(t, v.Issues, p.Vehicle.Issues)
	}
}

func TestHistory_OverridePrecedence(t *testing.T) {
	svc := newTestService(t, 4)
	now := time.Now()

	v, ok := svc.VehicleByID(1)
	require.True(t, ok)

	// Without override: the vehicle's own issue count drives generation.
	own, _, ok := svc.History(1, nil, now)
	require.True(t, ok)
	wantPending := v.Issues
	assert.Equal(t, wantPending, countPending(own))

	// With override: the carried count is used verbatim, never recomputed.
	override := 3
	events, _, ok := svc.History(1, &override, now)
	require.True(t, ok)
	assert.Equal(t, 3, countPending(events))

	// Idempotent for the same inputs.
	again, _, _ := svc.History(1, &override, now)
	assert.Equal(t, events, again)
}

func TestHistory_UnknownVehicle(t *testing.T) {
	svc := newTestService(t, 2)
	_, _, ok := svc.History(42, nil, time.Now())
	assert.False(t, ok)
}

func countPending(events []models.HistoryEvent) int {
	n := 0
	for _, e := range events {
		if e.Status == models.HistoryPending {
			n++
		}
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
