package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"dashfleet/internal/dataset"
	"dashfleet/internal/derive"
	"dashfleet/internal/models"
	"dashfleet/internal/schedule"
	"dashfleet/internal/synth"
	"dashfleet/internal/trend"
	"dashfleet/internal/websocket"
	"dashfleet/pkg/cache"
)

// FleetService owns the synthesized fleet snapshot. The snapshot is written
// exactly once per load and read-only for every view; each view derivation is
// a pure function over it.
type FleetService struct {
	mu       sync.RWMutex
	vehicles []models.Vehicle
	loadedAt time.Time

	loader      *dataset.Loader
	snapshotTTL time.Duration
	cache       cache.SnapshotCache
	broadcaster websocket.VizBroadcaster
}

func NewFleetService(loader *dataset.Loader) *FleetService {
	return &FleetService{
		loader:      loader,
		vehicles:    []models.Vehicle{},
		snapshotTTL: cache.DefaultCacheConfig().SnapshotTTL,
	}
}

// SetSnapshotCache allows setting the snapshot cache for load reuse.
func (s *FleetService) SetSnapshotCache(c cache.SnapshotCache) {
	s.cache = c
}

// SetSnapshotTTL allows setting how long a synthesized fleet is reused.
func (s *FleetService) SetSnapshotTTL(ttl time.Duration) {
	if ttl > 0 {
		s.snapshotTTL = ttl
	}
}

// SetBroadcaster allows setting the viewer broadcaster notified on reloads.
func (s *FleetService) SetBroadcaster(b websocket.VizBroadcaster) {
	s.broadcaster = b
}

// Load populates the fleet snapshot: from the snapshot cache when a fresh
// enough fleet exists for this source, otherwise by fetching and synthesizing
// the dataset. On a fetch or parse failure the fleet degrades to empty and
// the error is returned for reporting; every view keeps rendering.
func (s *FleetService) Load(ctx context.Context) error {
	source := s.loader.Source()

	if s.cache != nil {
		cached, err := s.cache.GetFleetSnapshot(source)
		if err != nil {
			log.Printf("Snapshot cache error for %s: %v", source, err)
		}
		if cached != nil {
			s.install(cached)
			log.Printf("Reusing cached fleet snapshot for %s (%d vehicles)", source, len(cached))
			return nil
		}
	}

	rows, err := s.loader.Load(ctx)
	if err != nil {
		log.Printf("Failed to load dataset %s: %v", source, err)
		s.install([]models.Vehicle{})
		return fmt.Errorf("dataset load failed: %w", err)
	}

	vehicles := synth.Synthesize(rows, time.Now())
	s.install(vehicles)
	log.Printf("Synthesized fleet of %d vehicles from %s (%d rows)", len(vehicles), source, len(rows))

	if s.cache != nil {
		if err := s.cache.SetFleetSnapshot(source, vehicles, s.snapshotTTL); err != nil {
			log.Printf("Failed to cache fleet snapshot: %v", err)
		}
	}
	return nil
}

// Reload drops any cached snapshot and loads fresh. Vehicle ids are
// reassigned, so previously shown ids may no longer resolve.
func (s *FleetService) Reload(ctx context.Context) error {
	if s.cache != nil {
		if err := s.cache.InvalidateFleetSnapshot(s.loader.Source()); err != nil {
			log.Printf("Failed to invalidate fleet snapshot: %v", err)
		}
	}
	return s.Load(ctx)
}

func (s *FleetService) install(vehicles []models.Vehicle) {
	s.mu.Lock()
	s.vehicles = vehicles
	s.loadedAt = time.Now()
	s.mu.Unlock()

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(websocket.VizCommand{
			Type:      websocket.CommandFleetReloaded,
			FleetSize: len(vehicles),
		})
	}
}

// Vehicles returns a copy of the fleet snapshot.
func (s *FleetService) Vehicles() []models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Vehicle, len(s.vehicles))
	copy(out, s.vehicles)
	return out
}

// LoadedAt reports when the current snapshot was installed.
func (s *FleetService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// VehicleByID finds a vehicle in the current snapshot. A stale id from a
// previous load simply misses.
func (s *FleetService) VehicleByID(id int) (models.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vehicle{}, false
}

// List vehicle sort keys.
const (
	SortByID          = "id"
	SortByName        = "name"
	SortByHealth      = "health"
	SortByIssues      = "issues"
	SortByNextService = "nextService"
)

// ListVehicles filters the fleet by a case-insensitive name match, sorts by
// the given key and returns the requested page plus the filtered total.
func (s *FleetService) ListVehicles(query, sortKey string, page, limit int) ([]models.Vehicle, int) {
	vehicles := s.Vehicles()

	if query != "" {
		q := strings.ToLower(query)
		filtered := vehicles[:0]
		for _, v := range vehicles {
			if strings.Contains(strings.ToLower(v.Name), q) {
				filtered = append(filtered, v)
			}
		}
		vehicles = filtered
	}

	switch sortKey {
	case SortByName:
		sort.SliceStable(vehicles, func(i, j int) bool { return vehicles[i].Name < vehicles[j].Name })
	case SortByHealth:
		sort.SliceStable(vehicles, func(i, j int) bool { return vehicles[i].Health > vehicles[j].Health })
	case SortByIssues:
		sort.SliceStable(vehicles, func(i, j int) bool { return vehicles[i].Issues > vehicles[j].Issues })
	case SortByNextService:
		sort.SliceStable(vehicles, func(i, j int) bool { return vehicles[i].NextService < vehicles[j].NextService })
	default:
		// snapshot order is id order
	}

	total := len(vehicles)
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= total {
		return []models.Vehicle{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return vehicles[start:end], total
}

// DashboardSummary is the aggregate card row plus both trend series for the
// current month.
type DashboardSummary struct {
	TotalVehicles     int                 `json:"totalVehicles"`
	AverageHealth     int                 `json:"averageHealth"`
	ActiveMaintenance int                 `json:"activeMaintenance"`
	PredictedFailures int                 `json:"predictedFailures"`
	UpcomingServices  int                 `json:"upcomingServices"`
	HealthTrend       []models.TrendPoint `json:"healthTrend"`
	FailureTrend      []models.TrendPoint `json:"failureTrend"`
}

// upcomingServiceWindow is how far out a next-service date still counts as
// "upcoming" on the dashboard card.
const upcomingServiceWindow = 14 * 24 * time.Hour

// Dashboard computes the aggregate view as of now. An empty fleet yields
// zero cards and zeroed 4-point trend series.
func (s *FleetService) Dashboard(now time.Time) DashboardSummary {
	vehicles := s.Vehicles()

	summary := DashboardSummary{TotalVehicles: len(vehicles)}

	healthSum := 0
	failureTotal := 0
	for _, v := range vehicles {
		healthSum += v.Health
		failureTotal += v.Issues
		if v.InMaintenance {
			summary.ActiveMaintenance++
		}
		if v.Issues > 0 {
			summary.PredictedFailures++
		}
		if next, err := time.Parse("2006-01-02", v.NextService); err == nil {
			if d := next.Sub(now); d >= 0 && d <= upcomingServiceWindow {
				summary.UpcomingServices++
			}
		}
	}

	avgHealth := 0.0
	if len(vehicles) > 0 {
		avgHealth = float64(healthSum) / float64(len(vehicles))
		summary.AverageHealth = int(math.Round(avgHealth))
	}

	summary.HealthTrend = trend.HealthTrend(avgHealth, now.Year(), now.Month())
	summary.FailureTrend = trend.FailureTrend(failureTotal, now.Year(), now.Month())
	return summary
}

// HealthTrendFor computes the 4-week health series for a displayed month.
func (s *FleetService) HealthTrendFor(year int, month time.Month) []models.TrendPoint {
	vehicles := s.Vehicles()

	avg := 0.0
	if len(vehicles) > 0 {
		sum := 0
		for _, v := range vehicles {
			sum += v.Health
		}
		avg = float64(sum) / float64(len(vehicles))
	}
	return trend.HealthTrend(avg, year, month)
}

// FailureTrendFor computes the 4-week failure series for a displayed month.
func (s *FleetService) FailureTrendFor(year int, month time.Month) []models.TrendPoint {
	total := 0
	for _, v := range s.Vehicles() {
		total += v.Issues
	}
	return trend.FailureTrend(total, year, month)
}

// MaintenanceEntry is one row of the active-maintenance view.
type MaintenanceEntry struct {
	Vehicle models.Vehicle    `json:"vehicle"`
	Repair  models.RepairInfo `json:"repair"`
}

// ActiveMaintenance lists vehicles under repair with their derived repair
// info as of now.
func (s *FleetService) ActiveMaintenance(now time.Time) []MaintenanceEntry {
	entries := make([]MaintenanceEntry, 0)
	for _, v := range s.Vehicles() {
		if !v.InMaintenance {
			continue
		}
		entries = append(entries, MaintenanceEntry{
			Vehicle: v,
			Repair:  derive.RepairInfoFor(v, derive.RepairOverride{}, now),
		})
	}
	return entries
}

// PredictedFailures lists vehicles with unresolved issues and their assigned
// issue types.
func (s *FleetService) PredictedFailures() []models.FailurePrediction {
	return derive.Predict(s.Vehicles())
}

// ScheduleView is the scheduling screen: month grid plus the ranked pending
// list.
type ScheduleView struct {
	Grid      schedule.MonthGrid        `json:"grid"`
	Pending   []schedule.PendingVehicle `json:"pending"`
	Scheduled int                       `json:"scheduled"` // vehicles with a parseable next-service date
}

// Schedule projects the fleet onto the displayed month.
func (s *FleetService) Schedule(year int, month time.Month, now time.Time) ScheduleView {
	vehicles := s.Vehicles()

	scheduled := 0
	for _, v := range vehicles {
		if _, err := time.Parse("2006-01-02", v.NextService); err == nil {
			scheduled++
		}
	}

	return ScheduleView{
		Grid:      schedule.Project(vehicles, year, month, now),
		Pending:   schedule.Pending(vehicles),
		Scheduled: scheduled,
	}
}

// History regenerates a vehicle's maintenance log. issuesOverride is the
// exact unresolved count another view already displayed; when nil the
// vehicle's own issue count is used. The second return is false for a stale
// or unknown id.
func (s *FleetService) History(id int, issuesOverride *int, now time.Time) ([]models.HistoryEvent, models.Vehicle, bool) {
	v, ok := s.VehicleByID(id)
	if !ok {
		return nil, models.Vehicle{}, false
	}

	pending := v.Issues
	if issuesOverride != nil {
		pending = *issuesOverride
	}
	return derive.BuildHistory(v, pending, now), v, true
}
