package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/history"
	"github.com/aircast/aircast/internal/observation"
	"github.com/aircast/aircast/pkg/geo"
)

// Resolver resolves a coordinate into an observation.
type Resolver interface {
	Resolve(ctx context.Context, query geo.Coordinate) (*observation.Observation, error)
}

// CaptureJob resolves observations for configured points and records
// them in the history store. Stored records back the prediction
// fallback when live lookups fail.
type CaptureJob struct {
	config   CaptureConfig
	resolver Resolver
	store    history.Repository
	logger   zerolog.Logger

	metrics *CaptureMetrics
}

// CaptureMetrics tracks capture job statistics.
type CaptureMetrics struct {
	mu sync.RWMutex

	TotalRuns          int64
	SuccessfulCaptures int64
	FailedCaptures     int64
	StationMisses      int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
}

// CaptureJobConfig holds configuration for creating a CaptureJob.
type CaptureJobConfig struct {
	Config   CaptureConfig
	Resolver Resolver
	Store    history.Repository
	Logger   zerolog.Logger
}

// NewCaptureJob creates a new capture job processor.
func NewCaptureJob(cfg CaptureJobConfig) *CaptureJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config.Targets = DefaultCaptureTargets()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &CaptureJob{
		config:   config,
		resolver: cfg.Resolver,
		store:    cfg.Store,
		logger:   cfg.Logger,
		metrics:  &CaptureMetrics{},
	}
}

// CaptureResult contains the result of a capture run.
type CaptureResult struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalPoints   int
	Successful    int
	Failed        int
	StationMisses int
	Errors        []CaptureError
}

// CaptureError represents an error during capture.
type CaptureError struct {
	Point geo.Coordinate
	Error string
}

// Run executes the capture job for all configured targets.
func (j *CaptureJob) Run(ctx context.Context) *CaptureResult {
	startTime := time.Now()
	result := &CaptureResult{
		StartTime:   startTime,
		TotalPoints: j.config.TotalPoints(),
	}

	j.logger.Info().
		Int("total_points", result.TotalPoints).
		Int("concurrency", j.config.Concurrency).
		Msg("starting observation capture job")

	points := j.config.AllPoints()

	pointsChan := make(chan geo.Coordinate, len(points))
	resultsChan := make(chan pointResult, len(points))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.captureWorker(ctx, pointsChan, resultsChan)
		}()
	}

	for _, p := range points {
		pointsChan <- p
	}
	close(pointsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for pr := range resultsChan {
		if pr.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, CaptureError{
				Point: pr.point,
				Error: pr.err.Error(),
			})
			continue
		}
		result.Successful++
		if pr.stationMiss {
			result.StationMisses++
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("station_misses", result.StationMisses).
		Msg("observation capture job completed")

	return result
}

type pointResult struct {
	point       geo.Coordinate
	stationMiss bool
	err         error
}

func (j *CaptureJob) captureWorker(ctx context.Context, points <-chan geo.Coordinate, results chan<- pointResult) {
	for point := range points {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.capturePoint(ctx, point)
		}
	}
}

func (j *CaptureJob) capturePoint(ctx context.Context, point geo.Coordinate) pointResult {
	pointCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	obs, err := j.resolver.Resolve(pointCtx, point)
	if err != nil {
		return pointResult{point: point, err: err}
	}

	record := recordFromObservation(obs)
	if err := j.store.Insert(pointCtx, record); err != nil {
		return pointResult{point: point, err: err}
	}

	return pointResult{point: point, stationMiss: !obs.HasStation()}
}

// recordFromObservation converts a resolved observation into a history record.
func recordFromObservation(obs *observation.Observation) *history.Record {
	record := &history.Record{
		Location:         obs.Location,
		PM25:             obs.PM25,
		PM10:             obs.PM10,
		Temperature:      obs.Temperature,
		RelativeHumidity: obs.RelativeHumidity,
		WindSpeed:        obs.WindSpeed,
		RecordedAt:       obs.ResolvedAt,
	}
	if obs.Station != nil {
		record.StationID = obs.Station.ID
	}
	return record
}

func (j *CaptureJob) updateMetrics(result *CaptureResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulCaptures += int64(result.Successful)
	j.metrics.FailedCaptures += int64(result.Failed)
	j.metrics.StationMisses += int64(result.StationMisses)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *CaptureJob) GetMetrics() CaptureMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return CaptureMetrics{
		TotalRuns:          j.metrics.TotalRuns,
		SuccessfulCaptures: j.metrics.SuccessfulCaptures,
		FailedCaptures:     j.metrics.FailedCaptures,
		StationMisses:      j.metrics.StationMisses,
		LastRunAt:          j.metrics.LastRunAt,
		LastRunDuration:    j.metrics.LastRunDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *CaptureJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":          m.TotalRuns,
		"successful_captures": m.SuccessfulCaptures,
		"failed_captures":     m.FailedCaptures,
		"station_misses":      m.StationMisses,
		"last_run_at":         m.LastRunAt,
		"last_run_duration":   m.LastRunDuration.String(),
	}
}
