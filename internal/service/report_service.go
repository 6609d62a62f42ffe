package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"order-analytics/internal/analytics"
	"order-analytics/internal/dataset"
	"order-analytics/internal/exporter"
	"order-analytics/internal/models"
	"order-analytics/internal/redisclient"
	"order-analytics/internal/report"
	"order-analytics/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Report kinds, used as cache key segments and metric labels
const (
	KindDaily      = "daily"
	KindRFM        = "rfm"
	KindSummary    = "rfm_summary"
	KindBreakdowns = "breakdowns"
	KindExport     = "export"
)

// Cache stores rendered reports across processes
type Cache interface {
	GetJSON(ctx context.Context, key string, v interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// Locker guards work that only one process should do. A Cache that also
// implements Locker is used for it.
type Locker interface {
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
}

// publishLockTTL bounds how long a publication suppresses the same one elsewhere
const publishLockTTL = 24 * time.Hour

// SegmentPublisher announces freshly computed segments
type SegmentPublisher interface {
	PublishSegmentsComputed(ctx context.Context, event *models.SegmentsComputedEvent) error
}

// Settings tunes the report service
type Settings struct {
	CacheTTL time.Duration
	// Reference pins the RFM reference time. Nil means the time of the request.
	Reference *time.Time
}

// RFMResult is an RFM table together with the time it was scored against
type RFMResult struct {
	Reference time.Time          `json:"reference"`
	Records   []models.RFMRecord `json:"records"`
}

// SummaryResult is an RFM summary together with its reference time
type SummaryResult struct {
	Reference time.Time `json:"reference"`
	analytics.RFMSummary
}

// ReportService answers report queries over a loaded dataset
type ReportService struct {
	dataset   *dataset.Dataset
	cache     Cache
	publisher SegmentPublisher
	settings  Settings
	now       func() time.Time
	logger    *zap.Logger
}

// NewReportService creates a new report service. cache and publisher may be nil.
func NewReportService(ds *dataset.Dataset, cache Cache, publisher SegmentPublisher, settings Settings) *ReportService {
	return &ReportService{
		dataset:   ds,
		cache:     cache,
		publisher: publisher,
		settings:  settings,
		now:       time.Now,
		logger:    util.GetLogger(),
	}
}

// Dataset returns the dataset reports are computed from
func (s *ReportService) Dataset() *dataset.Dataset {
	return s.dataset
}

// Reference returns the RFM reference time for a request made now
func (s *ReportService) Reference() time.Time {
	if s.settings.Reference != nil {
		return *s.settings.Reference
	}
	return s.now().UTC()
}

// ResolveRange builds the report range from optional bounds. A missing
// bound is taken from the span of the daily series.
func (s *ReportService) ResolveRange(start, end *time.Time) (report.DateRange, error) {
	def, ok := report.DefaultRange(s.dataset.Daily())
	if !ok && start == nil && end == nil {
		return report.DateRange{}, nil
	}

	from, to := def.Start, def.End
	if start != nil {
		from = *start
	} else if !ok {
		from = *end
	}
	if end != nil {
		to = *end
	} else if !ok {
		to = *start
	}

	r, err := report.NewRange(from, to)
	if err != nil {
		util.InvalidRangesTotal.Inc()
		return report.DateRange{}, err
	}
	return r, nil
}

// DailyReport returns the daily series restricted to [start, end]
func (s *ReportService) DailyReport(ctx context.Context, start, end *time.Time) (*report.Report, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.DailyReport")
	defer span.End()

	r, err := s.ResolveRange(start, end)
	if err != nil {
		return nil, err
	}

	key := redisclient.Key(s.dataset.ID, KindDaily, r.Key())
	return cached(ctx, s, KindDaily, key, true, func() (*report.Report, error) {
		return report.Filter(s.dataset.Daily(), r)
	})
}

// RFM scores every customer against the reference time
func (s *ReportService) RFM(ctx context.Context) (*RFMResult, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.RFM")
	defer span.End()

	ref := s.Reference()
	key := redisclient.Key(s.dataset.ID, KindRFM, ref.Format(time.RFC3339))
	return cached(ctx, s, KindRFM, key, s.settings.Reference != nil, func() (*RFMResult, error) {
		return &RFMResult{Reference: ref, Records: s.dataset.RFM(ref)}, nil
	})
}

// RFMSummary returns segment counts, score distribution and heatmap
func (s *ReportService) RFMSummary(ctx context.Context) (*SummaryResult, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.RFMSummary")
	defer span.End()

	ref := s.Reference()
	key := redisclient.Key(s.dataset.ID, KindSummary, ref.Format(time.RFC3339))
	return cached(ctx, s, KindSummary, key, s.settings.Reference != nil, func() (*SummaryResult, error) {
		return &SummaryResult{Reference: ref, RFMSummary: analytics.Summarize(s.dataset.RFM(ref))}, nil
	})
}

// Breakdowns returns the payment, status, product and zip code breakdowns
func (s *ReportService) Breakdowns(ctx context.Context) (*analytics.Breakdowns, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Breakdowns")
	defer span.End()

	key := redisclient.Key(s.dataset.ID, KindBreakdowns)
	return cached(ctx, s, KindBreakdowns, key, true, func() (*analytics.Breakdowns, error) {
		b := s.dataset.Breakdowns()
		return &b, nil
	})
}

// Export writes a workbook with the daily report for [start, end], the RFM
// table and the breakdowns
func (s *ReportService) Export(ctx context.Context, w io.Writer, start, end *time.Time) error {
	ctx, span := util.StartSpan(ctx, "ReportService.Export")
	defer span.End()

	timer := time.Now()

	daily, err := s.DailyReport(ctx, start, end)
	if err != nil {
		return err
	}
	rfm, err := s.RFM(ctx)
	if err != nil {
		return err
	}
	breakdowns, err := s.Breakdowns(ctx)
	if err != nil {
		return err
	}
	summary := analytics.Summarize(rfm.Records)

	if err := exporter.Write(w, exporter.Workbook{
		Daily:      daily,
		RFM:        rfm.Records,
		Summary:    &summary,
		Breakdowns: breakdowns,
	}); err != nil {
		return fmt.Errorf("failed to export workbook: %w", err)
	}

	util.ReportsGeneratedTotal.WithLabelValues(KindExport).Inc()
	util.ReportLatency.WithLabelValues(KindExport).Observe(time.Since(timer).Seconds())
	return nil
}

// PublishSegments scores customers and announces the segment counts. It is
// a no-op returning nil without a publisher, or when another process already
// published for the same dataset and reference time.
func (s *ReportService) PublishSegments(ctx context.Context) (*models.SegmentsComputedEvent, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.PublishSegments")
	defer span.End()

	if s.publisher == nil {
		return nil, nil
	}

	ref := s.Reference()

	lockKey := redisclient.Key(s.dataset.ID, "segments", ref.Format(time.RFC3339))
	locker, _ := s.cache.(Locker)
	if locker != nil {
		acquired, err := locker.AcquireLock(ctx, lockKey, publishLockTTL)
		if err != nil {
			s.logger.Warn("Publish lock unavailable, publishing anyway", zap.Error(err))
			locker = nil
		} else if !acquired {
			s.logger.Info("Segments already published", zap.String("dataset_id", s.dataset.ID))
			return nil, nil
		}
	}

	rfm := s.dataset.RFM(ref)

	event := &models.SegmentsComputedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSegmentsComputed,
			Timestamp: s.now().UTC(),
		},
		DatasetID:     s.dataset.ID,
		ReferenceTime: ref,
		Customers:     len(rfm),
		Segments:      analytics.SegmentCounts(rfm),
	}

	if err := s.publisher.PublishSegmentsComputed(ctx, event); err != nil {
		util.SegmentEventsPublished.WithLabelValues("error").Inc()
		if locker != nil {
			if err := locker.ReleaseLock(ctx, lockKey); err != nil {
				s.logger.Warn("Failed to release publish lock", zap.Error(err))
			}
		}
		return nil, fmt.Errorf("failed to publish segments: %w", err)
	}

	util.SegmentEventsPublished.WithLabelValues("ok").Inc()
	s.logger.Info("Segments published",
		zap.String("event_id", event.EventID),
		zap.Int("customers", event.Customers))
	return event, nil
}

// cached serves key from the cache when allowed and present, otherwise
// computes the value and stores it. Cache failures are logged and never fail
// the request.
func cached[T any](ctx context.Context, s *ReportService, kind, key string, cacheable bool, compute func() (T, error)) (T, error) {
	start := time.Now()
	useCache := cacheable && s.cache != nil

	if useCache {
		var v T
		found, err := s.cache.GetJSON(ctx, key, &v)
		if err != nil {
			s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		if found {
			util.CacheHitsTotal.Inc()
			return v, nil
		}
		util.CacheMissesTotal.Inc()
	}

	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	util.ReportsGeneratedTotal.WithLabelValues(kind).Inc()
	util.ReportLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if useCache {
		if err := s.cache.SetJSON(ctx, key, v, s.settings.CacheTTL); err != nil {
			s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return v, nil
}
