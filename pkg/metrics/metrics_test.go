package metrics_test

import (
	"sync"
	"testing"
	"time"

	"github.com/vanderheijden86/taskpeek/pkg/metrics"
)

func TestTimingMetricRecord(t *testing.T) {
	metrics.ResetAll()
	metrics.PeekLoad.Record(10 * time.Millisecond)
	metrics.PeekLoad.Record(30 * time.Millisecond)

	st := metrics.PeekLoad.Stats()
	if st.Count != 2 {
		t.Fatalf("expected count 2, got %d", st.Count)
	}
	if st.MaxMs != 30 || st.MinMs != 10 || st.AvgMs != 20 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestTimerConcurrent(t *testing.T) {
	metrics.ResetAll()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer metrics.Timer(metrics.DepBackfill)()
		}()
	}
	wg.Wait()
	if got := metrics.DepBackfill.Count(); got != 50 {
		t.Errorf("expected 50 measurements, got %d", got)
	}
}

func TestAllTimingStatsSkipsEmpty(t *testing.T) {
	metrics.ResetAll()
	metrics.ListLoad.Record(time.Millisecond)
	stats := metrics.AllTimingStats()
	if len(stats) != 1 || stats[0].Name != "list_load" {
		t.Errorf("expected only list_load, got %+v", stats)
	}
}

func TestCacheMetric(t *testing.T) {
	metrics.ResetAll()
	metrics.StatusCache.Hit()
	metrics.StatusCache.Hit()
	metrics.StatusCache.Hit()
	metrics.StatusCache.Miss()

	st := metrics.StatusCache.Stats()
	if st.Hits != 3 || st.Misses != 1 || st.HitRatio != 0.75 {
		t.Errorf("unexpected cache stats %+v", st)
	}
	if got := metrics.AllCacheStats(); len(got) != 1 {
		t.Errorf("expected 1 cache stat, got %d", len(got))
	}
}

func TestDisabled(t *testing.T) {
	metrics.ResetAll()
	metrics.SetEnabled(false)
	defer metrics.SetEnabled(true)

	metrics.Timer(metrics.CatalogLoad)()
	metrics.StatusCache.Miss()
	if metrics.CatalogLoad.Count() != 0 || metrics.StatusCache.Stats().Misses != 0 {
		t.Error("expected nothing recorded while disabled")
	}
}
