package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banglish/backend/internal/testutil"
)

func TestAnalytics_AverageLength(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Close()

	a.Record(strings.Repeat("ক", 10), "", "")
	a.Record(strings.Repeat("খ", 20), "", "")

	snap := a.Snapshot()
	assert.Equal(t, int64(2), snap.TotalDocs)
	assert.Equal(t, int64(30), snap.TotalLength)
	assert.InDelta(t, 15.0, snap.AverageLength, 1e-9)
}

func TestAnalytics_Record(t *testing.T) {
	at := time.Date(2026, 10, 15, 14, 5, 0, 0, time.UTC)
	a := NewAnalytics(testutil.FixedClock(at))
	defer a.Close()

	a.Record("আমি ভালো আছি", "Ami valo achi, ami!", "kalpurush")
	a.RecordFailure()
	a.RecordExport("nikosh")

	snap := a.Snapshot()
	assert.Equal(t, int64(3), snap.TotalWords)
	assert.Equal(t, int64(1), snap.TotalDocs)
	assert.Equal(t, int64(1), snap.Successes)
	assert.Equal(t, int64(1), snap.Failures)
	assert.Equal(t, int64(1), snap.Exports)
	assert.Equal(t, int64(1), snap.Daily["2026-10-15"])
	assert.Equal(t, int64(1), snap.Hourly[14])
	assert.Equal(t, map[string]int64{"kalpurush": 1, "nikosh": 1}, snap.Fonts)
	assert.Equal(t, int64(2), snap.WordFrequency["ami"])
	assert.Equal(t, int64(1), snap.WordFrequency["achi"])
}

func TestAnalytics_EmptyAverage(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Close()

	snap := a.Snapshot()
	assert.Zero(t, snap.AverageLength)
	assert.NotNil(t, snap.Daily)
}

func TestAnalytics_SnapshotIsCopy(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Close()

	a.Record("এক", "ek", "")
	snap := a.Snapshot()
	snap.WordFrequency["ek"] = 100

	assert.Equal(t, int64(1), a.Snapshot().WordFrequency["ek"])
}

func TestAnalytics_ConcurrentRecords(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Close()

	const (
		workers = 16
		each    = 50
	)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				a.Record("আমি ভালো", "ami valo", "")
			}
		}()
	}
	wg.Wait()

	snap := a.Snapshot()
	assert.Equal(t, int64(workers*each), snap.TotalDocs)
	assert.Equal(t, int64(workers*each*2), snap.TotalWords)
	assert.Equal(t, int64(workers*each), snap.WordFrequency["valo"])
}

func TestAnalytics_Series(t *testing.T) {
	day := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	clock := day
	a := NewAnalytics(func() time.Time { return clock })
	defer a.Close()

	clock = day.AddDate(0, 0, -2)
	a.Record("এক", "ek", "")
	clock = day
	a.Record("দুই", "dui", "")
	a.Record("তিন", "dui", "")

	series := a.Series(3)
	require.Len(t, series.Daily, 3)
	assert.Equal(t, "2026-10-13", series.Daily[0].Date)
	assert.Equal(t, int64(1), series.Daily[0].Value)
	assert.Equal(t, "2026-10-14", series.Daily[1].Date)
	assert.Equal(t, int64(0), series.Daily[1].Value)
	assert.Equal(t, "2026-10-15", series.Daily[2].Date)
	assert.Equal(t, int64(2), series.Daily[2].Value)

	require.NotEmpty(t, series.TopWords)
	assert.Equal(t, "dui", series.TopWords[0].Word)
	assert.Equal(t, int64(2), series.TopWords[0].Count)
	assert.Equal(t, int64(3), series.Successes)
}

func TestAnalytics_SeriesBounds(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Close()

	assert.Len(t, a.Series(0).Daily, DefaultSeriesDays)
	assert.Len(t, a.Series(-4).Daily, DefaultSeriesDays)
	assert.Len(t, a.Series(10000).Daily, MaxSeriesDays)
}

func TestAnalytics_Closed(t *testing.T) {
	a := NewAnalytics(nil)
	a.Record("এক", "ek", "")
	a.Close()
	a.Close()

	a.Record("দুই", "dui", "")
	assert.Zero(t, a.Snapshot().TotalDocs)
	assert.Len(t, a.Series(2).Daily, 2)
}
