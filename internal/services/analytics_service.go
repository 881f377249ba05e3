package services

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/banglish/backend/internal/models"
)

const (
	DefaultSeriesDays = 7
	MaxSeriesDays     = 365
	topWordsLimit     = 20
	dayLayout         = "2006-01-02"
)

// Analytics owns the process-wide usage counters. All state lives in a
// single goroutine; callers only exchange messages with it, so no two
// updates ever interleave.
type Analytics struct {
	ops       chan func(*analyticsState)
	done      chan struct{}
	closeOnce sync.Once
	now       func() time.Time
}

type analyticsState struct {
	totalWords  int64
	totalDocs   int64
	totalLength int64
	successes   int64
	failures    int64
	exports     int64
	daily       map[string]int64
	hourly      [24]int64
	fonts       map[string]int64
	words       map[string]int64
}

// NewAnalytics starts the coordinator. now may be nil.
func NewAnalytics(now func() time.Time) *Analytics {
	if now == nil {
		now = time.Now
	}
	a := &Analytics{
		ops:  make(chan func(*analyticsState)),
		done: make(chan struct{}),
		now:  now,
	}
	go a.run(&analyticsState{
		daily: make(map[string]int64),
		fonts: make(map[string]int64),
		words: make(map[string]int64),
	})
	return a
}

func (a *Analytics) run(st *analyticsState) {
	for {
		select {
		case op := <-a.ops:
			op(st)
		case <-a.done:
			return
		}
	}
}

// do hands op to the coordinator. It reports false once Close has been called.
func (a *Analytics) do(op func(*analyticsState)) bool {
	select {
	case <-a.done:
		return false
	default:
	}
	select {
	case a.ops <- op:
		return true
	case <-a.done:
		return false
	}
}

// Close stops the coordinator. Later updates are dropped and reads return
// zero values.
func (a *Analytics) Close() {
	a.closeOnce.Do(func() { close(a.done) })
}

// Record accounts one successful conversion. banglish and font may be empty.
func (a *Analytics) Record(bengali, banglish, font string) {
	at := a.now().UTC()
	words := int64(len(strings.Fields(bengali)))
	length := int64(utf8.RuneCountInString(bengali))
	tokens := sourceTokens(banglish)
	font = strings.TrimSpace(font)

	a.do(func(st *analyticsState) {
		st.totalWords += words
		st.totalDocs++
		st.totalLength += length
		st.successes++
		st.daily[at.Format(dayLayout)]++
		st.hourly[at.Hour()]++
		if font != "" {
			st.fonts[font]++
		}
		for _, w := range tokens {
			st.words[w]++
		}
	})
}

// RecordFailure accounts one failed conversion.
func (a *Analytics) RecordFailure() {
	a.do(func(st *analyticsState) { st.failures++ })
}

// RecordExport accounts one document export rendered with font.
func (a *Analytics) RecordExport(font string) {
	font = strings.TrimSpace(font)
	a.do(func(st *analyticsState) {
		st.exports++
		if font != "" {
			st.fonts[font]++
		}
	})
}

// Snapshot returns a copy of every counter.
func (a *Analytics) Snapshot() models.AnalyticsSnapshot {
	reply := make(chan models.AnalyticsSnapshot, 1)
	if !a.do(func(st *analyticsState) { reply <- st.snapshot() }) {
		return emptySnapshot()
	}
	return <-reply
}

// Series returns the last days days of daily counts (oldest first, zero
// filled) together with the hourly histogram and the most frequent words.
func (a *Analytics) Series(days int) models.AnalyticsSeries {
	if days <= 0 {
		days = DefaultSeriesDays
	}
	if days > MaxSeriesDays {
		days = MaxSeriesDays
	}
	today := a.now().UTC()

	reply := make(chan models.AnalyticsSeries, 1)
	ok := a.do(func(st *analyticsState) {
		out := models.AnalyticsSeries{
			Days:          days,
			Daily:         make([]models.TimeSeriesPoint, 0, days),
			Hourly:        st.hourly,
			Fonts:         copyCounts(st.fonts),
			TopWords:      topWords(st.words, topWordsLimit),
			AverageLength: st.average(),
			Successes:     st.successes,
			Failures:      st.failures,
		}
		for i := days - 1; i >= 0; i-- {
			d := today.AddDate(0, 0, -i).Format(dayLayout)
			out.Daily = append(out.Daily, models.TimeSeriesPoint{Date: d, Value: st.daily[d]})
		}
		reply <- out
	})
	if !ok {
		return models.AnalyticsSeries{Days: days, Daily: []models.TimeSeriesPoint{}, Fonts: map[string]int64{}, TopWords: []models.WordCount{}}
	}
	return <-reply
}

func (st *analyticsState) average() float64 {
	if st.totalDocs == 0 {
		return 0
	}
	return float64(st.totalLength) / float64(st.totalDocs)
}

func (st *analyticsState) snapshot() models.AnalyticsSnapshot {
	return models.AnalyticsSnapshot{
		TotalWords:    st.totalWords,
		TotalDocs:     st.totalDocs,
		TotalLength:   st.totalLength,
		AverageLength: st.average(),
		Successes:     st.successes,
		Failures:      st.failures,
		Exports:       st.exports,
		Daily:         copyCounts(st.daily),
		Hourly:        st.hourly,
		Fonts:         copyCounts(st.fonts),
		WordFrequency: copyCounts(st.words),
	}
}

func emptySnapshot() models.AnalyticsSnapshot {
	return models.AnalyticsSnapshot{
		Daily:         map[string]int64{},
		Fonts:         map[string]int64{},
		WordFrequency: map[string]int64{},
	}
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func topWords(counts map[string]int64, n int) []models.WordCount {
	out := make([]models.WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, models.WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// sourceTokens splits text into lowercased word tokens, dropping punctuation.
func sourceTokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) && r != '\''
	})
}
