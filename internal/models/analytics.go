package models

// AnalyticsSnapshot is a point-in-time copy of the running usage aggregates.
// Counters only grow within a process lifetime; nothing here is persisted.
type AnalyticsSnapshot struct {
	TotalWords    int64            `json:"total_words"`
	TotalDocs     int64            `json:"total_documents"`
	TotalLength   int64            `json:"total_length"`
	AverageLength float64          `json:"average_length"`
	Successes     int64            `json:"successes"`
	Failures      int64            `json:"failures"`
	Exports       int64            `json:"exports"`
	Daily         map[string]int64 `json:"daily"`
	Hourly        [24]int64        `json:"hourly"`
	Fonts         map[string]int64 `json:"fonts"`
	WordFrequency map[string]int64 `json:"word_frequency"`
}

// TimeSeriesPoint represents a point in time-series data
type TimeSeriesPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Value int64  `json:"value"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int64  `json:"count"`
}

// AnalyticsSeries is the windowed view served by /analytics/data.
type AnalyticsSeries struct {
	Days          int               `json:"days"`
	Daily         []TimeSeriesPoint `json:"daily"`
	Hourly        [24]int64         `json:"hourly"`
	Fonts         map[string]int64  `json:"fonts"`
	TopWords      []WordCount       `json:"top_words"`
	AverageLength float64           `json:"average_length"`
	Successes     int64             `json:"successes"`
	Failures      int64             `json:"failures"`
}
