package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// FeedLoads считает загрузки ленты по источнику и исходу
	FeedLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imagefeed_loads_total",
		Help: "Total number of feed loads",
	}, []string{"source", "outcome"})

	// CacheSaves считает сохранения снимка ленты в кэш
	CacheSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imagefeed_cache_saves_total",
		Help: "Total number of feed cache saves",
	}, []string{"outcome"})

	// FeedImages хранит число изображений в последней успешной загрузке
	FeedImages = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "imagefeed_images",
		Help: "Number of images in the last successfully loaded feed",
	})
)

// RecordLoad фиксирует исход загрузки ленты из указанного источника.
func RecordLoad(source string, count int, err error) {
	if err != nil {
		FeedLoads.WithLabelValues(source, OutcomeError).Inc()
		return
	}
	FeedLoads.WithLabelValues(source, OutcomeSuccess).Inc()
	FeedImages.Set(float64(count))
}

// RecordSave фиксирует исход сохранения ленты в кэш.
func RecordSave(err error) {
	if err != nil {
		CacheSaves.WithLabelValues(OutcomeError).Inc()
		return
	}
	CacheSaves.WithLabelValues(OutcomeSuccess).Inc()
}
