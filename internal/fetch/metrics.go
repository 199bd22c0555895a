package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	downloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monthly_candles_downloads_total",
		Help: "Monthly archives downloaded from the remote source.",
	})
	downloadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monthly_candles_download_failures_total",
		Help: "Monthly archive downloads that failed.",
	})
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monthly_candles_cache_hits_total",
		Help: "Month fetches served from the local cache.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monthly_candles_cache_misses_total",
		Help: "Month fetches that had to hit the remote source.",
	})
)
