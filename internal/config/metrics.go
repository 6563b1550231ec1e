package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blog_config_load_timestamp",
		Help: "Unix timestamp of the last successful configuration load",
	})

	validationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_config_validation_errors_total",
		Help: "Total number of rejected configurations by section",
	}, []string{"section"})
)
