package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	forestBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orgchart_forest_builds_total",
		Help: "Org chart forest builds by result.",
	}, []string{"result"})
	forestBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orgchart_forest_build_duration_seconds",
		Help:    "Time spent filtering, validating and building the org chart forest.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
	forestPeople = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orgchart_forest_people",
		Help: "People in the most recently built forest.",
	})
)
