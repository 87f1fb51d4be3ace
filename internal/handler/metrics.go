package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prompt_server_generation_outcomes_total",
		Help: "Total number of prompt submissions by rendered outcome.",
	}, []string{"outcome"})
)
