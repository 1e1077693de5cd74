package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "workspace_agent"

	// Labels
	outcomeLabel = "outcome"
	serviceLabel = "service"
	actionLabel  = "action"
)

/**
* Metrics definition
**/
var jobsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_total",
		Help:      "pipeline runs by final outcome",
	},
	[]string{outcomeLabel},
)

var jobPollsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_polls_total",
		Help:      "status requests issued against the pipeline runner",
	},
)

var requestsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "agent requests by routed service, action and outcome",
	},
	[]string{serviceLabel, actionLabel, outcomeLabel},
)

func IncreaseJobsTotal(outcome string) {
	jobsTotalMetric.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func IncreaseJobPolls() {
	jobPollsTotalMetric.Inc()
}

func IncreaseRequestsTotal(service, action, outcome string) {
	requestsTotalMetric.With(prometheus.Labels{
		serviceLabel: service,
		actionLabel:  action,
		outcomeLabel: outcome,
	}).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsTotalMetric)
	prometheus.MustRegister(jobPollsTotalMetric)
	prometheus.MustRegister(requestsTotalMetric)
}
