package metrics

import (
	grpcprometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Registry = prometheus.NewRegistry()

	GRPCMetrics = grpcprometheus.NewServerMetrics(
		func(c *prometheus.CounterOpts) {
			c.Namespace = "GraphEngine"
		},
	)

	PlacementsVisited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "GraphEngine",
		Name:      "placements_visited_total",
		Help:      "number of (node, partition) placements visited while serving a request",
	}, []string{"rpc"})

	SeedsConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "GraphEngine",
		Name:      "sampling_seeds_consumed_total",
		Help:      "number of per-placement seed values consumed during neighbor sampling",
	}, []string{"rpc"})
)

func init() {
	Registry.MustRegister(
		GRPCMetrics,
		PlacementsVisited,
		SeedsConsumed,
	)
	GRPCMetrics.EnableHandlingTimeHistogram(
		func(h *prometheus.HistogramOpts) {
			h.Namespace = "GraphEngine"
		},
	)
}
