// Package metrics exposes the size of a DAWG to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/milden6/dawg/v2"
)

// StatsFunc returns the current counts of a graph. A Graph is not safe for
// concurrent use, so a StatsFunc reading one must hold whatever lock guards
// its mutations. A Compact can be read directly.
type StatsFunc func() dawg.Stats

// Collector reports the word, node, edge and equivalence class counts of one
// graph as gauges.
type Collector struct {
	stats StatsFunc

	words   *prometheus.Desc
	nodes   *prometheus.Desc
	edges   *prometheus.Desc
	classes *prometheus.Desc
}

// NewCollector creates a Collector. Metric names are prefixed with
// namespace_dawg_, and labels are attached to every metric.
func NewCollector(namespace string, labels prometheus.Labels, stats StatsFunc) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "dawg", name), help, nil, labels)
	}

	return &Collector{
		stats:   stats,
		words:   desc("words", "Number of words stored."),
		nodes:   desc("nodes", "Number of nodes, including the source."),
		edges:   desc("edges", "Number of transitions."),
		classes: desc("equivalence_classes", "Number of registered equivalence classes."),
	}
}

// ForFinder returns a StatsFunc reading f directly.
func ForFinder(f dawg.Finder) StatsFunc {
	return f.Stats
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.words
	ch <- c.nodes
	ch <- c.edges
	ch <- c.classes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.words, prometheus.GaugeValue, float64(s.Words))
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(s.Nodes))
	ch <- prometheus.MustNewConstMetric(c.edges, prometheus.GaugeValue, float64(s.Edges))
	ch <- prometheus.MustNewConstMetric(c.classes, prometheus.GaugeValue, float64(s.Classes))
}
