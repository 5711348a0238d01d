// Package metrics exposes the build metadata of netatmo-cli as Prometheus
// metrics. The CLI has no long-running server, so metrics are written in the
// text exposition format, ready for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/54b3r/netatmo-cli/internal/version"
)

// NewRegistry returns a fresh registry carrying netatmo_cli_build_info for
// info. A dedicated registry keeps Go runtime and process collectors out of
// the textfile output.
func NewRegistry(info version.Info) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "netatmo_cli",
		Name:      "build_info",
		Help:      "Build metadata of the netatmo-cli binary. Always 1.",
	}, []string{"version", "commit", "build_date", "goversion"}).
		WithLabelValues(info.Version, info.Commit, info.BuildDate, info.GoVersion).
		Set(1)

	return reg
}

// WriteText gathers g and writes every metric family to w in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
