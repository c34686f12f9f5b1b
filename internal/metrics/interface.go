// Mask diagnostics for keyed frames
package metrics

import (
	"sort"

	"github.com/cockroachdb/errors"

	"chroma-keyer/internal/core"
)

// ErrUnknownMetric is returned for names that were never registered.
var ErrUnknownMetric = errors.New("metric not found")

// Metric summarizes one alpha mask as a single number.
type Metric interface {
	// Calculate computes the metric value
	Calculate(mask core.Plane) (float64, error)

	GetName() string
	GetDescription() string

	// GetRange returns the value range (min, max)
	GetRange() (float64, float64)
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates an evaluator with the default mask metrics registered.
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

// RegisterDefaultMetrics registers all default metrics
func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("mean_alpha", NewMeanAlpha())
	e.Register("alpha_spread", NewAlphaSpread())
	e.Register("opaque_ratio", NewOpaqueRatio())
	e.Register("transparent_ratio", NewTransparentRatio())
}

// Register registers a metric
func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Names lists registered metrics in sorted order.
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(name string, mask core.Plane) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, errors.Wrapf(ErrUnknownMetric, "%q", name)
	}
	return metric.Calculate(mask)
}

// CalculateAll calculates every registered metric, skipping failures.
func (e *Evaluator) CalculateAll(mask core.Plane) map[string]float64 {
	results := make(map[string]float64)
	for name, metric := range e.metrics {
		if value, err := metric.Calculate(mask); err == nil {
			results[name] = value
		}
	}
	return results
}

// MetricInfo provides metadata about a metric
type MetricInfo struct {
	Name        string
	Description string
	Range       [2]float64 // [min, max]
}

// GetMetricInfo returns information about all metrics
func (e *Evaluator) GetMetricInfo() map[string]MetricInfo {
	info := make(map[string]MetricInfo)
	for name, metric := range e.metrics {
		min, max := metric.GetRange()
		info[name] = MetricInfo{
			Name:        metric.GetName(),
			Description: metric.GetDescription(),
			Range:       [2]float64{min, max},
		}
	}
	return info
}

// MaskReport is the inspect command's view of a final mask.
type MaskReport struct {
	Metrics     map[string]float64 `json:"metrics"`
	Issues      []string           `json:"issues"`
	Suggestions []string           `json:"suggestions"`
}

// GenerateReport computes all metrics and flags masks that look wrong for a
// green screen shot: nothing removed, everything removed, or mostly
// half-transparent.
func (e *Evaluator) GenerateReport(mask core.Plane) MaskReport {
	report := MaskReport{
		Metrics:     e.CalculateAll(mask),
		Issues:      make([]string, 0),
		Suggestions: make([]string, 0),
	}

	opaque, okOpaque := report.Metrics["opaque_ratio"]
	keyed, okKeyed := report.Metrics["transparent_ratio"]

	if okKeyed && keyed == 0 {
		report.Issues = append(report.Issues, "No pixel is fully keyed out")
		report.Suggestions = append(report.Suggestions, "Learn the key color from a background sample or raise the end clip black point")
	}
	if okOpaque && opaque == 0 {
		report.Issues = append(report.Issues, "No pixel is kept opaque")
		report.Suggestions = append(report.Suggestions, "Check the key color or try saturating arithmetic")
	}
	if okOpaque && okKeyed && opaque+keyed < 0.5 {
		report.Issues = append(report.Issues, "Most pixels are partially transparent")
		report.Suggestions = append(report.Suggestions, "Narrow the end clip range to harden mask edges")
	}

	return report
}
