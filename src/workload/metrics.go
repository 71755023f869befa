package workload

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/danmuck/sorted_list/src/oplog"
)

const (
	resultHit  = "hit"
	resultMiss = "miss"
)

// Metrics counts what the workers did during one run. Each run owns its own
// registry so concurrent runs (and tests) do not share counters.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	outcomes   *prometheus.CounterVec
	sendErrors prometheus.Counter
	linesWrote prometheus.Counter
	listLength prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sorted_list_operations_total",
			Help: "List operations performed by workers, by action",
		}, []string{"action"}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sorted_list_lookup_results_total",
			Help: "Delete and search outcomes, by action and result",
		}, []string{"action", "result"}),
		sendErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "sorted_list_log_send_errors_total",
			Help: "Log entries workers failed to hand to the logger",
		}),
		linesWrote: factory.NewCounter(prometheus.CounterOpts{
			Name: "sorted_list_log_lines_total",
			Help: "Lines appended to the operation log",
		}),
		listLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sorted_list_length",
			Help: "Node count of the list at the end of the run",
		}),
	}
}

// finish records the end-of-run log line count and list length.
func (m *Metrics) finish(lines, length int) {
	m.linesWrote.Add(float64(lines))
	m.listLength.Set(float64(length))
}

// Snapshot gathers the registry and flattens every counter and gauge sample
// into a name{label=value,...} key.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := sampleKey(family.GetName(), metric.GetLabel())
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				out[key] = metric.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[key] = metric.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

func sampleKey(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	pairs := make([]string, 0, len(labels))
	for _, l := range labels {
		pairs = append(pairs, l.GetName()+"="+l.GetValue())
	}
	return name + "{" + strings.Join(pairs, ",") + "}"
}

func (m *Metrics) observe(op Op, result bool) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op.Action.String()).Inc()
	if op.Action == oplog.ActionInsert {
		return
	}
	label := resultMiss
	if result {
		label = resultHit
	}
	m.outcomes.WithLabelValues(op.Action.String(), label).Inc()
}

func (m *Metrics) sendFailed() {
	if m == nil {
		return
	}
	m.sendErrors.Inc()
}

func (m *Metrics) Operations(a oplog.Action) int {
	return counterValue(m.operations.WithLabelValues(a.String()))
}

func (m *Metrics) Hits(a oplog.Action) int {
	return counterValue(m.outcomes.WithLabelValues(a.String(), resultHit))
}

func (m *Metrics) Misses(a oplog.Action) int {
	return counterValue(m.outcomes.WithLabelValues(a.String(), resultMiss))
}

func (m *Metrics) SendErrors() int {
	return counterValue(m.sendErrors)
}

func counterValue(c prometheus.Counter) int {
	var out dto.Metric
	if err := c.Write(&out); err != nil {
		return 0
	}
	return int(out.GetCounter().GetValue())
}
