package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type poolMetric struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
	value     func(*pgxpool.Stat) float64
}

// PoolCollector exports pgxpool statistics as Prometheus metrics.
type PoolCollector struct {
	pool    *pgxpool.Pool
	metrics []poolMetric
}

func newPoolMetric(name, help string, vt prometheus.ValueType, service string, fn func(*pgxpool.Stat) float64) poolMetric {
	return poolMetric{
		desc:      prometheus.NewDesc(name, help, nil, prometheus.Labels{"service": service}),
		valueType: vt,
		value:     fn,
	}
}

// NewPoolCollector builds a collector for pool. The service name becomes a
// constant label on every series.
func NewPoolCollector(pool *pgxpool.Pool, service string) *PoolCollector {
	gauge, counter := prometheus.GaugeValue, prometheus.CounterValue
	return &PoolCollector{
		pool: pool,
		metrics: []poolMetric{
			newPoolMetric("db_pool_acquired_connections", "Connections currently checked out.", gauge, service,
				func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
			newPoolMetric("db_pool_idle_connections", "Connections currently idle.", gauge, service,
				func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
			newPoolMetric("db_pool_total_connections", "Connections currently open.", gauge, service,
				func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
			newPoolMetric("db_pool_max_connections", "Configured connection ceiling.", gauge, service,
				func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
			newPoolMetric("db_pool_acquire_count_total", "Successful acquires.", counter, service,
				func(s *pgxpool.Stat) float64 { return float64(s.AcquireCount()) }),
			newPoolMetric("db_pool_acquire_duration_seconds_total", "Time spent waiting in acquire.", counter, service,
				func(s *pgxpool.Stat) float64 { return s.AcquireDuration().Seconds() }),
			newPoolMetric("db_pool_empty_acquire_count_total", "Acquires that had to wait for a connection.", counter, service,
				func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }),
			newPoolMetric("db_pool_canceled_acquire_count_total", "Acquires canceled by their context.", counter, service,
				func(s *pgxpool.Stat) float64 { return float64(s.CanceledAcquireCount()) }),
		},
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, m.value(stat))
	}
}

// RegisterPoolMetrics registers a PoolCollector with reg.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool, service string) error {
	return reg.Register(NewPoolCollector(pool, service))
}
