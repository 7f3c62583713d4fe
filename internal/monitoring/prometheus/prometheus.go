// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
)

var _ monitoring.MonitorInterface = (*Monitor)(nil)

type Monitor struct {
	service string

	responseTime *prometheus.HistogramVec
	dependencies *prometheus.GaugeVec

	logger logging.LoggerInterface
}

func (m *Monitor) GetService() string {
	return m.service
}

func (m *Monitor) SetResponseTimeMetric(tags map[string]string, value float64) error {
	route, ok := tags["route"]
	if !ok {
		return fmt.Errorf("missing route tag")
	}

	status, ok := tags["status"]
	if !ok {
		return fmt.Errorf("missing status tag")
	}

	m.responseTime.WithLabelValues(route, status).Observe(value)

	return nil
}

func (m *Monitor) SetDependencyAvailability(tags map[string]string, value float64) error {
	component, ok := tags["component"]
	if !ok {
		return fmt.Errorf("missing component tag")
	}

	m.dependencies.WithLabelValues(component).Set(value)

	return nil
}

func (m *Monitor) register(c prometheus.Collector) prometheus.Collector {
	err := prometheus.Register(c)
	if err == nil {
		return c
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector
	}

	m.logger.Errorf("failed to register metric: %v", err)
	return c
}

func NewMonitor(service string, logger logging.LoggerInterface) *Monitor {
	m := new(Monitor)

	m.service = service
	m.logger = logger

	m.responseTime = m.register(
		prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_response_time_seconds",
				Help:        "http response time in seconds",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"route", "status"},
		),
	).(*prometheus.HistogramVec)

	m.dependencies = m.register(
		prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "dependency_available",
				Help:        "availability of external dependencies, 1 means reachable",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"component"},
		),
	).(*prometheus.GaugeVec)

	return m
}
