// Package otel provides OpenTelemetry integration for pasbp predictor metrics.
//
// # Overview
//
// This package implements the pasbp.MetricsCollector interface using OpenTelemetry.
// The package is a separate module to keep the pasbp core lightweight: simulators
// that don't export metrics don't pay for the OTEL dependencies.
//
// # Installation
//
//	go get github.com/agilira/pasbp/otel
//
// # Quick Start
//
// Basic setup with Prometheus exporter:
//
//	import (
//	    "github.com/agilira/pasbp"
//	    pasbpotel "github.com/agilira/pasbp/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	metricsCollector, err := pasbpotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := pasbp.DefaultConfig()
//	cfg.MetricsCollector = metricsCollector
//	pred := pasbp.MustNewPredictor(cfg)
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":2112", nil))
//
// # Metrics Exposed
//
// Counters:
//   - pasbp_lookups_total: conditional branch predictions
//   - pasbp_predicted_taken_total: predictions that said taken
//   - pasbp_correct_total: resolved branches predicted correctly
//   - pasbp_mispredictions_total: resolved branches mispredicted
//   - pasbp_squashes_total: lookups rolled back by a pipeline flush
//   - pasbp_uncond_branches_total: unconditional branches
//   - pasbp_btb_corrections_total: taken predictions turned into fall-throughs
//
// Histogram:
//   - pasbp_counter_value: the saturating counter value each prediction was read
//     from; mass near the middle buckets means weakly trained counters
//
// # Configuration
//
// Custom meter name, one per simulated core:
//
//	collector, err := pasbpotel.NewOTelMetricsCollector(
//	    provider,
//	    pasbpotel.WithMeterName("core0_branch_predictor"),
//	)
//
// # Prometheus Queries
//
// Misprediction rate (last 5 minutes):
//
//	rate(pasbp_mispredictions_total[5m]) /
//	(rate(pasbp_correct_total[5m]) + rate(pasbp_mispredictions_total[5m]))
//
// Share of lookups that are squashed:
//
//	rate(pasbp_squashes_total[5m]) / rate(pasbp_lookups_total[5m])
//
// Taken bias:
//
//	rate(pasbp_predicted_taken_total[5m]) / rate(pasbp_lookups_total[5m])
//
// See examples/otel-prometheus/ for a runnable setup.
//
// # Thread Safety
//
// All methods are thread-safe and use lock-free OTEL instruments. The predictor
// itself is driven by one goroutine; the collector may be shared by several
// predictors.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel
