// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/pathmatch"
)

var (
	// ErrNotPrometheus is returned by Prometheus-only methods on other providers.
	ErrNotPrometheus = errors.New("only available with the Prometheus provider")

	// ErrConflictingProviders indicates more than one provider option.
	ErrConflictingProviders = errors.New("only one of WithPrometheus, WithOTLP or WithStdout can be used")
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to export metrics).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event represents an internal operational event from the metrics package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events from the metrics package.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the provided slog.Logger.
// If logger is nil, returns a no-op handler that discards all events.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider collects into a private Prometheus registry (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes to an OTLP HTTP collector.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics as JSON (development/testing).
	StdoutProvider Provider = "stdout"
)

// ParseProvider returns the provider named s.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case PrometheusProvider, OTLPProvider, StdoutProvider:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported metrics provider: %q", s)
	}
}

// Recorder owns an OpenTelemetry meter provider and its exporter. Routers
// record into it through RouterOption.
// All methods are safe for concurrent use.
type Recorder struct {
	meterProvider      metric.MeterProvider
	prometheusRegistry *promclient.Registry // Private registry to avoid conflicts
	prometheusHandler  http.Handler
	eventHandler       EventHandler

	provider         Provider
	providerSetCount int // Tracks how many times a provider option was called
	otlpEndpoint     string
	stdoutWriter     io.Writer
	exportInterval   time.Duration
	serviceName      string

	customMeterProvider bool // If true, user provided their own meter provider
	isShuttingDown      atomic.Bool
}

// New creates a new Recorder with the given options.
// Returns an error if the configuration is invalid or the exporter fails
// to initialize. For a version that panics on error, use MustNew.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:       PrometheusProvider,
		exportInterval: 30 * time.Second,
		serviceName:    "pathmatch",
		stdoutWriter:   os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew creates a new Recorder with the given options.
// It panics if the metrics provider fails to initialize.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}
	return r
}

// validate checks that the configuration is valid.
func (r *Recorder) validate() error {
	var errs []error

	if r.providerSetCount > 1 {
		errs = append(errs, ErrConflictingProviders)
	}
	if r.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}
	if r.exportInterval <= 0 {
		errs = append(errs, fmt.Errorf("export interval must be positive, got %v", r.exportInterval))
	} else if r.exportInterval < time.Second {
		r.emitWarning("Export interval is very low, may cause high CPU usage", "interval", r.exportInterval)
	}
	if r.provider == StdoutProvider && r.stdoutWriter == nil {
		errs = append(errs, errors.New("stdout writer cannot be nil"))
	}
	if r.provider == OTLPProvider && r.otlpEndpoint == "" {
		r.emitWarning("OTLP endpoint not specified, will use default", "default", "http://localhost:4318")
		r.otlpEndpoint = "http://localhost:4318"
	}
	if _, err := ParseProvider(string(r.provider)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// MeterProvider returns the meter provider routers should record into.
func (r *Recorder) MeterProvider() metric.MeterProvider {
	return r.meterProvider
}

// RouterOption returns a router option recording into this Recorder.
//
// Example:
//
//	rec := metrics.MustNew(metrics.WithPrometheus())
//	r := pathmatch.MustNew[http.HandlerFunc](rec.RouterOption())
func (r *Recorder) RouterOption() pathmatch.Option {
	return pathmatch.WithMeterProvider(r.meterProvider)
}

// Provider returns the current metrics provider.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// ServiceName returns the service name.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// Handler returns the Prometheus metrics http.Handler.
// Returns ErrNotPrometheus for other providers.
//
// Example:
//
//	handler, err := recorder.Handler()
//	if err == nil {
//	    http.Handle("/metrics", handler)
//	}
func (r *Recorder) Handler() (http.Handler, error) {
	if r.prometheusHandler == nil {
		return nil, fmt.Errorf("%w: current provider: %s", ErrNotPrometheus, r.provider)
	}
	return r.prometheusHandler, nil
}

// WriteText writes the current metrics in the Prometheus text exposition format.
// Returns ErrNotPrometheus for other providers.
func (r *Recorder) WriteText(w io.Writer) error {
	if r.prometheusRegistry == nil {
		return fmt.Errorf("%w: current provider: %s", ErrNotPrometheus, r.provider)
	}

	families, err := r.prometheusRegistry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// ForceFlush immediately exports any pending metric data. It is a no-op for
// custom providers and after Shutdown.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}

	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok && !r.customMeterProvider {
		r.emitDebug("Force flushing metrics")
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}
	return nil
}

// Shutdown flushes pending metrics and shuts the meter provider down.
// User-provided providers are left to the user. Shutdown is idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	if r.customMeterProvider {
		r.emitDebug("Skipping flush and shutdown of custom meter provider (managed by user)")
		return nil
	}

	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}

	r.emitDebug("Flushing pending metrics")
	if err := mp.ForceFlush(ctx); err != nil {
		r.emitWarning("metrics flush warning", "error", err)
	}

	r.emitDebug("Shutting down meter provider")
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	return nil
}

func (r *Recorder) emit(typ EventType, msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: typ, Message: msg, Args: args})
	}
}

func (r *Recorder) emitWarning(msg string, args ...any) { r.emit(EventWarning, msg, args...) }
func (r *Recorder) emitDebug(msg string, args ...any)   { r.emit(EventDebug, msg, args...) }
