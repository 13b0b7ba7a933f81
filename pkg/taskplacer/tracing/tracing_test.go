/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tracing

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewTracerProviderDisabled(t *testing.T) {
	ctx := context.Background()
	tp, shutdown, err := NewTracerProvider(ctx, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, span := Tracer(tp).Start(ctx, "noop")
	if span.SpanContext().IsValid() {
		t.Errorf("expected a non-recording span from the no-op provider")
	}
	span.End()
	if err := shutdown(ctx); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestNewTracerProviderWithEndpoint(t *testing.T) {
	ctx := context.Background()
	// The gRPC exporter connects lazily, so no collector is needed here.
	tp, shutdown, err := NewTracerProvider(ctx, Config{
		CollectorEndpoint: "localhost:4317",
		SampleRate:        1,
		Insecure:          true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tp.(*sdktrace.TracerProvider); !ok {
		t.Errorf("expected an SDK tracer provider, got %T", tp)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_ = shutdown(cancelled)
}

func TestTracerRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := Tracer(tp).Start(context.Background(), "cluster")
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 || ended[0].Name() != "cluster" {
		t.Fatalf("expected one ended span named cluster, got %v", ended)
	}
	if got := ended[0].InstrumentationScope().Name; got != TracerName {
		t.Errorf("expected scope %q, got %q", TracerName, got)
	}
}
