package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
)

// DefaultEndpoint is the local OTLP/HTTP collector.
const DefaultEndpoint = "localhost:4318"

// Resource identifies the process in exported telemetry.
type Resource struct {
	Service     string
	Version     string
	Environment string
}

// Exporter is where OTLP/HTTP data is sent.
type Exporter struct {
	// Endpoint is host:port, without scheme.
	Endpoint string
	Insecure bool
}

func (r Resource) build() (*resource.Resource, error) {
	attrs := []attribute.KeyValue{attribute.String("service.name", r.Service)}
	if r.Version != "" {
		attrs = append(attrs, attribute.String("service.version", r.Version))
	}
	if r.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", r.Environment))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

func (e Exporter) endpoint() string {
	if e.Endpoint == "" {
		return DefaultEndpoint
	}
	return e.Endpoint
}
