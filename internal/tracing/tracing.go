package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Init installs the global tracer. Sampling and the agent endpoint come
// from the standard JAEGER_* environment variables; unset, everything is
// sampled and sent to a local agent.
func Init(serviceName string) (io.Closer, error) {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "init tracing")
	}
	cfg.ServiceName = serviceName
	if cfg.Sampler.Type == "" {
		cfg.Sampler.Type = "const"
		cfg.Sampler.Param = 1
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, errors.Wrap(err, "init tracing")
	}

	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}
