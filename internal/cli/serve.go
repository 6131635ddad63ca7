package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/skyf0l/basecracker/internal/server"
	"github.com/skyf0l/basecracker/pkg/cache"
	"github.com/skyf0l/basecracker/pkg/observability"
	"github.com/skyf0l/basecracker/pkg/observability/prom"
	"github.com/skyf0l/basecracker/pkg/observability/tracing"
	"github.com/skyf0l/basecracker/pkg/service"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the encode, decode and crack API over HTTP",
		Long: `Serve exposes the JSON API on --addr (default from [server] addr):

  GET  /healthz
  GET  /v1/schemes
  POST /v1/encode   {"text": "hi", "schemes": ["64", "16"]}
  POST /v1/decode   {"text": "61476b3d", "schemes": ["16", "64"]}
  POST /v1/crack    {"text": "..."}
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if !cmd.Flags().Changed("addr") {
				addr = c.settings().Server.Addr
			}

			svc, err := c.newAPIService(ctx)
			if err != nil {
				return err
			}
			defer svc.Cache.Close()

			opts := server.Options{Logger: logger}
			if !noMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				installHooks(prom.New(reg), tracing.Default())
				defer observability.Reset()
				opts.Gatherer = reg
			}

			return server.New(svc, opts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable /metrics and tracing hooks")

	return cmd
}

// newAPIService is newService with cache keys under [server] key_prefix.
func (c *CLI) newAPIService(ctx context.Context) (*service.Service, error) {
	svc, err := c.newService(ctx, false)
	if err != nil {
		return nil, err
	}
	if p := c.settings().Server.KeyPrefix; p != "" {
		svc.Keyer = cache.NewScopedKeyer(svc.Keyer, p)
	}
	return svc, nil
}

// installHooks sends pipeline and crack events to both metrics and traces.
// Cache and HTTP events feed metrics only.
func installHooks(m *prom.Metrics, t *tracing.Hooks) {
	observability.SetPipelineHooks(observability.MultiPipelineHooks{m, t})
	observability.SetCrackHooks(observability.MultiCrackHooks{m, t})
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}
