package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skyf0l/basecracker/pkg/buildinfo"
	"github.com/skyf0l/basecracker/pkg/cache"
	"github.com/skyf0l/basecracker/pkg/config"
	errs "github.com/skyf0l/basecracker/pkg/errors"
	"github.com/skyf0l/basecracker/pkg/service"
)

const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	in  io.Reader
	out io.Writer
	err io.Writer

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New returns a CLI reading from in, printing results to out and status
// lines and logs to errw.
func New(in io.Reader, out, errw io.Writer) *CLI {
	return &CLI{
		Logger: newLogger(errw, LogInfo),
		in:     in,
		out:    out,
		err:    errw,
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Encode, decode and crack layered base encodings",
		Long: `basecracker encodes and decodes text through chains of base schemes
(2, 10, 16, 32, 36, 58, 62, 64, 85) and cracks unknown chains by searching
every decode path that ends in readable text.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.err)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/basecracker/config.toml)")

	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.crackCommand())
	root.AddCommand(c.schemesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --verbose, loads the config
// and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.Logger.SetLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// settings returns the loaded config, or defaults when setup did not run.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Service Factory
// =============================================================================

// newService builds a service from the config. A cache backend that cannot
// be opened is logged and replaced by no cache, so encode and decode keep
// working without redis or mongo.
func (c *CLI) newService(ctx context.Context, noCache bool) (*service.Service, error) {
	cfg := c.settings()
	logger := loggerFromContext(ctx)

	var backend cache.Cache = cache.NewNullCache()
	if !noCache {
		opts, err := cfg.CacheOptions()
		if err != nil {
			return nil, fmt.Errorf("cache options: %w", err)
		}
		if b, err := cache.Open(ctx, opts); err != nil {
			logger.Warn("cache disabled", "backend", opts.Backend, "err", err)
		} else {
			backend = b
		}
	}

	svc := service.New(nil, backend, nil, logger)
	svc.CrackOptions = cfg.CrackOptions()
	svc.CrackTTL = cfg.Cache.TTL.Duration
	return svc, nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// readText returns arg, or stdin when arg is "-". One trailing newline is
// dropped from stdin so `echo ... |` works.
func (c *CLI) readText(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(io.LimitReader(bufio.NewReader(c.in), errs.MaxInputBytes+2))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	s := string(data)
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}
