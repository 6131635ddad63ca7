package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skyf0l/basecracker/pkg/cracker"
	errs "github.com/skyf0l/basecracker/pkg/errors"
	"github.com/skyf0l/basecracker/pkg/render/tree"
	"github.com/skyf0l/basecracker/pkg/service"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type crackFlags struct {
	threshold   float64
	maxDepth    int
	maxFrontier int
	workers     int
	format      string
	dot         string
	svg         string
	interactive bool
	noCache     bool
	refresh     bool
}

// crackOutput is the json and yaml document.
type crackOutput struct {
	Report *cracker.Report `json:"report" yaml:"report"`
	Cached bool            `json:"cached" yaml:"cached"`
}

func (c *CLI) crackCommand() *cobra.Command {
	var flags crackFlags

	cmd := &cobra.Command{
		Use:   "crack <text|->",
		Short: "Find the scheme chains that decode text to readable plaintext",
		Long: `Crack searches every chain of decodes, breadth first, and reports each one
that ends in readable text. A decode step is kept when at least --threshold
of its output bytes are printable.

The search stops descending at --max-depth layers and stops queueing new
candidates once --max-frontier are pending; either bound marks the report
truncated. Defaults come from the [crack] section of the config file.`,
		Example: `  basecracker crack 596d467a5a574e7959574e725a58493d
  basecracker crack --format json - < blob.txt
  basecracker crack --dot tree.dot --svg tree.svg "0101"
  basecracker crack -i "$(cat secret)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCrack(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&flags.threshold, "threshold", cracker.DefaultThreshold, "minimum printable ratio for a decode to count")
	f.IntVar(&flags.maxDepth, "max-depth", cracker.DefaultMaxDepth, "maximum chain length")
	f.IntVar(&flags.maxFrontier, "max-frontier", cracker.DefaultMaxFrontier, "maximum number of pending candidates")
	f.IntVar(&flags.workers, "workers", 1, "decode attempts run in parallel per node")
	f.StringVarP(&flags.format, "format", "f", formatText, "output format: text, json, yaml")
	f.StringVar(&flags.dot, "dot", "", "write the exploration tree as Graphviz DOT to `file` (- for stdout)")
	f.StringVar(&flags.svg, "svg", "", "render the exploration tree as SVG to `file`")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "pick one result and print only its plaintext")
	f.BoolVar(&flags.noCache, "no-cache", false, "bypass the result cache")
	f.BoolVar(&flags.refresh, "refresh", false, "recompute and overwrite the cached report")

	return cmd
}

// crackOptions returns the flags the user actually set. Unset fields stay
// zero and inherit the config defaults inside the service.
func crackOptions(cmd *cobra.Command, flags crackFlags) cracker.Options {
	var opts cracker.Options
	f := cmd.Flags()
	if f.Changed("threshold") {
		opts.Threshold = flags.threshold
	}
	if f.Changed("max-depth") {
		opts.MaxDepth = flags.maxDepth
	}
	if f.Changed("max-frontier") {
		opts.MaxFrontier = flags.maxFrontier
	}
	if f.Changed("workers") {
		opts.Workers = flags.workers
	}
	return opts
}

func (c *CLI) runCrack(cmd *cobra.Command, arg string, flags crackFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	switch flags.format {
	case formatText, formatJSON, formatYAML:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown format %q (must be text, json or yaml)", flags.format)
	}
	// A zero threshold would read as "use the default" further down.
	if cmd.Flags().Changed("threshold") && flags.threshold <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "threshold must be within (0, 1], got %v", flags.threshold)
	}
	if flags.interactive && !isTerminal(c.out) {
		return errs.New(errs.ErrCodeInvalidInput, "--interactive needs a terminal on stdout")
	}

	text, err := c.readText(arg)
	if err != nil {
		return err
	}
	svc, err := c.newService(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer svc.Cache.Close()

	req := service.CrackRequest{Input: text, Options: crackOptions(cmd, flags), Refresh: flags.refresh}
	prog := newProgress(logger)
	sp := newSpinnerWithContext(ctx, c.err, "Cracking...")
	sp.Start()
	rep, info, err := svc.CrackWith(ctx, req)
	// Cached reports carry no tree; rebuild it when one is needed.
	if err == nil && (flags.dot != "" || flags.svg != "") && rep.Tree == nil && rep.Status != cracker.StatusEmpty {
		req.Refresh = true
		rep, info, err = svc.CrackWith(ctx, req)
	}
	sp.Stop()
	if err != nil {
		return err
	}
	prog.done("crack finished",
		"status", rep.Status,
		"results", len(rep.Results),
		"explored", rep.Stats.Explored,
		"cached", info.Hit)

	if err := c.writeTree(ctx, rep, flags); err != nil {
		return err
	}

	if flags.interactive {
		return c.pickResult(rep)
	}
	switch flags.format {
	case formatJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(crackOutput{Report: rep, Cached: info.Hit})
	case formatYAML:
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(crackOutput{Report: rep, Cached: info.Hit}); err != nil {
			return err
		}
		return enc.Close()
	}
	c.printReport(rep, info.Hit)
	return nil
}

// printReport writes each chain and plaintext to stdout and a summary to
// stderr.
func (c *CLI) printReport(rep *cracker.Report, cached bool) {
	switch {
	case rep.Status == cracker.StatusEmpty:
		printWarning(c.err, "Empty input, nothing to crack")
		return
	case len(rep.Results) == 0:
		printWarning(c.err, "No readable plaintext found")
	default:
		printSuccess(c.err, "Found %d %s", len(rep.Results), plural(len(rep.Results), "chain", "chains"))
	}
	printCacheStatus(c.err, cached, fmt.Sprintf("%d explored", rep.Stats.Explored), rep.Stats.Duration.String())
	if w := rep.Warning(); w != nil {
		printWarning(c.err, "%s", errs.UserMessage(w))
		printDetail(c.err, "raise --max-depth or --max-frontier to search further")
	}

	for _, r := range rep.Results {
		writeResult(c.out, r)
	}
}

func writeResult(w io.Writer, r cracker.Result) {
	fmt.Fprintf(w, "%s %s\n",
		StyleHighlight.Render(strings.Join(r.Schemes, " "+iconArrow+" ")),
		StyleDim.Render("("+strings.Join(r.IDs, " ")+")"))
	fmt.Fprintf(w, "  %s\n", StyleValue.Render(quoteIfNeeded(r.Plaintext)))
}

func (c *CLI) writeTree(ctx context.Context, rep *cracker.Report, flags crackFlags) error {
	if flags.dot == "" && flags.svg == "" {
		return nil
	}
	if rep.Tree == nil {
		printWarning(c.err, "No exploration tree for empty input")
		return nil
	}
	dot := tree.ToDOT(rep.Tree, tree.Options{ShowRatio: true})

	if flags.dot == "-" {
		if _, err := io.WriteString(c.out, dot); err != nil {
			return err
		}
	} else if flags.dot != "" {
		if err := os.WriteFile(flags.dot, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write dot: %w", err)
		}
		printDetail(c.err, "DOT: %s", flags.dot)
	}

	if flags.svg != "" {
		svg, err := tree.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		if err := os.WriteFile(flags.svg, svg, 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		printDetail(c.err, "SVG: %s", flags.svg)
	}
	return nil
}

// pickResult runs the result picker and prints the chosen plaintext raw.
func (c *CLI) pickResult(rep *cracker.Report) error {
	if len(rep.Results) == 0 {
		printWarning(c.err, "No readable plaintext found")
		return nil
	}
	if len(rep.Results) == 1 {
		fmt.Fprintln(c.out, rep.Results[0].Plaintext)
		return nil
	}

	final, err := tea.NewProgram(NewResultListModel(rep.Results), tea.WithInput(c.in), tea.WithOutput(c.err)).Run()
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	if m, ok := final.(ResultListModel); ok && m.Selected != nil {
		fmt.Fprintln(c.out, m.Selected.Plaintext)
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
