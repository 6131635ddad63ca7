package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/skyf0l/basecracker/pkg/errors"
	"github.com/skyf0l/basecracker/pkg/pipeline"
	"github.com/skyf0l/basecracker/pkg/scheme"
)

// pipelineFlags holds the flags shared by encode and decode.
type pipelineFlags struct {
	recipe  string
	trace   bool
	noCache bool
}

func (c *CLI) encodeCommand() *cobra.Command {
	return c.pipelineCommand(pipeline.Encode, "Encode text through a chain of schemes",
		`  basecracker encode "hello" 64 16
  basecracker encode - "base64,base85" < plain.txt
  basecracker encode -r double64 "hello"`)
}

func (c *CLI) decodeCommand() *cobra.Command {
	return c.pipelineCommand(pipeline.Decode, "Decode text through a chain of schemes",
		`  basecracker decode "61476b3d" 16 64
  basecracker decode --trace "596d467a5a574e7959574e725a58493d" "hex b64"`)
}

func (c *CLI) pipelineCommand(dir pipeline.Direction, short, example string) *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:     dir.String() + " <text|-> [schemes...]",
		Short:   short,
		Example: example,
		Long: short + `.

Schemes are applied left to right. Each argument may hold several names
separated by spaces or commas; names are numeric bases (64) or aliases
(base64, b64). Unknown names are skipped with a warning. Use "-" to read
the text from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPipeline(cmd, dir, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.recipe, "recipe", "r", "", "prepend a named scheme list from the config")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "print the value after every step")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the result cache")

	return cmd
}

func (c *CLI) runPipeline(cmd *cobra.Command, dir pipeline.Direction, args []string, flags pipelineFlags) error {
	ctx := cmd.Context()

	text, err := c.readText(args[0])
	if err != nil {
		return err
	}

	var names []string
	if flags.recipe != "" {
		recipe, ok := c.settings().Recipe(flags.recipe)
		if !ok {
			return errs.New(errs.ErrCodeInvalidInput, "unknown recipe %q", flags.recipe)
		}
		names = append(names, scheme.ParseLists(recipe)...)
	}
	names = append(names, scheme.ParseLists(args[1:])...)
	if len(names) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "no schemes given")
	}

	svc, err := c.newService(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer svc.Cache.Close()

	run := svc.Encode
	if dir == pipeline.Decode {
		run = svc.Decode
	}
	out, cinfo, err := run(ctx, text, names)
	if err != nil {
		return fmt.Errorf("%s: %w", dir, err)
	}

	for _, sk := range out.Skipped {
		printWarning(c.err, "%s", sk.String())
	}
	if flags.trace {
		for i, step := range out.Steps {
			printStep(c.err, i+1, step.Scheme, step.Text)
		}
		printCacheStatus(c.err, cinfo.Hit, fmt.Sprintf("%d steps", len(out.Steps)))
	}
	fmt.Fprintln(c.out, out.Value)
	return nil
}
