package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atistler/arcus/internal/client"
	"github.com/atistler/arcus/internal/poller"
	"github.com/atistler/arcus/internal/registry"
	"github.com/atistler/arcus/internal/tui/jobwatch"
	"github.com/atistler/arcus/pkg/arcus"
	arcuserr "github.com/atistler/arcus/pkg/core/error"
	"github.com/atistler/arcus/pkg/core/logging"
)

// addTargetCommands adds one command per target and one subcommand per
// action, with a string flag per catalog argument
func addTargetCommands(root *cobra.Command, c *arcus.Client, logger *logging.Logger) {
	for _, target := range c.Targets() {
		name := strings.ToLower(target.Name())
		if builtinCommands[name] {
			logger.Warn("Target shadowed by builtin command", "target", target.Name())
			continue
		}

		targetCmd := &cobra.Command{
			Use:     name,
			Short:   fmt.Sprintf("Actions on %s", target.Name()),
			GroupID: targetGroup,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return cmd.Help()
			},
		}
		for _, action := range target.Actions() {
			targetCmd.AddCommand(newActionCommand(c, target, action, logger))
		}
		root.AddCommand(targetCmd)
	}
}

func newActionCommand(c *arcus.Client, target *registry.Target, action *registry.Action, logger *logging.Logger) *cobra.Command {
	values := make(map[string]*string)
	var syncSeconds float64

	actionCmd := &cobra.Command{
		Use:   action.Name,
		Short: shortDescription(action.Description),
		Long:  action.Description,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make(map[string]string)
			for name, value := range values {
				if cmd.Flags().Changed(name) {
					params[name] = *value
				}
			}

			var res *client.Result
			var err error
			if action.Async && syncSeconds > 0 {
				interval := time.Duration(syncSeconds * float64(time.Second))
				res, err = waitForJob(cmd, c, target, action, params, interval)
			} else {
				res, err = c.Call(cmd.Context(), target.Name(), action.Name, params)
			}
			if err != nil {
				return reportActionError(cmd, err)
			}

			out := res.String()
			if !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	for _, arg := range action.RequiredArgs {
		addArgFlag(actionCmd, values, arg.Name, arg.Description+" (required)", logger)
	}
	for _, arg := range action.OptionalArgs {
		addArgFlag(actionCmd, values, arg.Name, arg.Description, logger)
	}
	if action.Async {
		actionCmd.Flags().Float64Var(&syncSeconds, "sync", 0, "wait for the async job, polling every `SECONDS`")
	}

	return actionCmd
}

func addArgFlag(cmd *cobra.Command, values map[string]*string, name, usage string, logger *logging.Logger) {
	if reservedFlags[name] || cmd.Flags().Lookup(name) != nil {
		logger.Debug("Skipping catalog argument that collides with a CLI flag", "command", cmd.Name(), "argument", name)
		return
	}
	values[name] = cmd.Flags().String(name, "", usage)
}

// interactive reports whether progress may be drawn on stderr
var interactive = func() bool {
	return !verbose && term.IsTerminal(int(os.Stderr.Fd()))
}

// waitForJob polls the job, with a spinner when stderr is an interactive
// terminal and request logging is off
func waitForJob(cmd *cobra.Command, c *arcus.Client, target *registry.Target, action *registry.Action, params map[string]string, interval time.Duration) (*client.Result, error) {
	ctx := cmd.Context()
	if !interactive() {
		return c.CallAndWait(ctx, target.Name(), action.Name, params, interval)
	}

	label := action.Name + " " + target.Name()
	return jobwatch.Run(ctx, os.Stderr, jobwatch.NewModel(label, interval), func(ctx context.Context, obs poller.Observer) (*client.Result, error) {
		return c.CallAndWatch(ctx, target.Name(), action.Name, params, interval, obs)
	})
}

// reportActionError prints argument errors together with the usage
func reportActionError(cmd *cobra.Command, err error) error {
	switch arcuserr.CodeOf(err) {
	case arcuserr.CodeMissingArgument:
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("Missing required arguments: "+flagList(arcuserr.Arguments(err))))
	case arcuserr.CodeInvalidArgument:
		names := arcuserr.Arguments(err)
		if len(names) == 0 {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("Unknown arguments: "+flagList(names)))
	default:
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr())
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return errReported
}

func flagList(names []string) string {
	flags := make([]string, len(names))
	for i, n := range names {
		flags[i] = "--" + n
	}
	return strings.Join(flags, ", ")
}

// shortDescription returns the first sentence of a catalog description
func shortDescription(description string) string {
	first, _, _ := strings.Cut(description, ".")
	return strings.TrimSpace(first)
}
