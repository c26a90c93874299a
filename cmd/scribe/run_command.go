package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scribe/internal/agents"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var subject, preference string
	var asJSON, showSource bool

	cmd := &cobra.Command{
		Use:   "run <variant>",
		Short: "Run one pipeline and print the result",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var names []string
			for _, v := range agents.DefaultVariants().All() {
				names = append(names, v.Name)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			driver := ctx.runner()
			res, err := driver.Run(runCtx, agents.Request{
				Variant:    args[0],
				Subject:    subject,
				Preference: preference,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			v, _ := driver.Variants.Lookup(res.Variant)
			printResult(out, newPainter(out), v, res, showSource || v.ShowSource)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Topic, or the video URL for the youtube pipeline")
	cmd.Flags().StringVarP(&preference, "preference", "p", "", "Audience or style")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVar(&showSource, "show-source", false, "Also print the research or caption text")
	return cmd
}

func printResult(w io.Writer, p painter, v *agents.Variant, res *agents.Result, withSource bool) {
	if res.Source.Title != "" {
		fmt.Fprintln(w, p.heading(res.Source.Title))
		fmt.Fprintln(w)
	}
	if withSource {
		fmt.Fprintln(w, p.heading(v.SourceHeading))
		fmt.Fprintln(w, strings.TrimSpace(res.Source.Text))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, p.heading(v.OutputHeading))
	fmt.Fprintln(w, strings.TrimSpace(res.Output.Text))
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.muted(fmt.Sprintf("%s · %s", res.RequestID, res.Elapsed.Round(100*time.Millisecond))))
}
