package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"goalhk/internal/domain/quoteparser"
	"goalhk/internal/domain/scenario"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <request>",
	Short: "Classify a request and list its service modes",
	Long: `Classify runs the keyword classifier only. No LLM is called.

Example:
  goalhk classify 我屋企爆水管
  goalhk classify --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if classifyList {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runClassify,
}

var classifyList bool

func init() {
	classifyCmd.Flags().BoolVar(&classifyList, "list", false, "List scenarios and keywords instead of classifying")
}

var quoteItemCmd = &cobra.Command{
	Use:   "quote-item <line>",
	Short: "Parse one quote line into a JSON quote item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item := quoteparser.Parse(strings.Join(args, " "))
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	},
}

func runClassify(cmd *cobra.Command, args []string) error {
	if classifyList {
		listScenarios(cmd)
		return nil
	}

	text := strings.Join(args, " ")
	key := scenario.Classify(text)
	data := scenario.Generate(key)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario: %s\ncategory: %s\n\nmodes:\n", key, data.Category)
	for _, m := range data.Modes {
		bidding := ""
		if m.IsBidding {
			bidding = " [bidding]"
		}
		fmt.Fprintf(out, "  %s  %s  %s  %s%s\n", m.ID, m.Name, m.EstimatedPrice, m.EstimatedTime, bidding)
	}
	fmt.Fprintln(out, "\nsteps:")
	for i, s := range data.Steps {
		fmt.Fprintf(out, "  %d. %s\n", i+1, s.Title)
	}
	return nil
}

func listScenarios(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "scenarios:")
	for _, key := range scenario.Keys() {
		data := scenario.Generate(key)
		fmt.Fprintf(out, "  %-14s %-13s %d modes\n", key, data.Category, len(data.Modes))
	}
	fmt.Fprintf(out, "\nkeywords (match order):\n  %s\n", strings.Join(scenario.Keywords(), " "))
}
