package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xonecas/tilawa/internal/constants"
	"github.com/xonecas/tilawa/internal/probe"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asker, err := newAsker(cfg, newClient(cfg.Server))
		if err != nil {
			return err
		}

		reply, err := asker.Ask(cmd.Context(), strings.Join(args, " "), nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, reply.Answer)
		if reply.Fact != "" {
			color.New(color.FgYellow).Fprintf(out, "\n✦ %s\n", reply.Fact)
		}
		if len(reply.Suggestions) > 0 {
			fmt.Fprintln(out)
			for _, s := range reply.Suggestions {
				color.New(color.FgCyan).Fprintf(out, "  → %s\n", s)
			}
		}
		return nil
	},
}

var factCmd = &cobra.Command{
	Use:   "fact",
	Short: "Print a fact about the Quran",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(cfg.Server)
		s := openStore(cfg.Store)
		if s != nil {
			defer s.Close()
		}

		cat := newLoader(client, s).Load(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), cat.Fact())
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List question categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(cfg.Server)
		s := openStore(cfg.Store)
		if s != nil {
			defer s.Close()
		}

		cat := newLoader(client, s).Load(cmd.Context())
		out := cmd.OutOrStdout()
		title := color.New(color.FgGreen, color.Bold)
		for _, c := range cat.Categories {
			title.Fprintf(out, "%s (%s)\n", c.Title, c.ID)
			for _, q := range c.Questions {
				fmt.Fprintf(out, "  • %s\n", q)
			}
			fmt.Fprintln(out)
		}
		color.New(color.Faint).Fprintf(out, "source: %s\n", cat.CategoriesFrom)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search canned questions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		if len([]rune(strings.TrimSpace(query))) < constants.MinSearchQueryLen {
			return fmt.Errorf("query must be at least %d characters", constants.MinSearchQueryLen)
		}

		results, err := newClient(cfg.Server).Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results")
			return nil
		}
		for _, r := range results {
			color.New(color.Bold).Fprintln(out, r.Question)
			if r.Preview != "" {
				fmt.Fprintf(out, "  %s\n", r.Preview)
			}
		}
		return nil
	},
}

var probeCases string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check answer accuracy against the backend",
	Long: `Replays a YAML case file against POST /ask and prints which answers
met their expectations. Without --cases the built-in cases are used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := probe.LoadFile(probeCases)
		if err != nil {
			return err
		}

		report := probe.Run(cmd.Context(), newClient(cfg.Server), suite)
		report.Print(cmd.OutOrStdout())
		if report.Failed > 0 {
			return fmt.Errorf("%d of %d cases failed", report.Failed, report.Total())
		}
		return nil
	},
}

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the saved question history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore(cfg.Store)
		if s == nil {
			return fmt.Errorf("store is disabled or unavailable")
		}
		defer s.Close()

		return runHistory(cmd.OutOrStdout(), s, historyClear)
	},
}

// inputHistory is the part of the store the history command needs.
type inputHistory interface {
	RecentInputs(limit int) ([]string, error)
	ClearInputs() error
}

func runHistory(out io.Writer, h inputHistory, wipe bool) error {
	if wipe {
		if err := h.ClearInputs(); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		log.Info().Msg("Input history cleared")
		fmt.Fprintln(out, "History cleared")
		return nil
	}

	inputs, err := h.RecentInputs(0)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(out, "No saved questions")
		return nil
	}
	for i, q := range inputs {
		color.New(color.Faint).Fprintf(out, "%3d ", i+1)
		fmt.Fprintln(out, q)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Tilawa %s\n", Version)
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeCases, "cases", "", "Path to a YAML case file")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all saved questions")
}
