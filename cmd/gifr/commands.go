package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/validation"
)

var trendingPages int

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Print the trending feed in rows of three",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if trendingPages < 1 {
			return fmt.Errorf("--pages must be at least 1, got %d", trendingPages)
		}

		rt, err := setup(opts)
		if err != nil {
			return err
		}
		defer rt.Close()

		for i := 0; i < trendingPages; i++ {
			if err := rt.trending.LoadNextPage(cmd.Context()); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		for i, row := range rt.trending.Grouped() {
			fmt.Fprintf(out, "── row %d\n", i+1)
			printGifs(out, row)
		}
		fmt.Fprintf(out, "%d gifs, %d pages\n", len(rt.trending.Items()), rt.trending.Page())
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for gifs and store the results in history",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := validation.ValidateQuery(strings.Join(args, " "))
		if err != nil {
			return err
		}

		rt, err := setup(opts)
		if err != nil {
			return err
		}
		defer rt.Close()

		gifs, err := rt.search.Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printGifs(out, gifs)
		fmt.Fprintf(out, "%d results for %q\n", len(gifs), query)
		return nil
	},
}

var (
	historyFind  string
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List past searches, or print the stored results of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyClear && (historyFind != "" || len(args) > 0) {
			return fmt.Errorf("--clear takes no query and cannot be combined with --find")
		}

		rt, err := setup(opts)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()

		switch {
		case historyClear:
			n := len(rt.search.HistoryKeys())
			if err := rt.store.Delete(storage.HistorySlotKey); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			fmt.Fprintf(out, "cleared %d searches\n", n)

		case historyFind != "":
			gifs, err := rt.search.FindInHistory(historyFind, 50)
			if err != nil {
				return err
			}
			printGifs(out, gifs)
			fmt.Fprintf(out, "%d matches in history for %q\n", len(gifs), historyFind)

		case len(args) == 1:
			if !rt.search.Searched(args[0]) {
				fmt.Fprintf(out, "no stored results for %q\n", args[0])
				return nil
			}
			gifs := rt.search.HistoryResults(args[0])
			printGifs(out, gifs)
			fmt.Fprintf(out, "%d stored results for %q\n", len(gifs), args[0])

		default:
			keys := rt.search.HistoryKeys()
			if len(keys) == 0 {
				fmt.Fprintln(out, "no searches yet")
				return nil
			}
			for _, k := range keys {
				fmt.Fprintf(out, "%s (%d)\n", k, len(rt.search.HistoryResults(k)))
			}
		}
		return nil
	},
}

func init() {
	trendingCmd.Flags().IntVar(&trendingPages, "pages", 1, "Number of pages to load")
	historyCmd.Flags().StringVar(&historyFind, "find", "", "Full-text search over stored result titles")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Forget every stored search")
}

func printGifs(w io.Writer, gifs []*storage.Gif) {
	for _, g := range gifs {
		fmt.Fprintf(w, "%-20s  %-40s  %s\n", g.ID, g.DisplayTitle(), g.FullURL)
	}
}
