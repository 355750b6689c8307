// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-agent/internal/history"
	"github.com/pdiddy/research-agent/internal/research"
	"github.com/pdiddy/research-agent/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived research runs",
	Long: `History lists and replays runs archived with "run --save". The archive
is a local SQLite database; a run never reads it, so browsing history has
no effect on future research.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-19s  %-8s  %s\n", "ID", "Date", "Resolved", "Topic")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range runs {
		topic := r.Topic
		if len(topic) > 40 {
			topic = topic[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-19s  %4d/%-3d  %s\n",
			r.ID, r.GeneratedAt.Format("2006-01-02 15:04:05"), r.Resolved, r.Points, topic)
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show an archived run's findings and summary",
	Long: `Show prints the findings table and executive summary of one archived
run. The run ID may be abbreviated to a unique prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := store.GetRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return research.FormatJSON(report, os.Stdout)
	}

	fmt.Printf("Topic: %s\n", report.Request.Topic)
	fmt.Printf("Run:   %s (%s)\n\n", report.ID, report.GeneratedAt.Format("2006-01-02 15:04:05"))
	research.FormatTable(report.Findings, os.Stdout)
	fmt.Println("\nExecutive Summary")
	fmt.Println(report.Summary)
	return nil
}

// --- shared helpers ---

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("history.db_path")
	}
	return history.Open(types.HistoryConfig{DBPath: dbPath})
}

func init() {
	historyCmd.PersistentFlags().String("db", "", "history database path")
	historyShowCmd.Flags().Bool("json", false, "output the run as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	rootCmd.AddCommand(historyCmd)
}
