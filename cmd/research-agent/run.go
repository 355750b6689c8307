// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-agent/internal/extract"
	"github.com/pdiddy/research-agent/internal/genai"
	"github.com/pdiddy/research-agent/internal/history"
	"github.com/pdiddy/research-agent/internal/plan"
	"github.com/pdiddy/research-agent/internal/research"
	"github.com/pdiddy/research-agent/internal/search"
	"github.com/pdiddy/research-agent/internal/summary"
	"github.com/pdiddy/research-agent/internal/webpage"
	"github.com/pdiddy/research-agent/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a research job: search, extract, and summarize",
	Long: `Run resolves every requested data point by searching the web, scraping
candidate pages in ranking order, and extracting the fact with a generative
model. The first page that yields a value wins. Afterwards a single model
call produces a three-section executive summary from the findings table.

The request comes from --topic and --point flags, --points-file (one data
point per line, blank lines dropped), or a --request YAML file.`,
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}

	elite, _ := cmd.Flags().GetBool("elite")
	orch, cleanup, err := buildOrchestrator(cmd, elite)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintf(os.Stderr, "Starting research for: %s\n", req.Topic)

	report, err := orch.Run(context.Background(), req, os.Stderr)
	if err != nil {
		return err
	}

	if savePath, _ := cmd.Flags().GetString("output"); savePath != "" {
		if err := research.SaveReport(savePath, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", savePath)
	}

	if saveRun, _ := cmd.Flags().GetBool("save"); saveRun {
		id, err := archiveRun(cmd, report)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run archived as %s\n", id)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return research.FormatJSON(report, os.Stdout)
	}

	fmt.Println("\nResearch Findings")
	research.FormatTable(report.Findings, os.Stdout)
	fmt.Println("\nExecutive Summary")
	fmt.Println(report.Summary)
	return nil
}

// requestFromFlags assembles the ResearchRequest from --request, or from
// --topic with --point / --points-file.
func requestFromFlags(cmd *cobra.Command) (types.ResearchRequest, error) {
	if reqPath, _ := cmd.Flags().GetString("request"); reqPath != "" {
		return research.LoadRequest(reqPath)
	}

	topic, _ := cmd.Flags().GetString("topic")
	points, _ := cmd.Flags().GetStringArray("point")
	elite, _ := cmd.Flags().GetBool("elite")

	if pointsFile, _ := cmd.Flags().GetString("points-file"); pointsFile != "" {
		data, err := os.ReadFile(pointsFile)
		if err != nil {
			return types.ResearchRequest{}, fmt.Errorf("reading points file: %w", err)
		}
		points = append(points, types.ParseDataPoints(string(data))...)
	}

	// Flag values get the same normalization as multi-line input.
	var normalized []string
	for _, p := range points {
		normalized = append(normalized, types.ParseDataPoints(p)...)
	}

	req := types.ResearchRequest{
		Topic:               topic,
		DataPoints:          normalized,
		PreferAuthoritative: elite,
	}
	if err := req.Validate(); err != nil {
		return types.ResearchRequest{}, fmt.Errorf("%w: provide --topic and at least one --point, --points-file, or --request", err)
	}
	return req, nil
}

// buildOrchestrator wires the pipeline stages from flags, config file, and
// credentials. The returned cleanup is a no-op today but keeps the call
// site ready for stages that hold resources.
func buildOrchestrator(cmd *cobra.Command, elite bool) (*research.Orchestrator, func(), error) {
	tavilyKey := credential("tavily-api-key", "TAVILY_API_KEY")
	geminiKey := credential("gemini-api-key", "GEMINI_API_KEY")
	if tavilyKey == "" || geminiKey == "" {
		var missing []string
		if tavilyKey == "" {
			missing = append(missing, "tavily-api-key")
		}
		if geminiKey == "" {
			missing = append(missing, "gemini-api-key")
		}
		return nil, nil, fmt.Errorf("missing credentials %v: add them to .secrets/ or the environment", missing)
	}

	cfg := pipelineConfig(cmd)
	cfg.Search.APIKey = tavilyKey
	cfg.AI.APIKey = geminiKey

	ai := genai.NewGemini(cfg.AI)

	searcher := &search.Searcher{
		Backend:     search.NewTavily(cfg.Search),
		Config:      cfg.Search,
		PreferElite: elite,
	}

	var planner research.QueryPlanner
	if cfg.Planner.Enabled {
		planner = &plan.Planner{AI: ai, MaxQueries: cfg.Planner.MaxQueries}
	} else {
		planner = directPlanner{}
	}

	orch := &research.Orchestrator{
		Planner:  planner,
		Searcher: searcher,
		Extractor: &extract.Extractor{
			Pages: webpage.NewFetcher(cfg.Fetch),
			AI:    ai,
		},
		Summary:     &summary.Generator{AI: ai},
		Parallelism: cfg.Parallelism,
	}
	return orch, func() {}, nil
}

// pipelineConfig builds stage configuration from flags with config-file
// fallbacks for values rarely changed per run.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	depth, _ := cmd.Flags().GetString("depth")
	noPlan, _ := cmd.Flags().GetBool("no-plan")
	parallel, _ := cmd.Flags().GetInt("parallel")

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ai.model")
	}

	userAgent := viper.GetString("http.user_agent")

	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 30 * time.Second, UserAgent: userAgent},
			Depth:      types.SearchDepth(depth),
			MaxResults: maxResults,
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 10 * time.Second, UserAgent: userAgent},
		},
		AI: types.AIConfig{
			Model:      model,
			Timeout:    viper.GetDuration("ai.timeout"),
			MaxRetries: viper.GetInt("ai.max_retries"),
		},
		Planner: types.PlannerConfig{
			Enabled: !noPlan,
		},
		History: types.HistoryConfig{
			DBPath: viper.GetString("history.db_path"),
		},
		Parallelism: parallel,
	}
}

// directPlanner skips query planning: each data point gets the single
// synthesized query.
type directPlanner struct{}

func (directPlanner) Queries(ctx context.Context, topic, dataPoint string, w io.Writer) []string {
	return []string{plan.FallbackQuery(topic, dataPoint)}
}

// archiveRun stores the report in the history database.
func archiveRun(cmd *cobra.Command, report *types.Report) (string, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("history.db_path")
	}
	store, err := history.Open(types.HistoryConfig{DBPath: dbPath})
	if err != nil {
		return "", err
	}
	defer store.Close()
	return store.SaveRun(context.Background(), report)
}

// addPipelineFlags registers the stage-tuning flags shared by run and serve.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("depth", "basic", "search depth: basic or advanced")
	cmd.Flags().Int("max-results", 3, "maximum search results per query")
	cmd.Flags().Bool("no-plan", false, "skip query planning; use one synthesized query per data point")
	cmd.Flags().Int("parallel", 1, "data points resolved concurrently (1 = sequential)")
	cmd.Flags().String("model", "", "AI model identifier")
}

func init() {
	runCmd.Flags().String("topic", "", "main research topic")
	runCmd.Flags().StringArray("point", nil, "data point to find (repeatable)")
	runCmd.Flags().String("points-file", "", "file with one data point per line")
	runCmd.Flags().String("request", "", "request YAML file (overrides --topic/--point)")
	runCmd.Flags().Bool("elite", false, "bias searches toward authoritative consulting and analyst sources")
	runCmd.Flags().Bool("json", false, "output the full report as JSON")
	runCmd.Flags().String("output", "", "write the report to a YAML file")
	runCmd.Flags().Bool("save", false, "archive the run in the history database")
	runCmd.Flags().String("db", "", "history database path")
	addPipelineFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}
