package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"

	"copydesk/pkg/config"
	"copydesk/pkg/llm"
	"copydesk/pkg/logx"
	"copydesk/pkg/monitor"
	"copydesk/pkg/pipeline"
	"copydesk/pkg/version"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		topicFlag   = flag.String("topic", "", "Topic to write about (default: remaining args, then prompt/stdin)")
		modelFlag   = flag.String("model", "", "Override the configured model")
		jsonOut     = flag.Bool("json", false, "Print the outcome as JSON")
		outFile     = flag.String("out", "", "Also write the post as Markdown with YAML front matter")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9091)")
		showStats   = flag.Bool("stats", false, "Print stage timings and cache counters after the run")
		statsFrom   = flag.String("stats-from", "", "Query run metrics from this Prometheus URL instead of running")
		runID       = flag.String("run", "", "Run ID to query with -stats-from")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("copydesk %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
		os.Exit(0)
	}

	if *statsFrom != "" {
		os.Exit(runStatsQuery(*statsFrom, *runID, *jsonOut))
	}

	os.Exit(run(*configPath, *topicFlag, *modelFlag, *outFile, *metricsAddr, *jsonOut, *showStats))
}

// run contains the main application logic and returns an exit code so
// defers execute before os.Exit.
func run(configPath, topicFlag, modelFlag, outFile, metricsAddr string, jsonOut, showStats bool) int {
	logger := logx.NewLogger("copydesk")

	loaded, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	cfg := *loaded
	if modelFlag != "" {
		cfg.Generation.Model = modelFlag
	}

	topic, err := resolveTopic(topicFlag, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	apiKey, err := resolveAPIKey(cfg.APIKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	ctx := context.Background()
	gemini, err := llm.NewGemini(ctx, llm.GeminiConfig{APIKey: apiKey, Model: cfg.Generation.Model})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to create Gemini client: %v\n", err)
		return 1
	}
	client := llm.NewRetryingClient(gemini, llm.RetryPolicy{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: cfg.Retry.InitialBackoff(),
		Multiplier:   cfg.Retry.BackoffMultiplier,
		CallTimeout:  cfg.Generation.CallTimeout(),
	}, nil)

	var recorder monitor.Recorder = monitor.Nop()
	if metricsAddr != "" {
		recorder = monitor.NewPrometheusRecorder()
		startMetricsServer(metricsAddr, logger)
	}
	mon := monitor.New(recorder, nil)

	runner := pipeline.NewRunner(client, cfg, mon, nil)
	runner.Notify = progressPrinter(os.Stderr)

	// First interrupt cancels the run cooperatively; a second one quits.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n⚠️  Cancelling run (interrupt again to force quit)")
		runner.Cancel()
		<-sigCh
		os.Exit(130)
	}()

	outcome, err := runner.Run(ctx, topic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		if showStats {
			renderStats(os.Stderr, mon, runner.GroundingStats())
		}
		return 1
	}

	if jsonOut {
		if err := renderJSON(os.Stdout, outcome); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return 1
		}
	} else {
		renderText(os.Stdout, outcome)
	}

	if outFile != "" {
		if err := writeMarkdownFile(outFile, outcome); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "📄 Wrote %s\n", outFile)
	}

	if showStats {
		renderStats(os.Stderr, mon, runner.GroundingStats())
	}
	return 0
}

// resolveTopic picks the topic from the flag, the remaining arguments, an
// interactive prompt, or piped stdin, in that order.
func resolveTopic(topicFlag string, args []string) (string, error) {
	if topicFlag != "" {
		return topicFlag, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print("Topic: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read topic: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read topic from stdin: %w", err)
	}
	topic := strings.TrimSpace(string(data))
	if topic == "" {
		return "", fmt.Errorf("no topic provided (use -topic, arguments, or stdin)")
	}
	return topic, nil
}

// resolveAPIKey falls back to a no-echo prompt when the config (which
// already consulted the environment) carried no key and stdin is a terminal.
func resolveAPIKey(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("GEMINI_API_KEY is not set")
	}
	fmt.Print("Enter Gemini API key: ")
	key, err := term.ReadPassword(syscall.Stdin)
	fmt.Println() // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	if len(key) == 0 {
		return "", fmt.Errorf("no API key provided")
	}
	return string(key), nil
}

// startMetricsServer exposes the default Prometheus registry. The endpoint
// lives for the life of the process; there is nothing to shut down cleanly.
func startMetricsServer(addr string, logger *logx.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	logger.Info("Serving Prometheus metrics on http://%s/metrics", addr)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error: %v", err)
		}
	}()
}

// runStatsQuery prints aggregate metrics for a past run from an external
// Prometheus instead of executing the pipeline.
func runStatsQuery(promURL, runID string, asJSON bool) int {
	if runID == "" {
		fmt.Fprintln(os.Stderr, "❌ -stats-from requires -run ID")
		return 2
	}

	svc, err := monitor.NewQueryService(promURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to create query client: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	totals, err := svc.GetRunMetrics(ctx, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Query failed: %v\n", err)
		return 1
	}
	byStage, err := svc.GetRunMetricsByStage(ctx, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Query failed: %v\n", err)
		return 1
	}

	if asJSON {
		if err := renderRunMetricsJSON(os.Stdout, totals, byStage); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return 1
		}
		return 0
	}
	renderRunMetrics(os.Stdout, totals, byStage)
	return 0
}
