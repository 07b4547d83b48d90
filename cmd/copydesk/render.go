package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"copydesk/pkg/cache"
	"copydesk/pkg/monitor"
	"copydesk/pkg/pipeline"
)

// progressPrinter returns a Notify hook that narrates pipeline progress.
func progressPrinter(w io.Writer) func(pipeline.Update) {
	return func(u pipeline.Update) {
		switch u.State {
		case pipeline.StateDone:
			fmt.Fprintf(w, "✅ %s\n", u.Message)
		case pipeline.StateFailed:
			fmt.Fprintf(w, "❌ %s\n", u.Message)
		default:
			fmt.Fprintf(w, "⏳ [%s] %s...\n", u.Stage, u.Message)
		}
	}
}

// renderText prints the outcome as plain sections for the terminal.
func renderText(w io.Writer, outcome *pipeline.Outcome) {
	fmt.Fprintf(w, "\n%s\n%s\n\n", outcome.SEO.Title, strings.Repeat("=", utf8.RuneCountInString(outcome.SEO.Title)))
	fmt.Fprintln(w, outcome.FinalText)

	if len(outcome.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, s := range outcome.Sources {
			fmt.Fprintf(w, "  - %s (%s)\n", s.Title, s.URI)
		}
	}

	fmt.Fprintf(w, "\nDescription: %s\n", outcome.SEO.Description)
	if len(outcome.SEO.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords: %s\n", strings.Join(outcome.SEO.Keywords, ", "))
	}
}

// renderJSON prints the outcome as indented JSON on a single stream.
func renderJSON(w io.Writer, outcome *pipeline.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	return nil
}

// frontMatter is the YAML header of an exported Markdown post.
type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Sources     []string `yaml:"sources,omitempty"`
	Date        string   `yaml:"date"`
}

// writeMarkdownFile exports the post as Markdown with YAML front matter.
func writeMarkdownFile(path string, outcome *pipeline.Outcome) error {
	fm := frontMatter{
		Title:       outcome.SEO.Title,
		Description: outcome.SEO.Description,
		Keywords:    outcome.SEO.Keywords,
		Date:        time.Now().Format("2006-01-02"),
	}
	for _, s := range outcome.Sources {
		fm.Sources = append(fm.Sources, s.URI)
	}

	meta, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("failed to marshal front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n\n", outcome.SEO.Title)
	b.WriteString(outcome.FinalText)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// renderStats prints per-stage timings and cache counters for this process.
func renderStats(w io.Writer, mon *monitor.Monitor, grounding cache.Stats) {
	fmt.Fprintln(w, "\nStage timings:")
	for _, rec := range mon.Records() {
		status := "ok"
		if !rec.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "  %-16s %6dms  %s\n", rec.Name, rec.Duration.Milliseconds(), status)
	}

	stats := mon.Stats()
	fmt.Fprintf(w, "  total=%d avg=%dms success=%.0f%%\n",
		stats.Total, stats.AvgDuration.Milliseconds(), stats.SuccessRate*100)
	fmt.Fprintf(w, "Grounding cache: entries=%d hits=%d misses=%d evictions=%d expirations=%d\n",
		grounding.Entries, grounding.Hits, grounding.Misses, grounding.Evictions, grounding.Expirations)
}

// renderRunMetrics prints Prometheus aggregates for a past run.
func renderRunMetrics(w io.Writer, totals *monitor.RunMetrics, byStage map[string]*monitor.RunMetrics) {
	fmt.Fprintf(w, "Run %s\n", totals.RunID)
	fmt.Fprintf(w, "  requests: %d\n", totals.Requests)
	fmt.Fprintf(w, "  tokens:   %d prompt + %d completion = %d\n",
		totals.PromptTokens, totals.CompletionTokens, totals.TotalTokens)

	if len(byStage) == 0 {
		return
	}
	fmt.Fprintln(w, "  by stage:")
	for _, stage := range []string{"writer", "brand_guardian", "seo_specialist"} {
		m, ok := byStage[stage]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "    %-16s requests=%d tokens=%d\n", stage, m.Requests, m.TotalTokens)
	}
	for stage, m := range byStage {
		switch stage {
		case "writer", "brand_guardian", "seo_specialist":
			continue
		}
		fmt.Fprintf(w, "    %-16s requests=%d tokens=%d\n", stage, m.Requests, m.TotalTokens)
	}
}

// renderRunMetricsJSON prints the same aggregates as one JSON document.
func renderRunMetricsJSON(w io.Writer, totals *monitor.RunMetrics, byStage map[string]*monitor.RunMetrics) error {
	doc := struct {
		Run     *monitor.RunMetrics            `json:"run"`
		ByStage map[string]*monitor.RunMetrics `json:"byStage,omitempty"`
	}{Run: totals, ByStage: byStage}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	return nil
}
