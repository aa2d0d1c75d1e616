package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/classifier"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/service"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printRecommendations(w io.Writer, result service.RecommendationsResult) error {
	if len(result.Recommendations) == 0 {
		_, err := fmt.Fprintf(w, "No recommendations for %s\n", result.UserID)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	explain := result.Recommendations[0].Features != nil
	header := "RANK\tUSER\tSCORE\tVIA"
	if explain {
		header += "\t" + strings.ToUpper(strings.Join(domain.FeatureNames(), "\t"))
	}
	fmt.Fprintln(tw, header)
	for i, rec := range result.Recommendations {
		line := fmt.Sprintf("%d\t%s\t%s\t%s", i+1, rec.UserID, formatScore(result.Mode, rec.Score), strings.Join(rec.Via, ", "))
		if rec.Features != nil {
			for _, v := range rec.Features.Values() {
				line += fmt.Sprintf("\t%.3f", v)
			}
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	footer := fmt.Sprintf("%d of %d candidates (%s)", len(result.Recommendations), result.Total, result.Mode)
	if result.ModelStale {
		footer += ", model is stale"
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}

func printReport(w io.Writer, report classifier.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Kind\t%s\n", report.Kind)
	fmt.Fprintf(tw, "Samples\t%d (%d positive)\n", report.Samples, report.Positives)
	fmt.Fprintf(tw, "Split\t%d train / %d test\n", report.TrainSamples, report.TestSamples)
	fmt.Fprintf(tw, "Train accuracy\t%.2f%%\n", report.TrainAccuracy*100)
	fmt.Fprintf(tw, "Test accuracy\t%.2f%%\n", report.TestAccuracy*100)
	fmt.Fprintf(tw, "Duration\t%s\n", report.Duration.Round(time.Millisecond))
	return tw.Flush()
}

func printSimilarity(w io.Writer, result service.SimilarityResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Users\t%s, %s\n", result.A, result.B)
	fmt.Fprintf(tw, "Friends\t%t\n", result.Friends)
	names := domain.FeatureNames()
	for i, v := range result.Features.Values() {
		fmt.Fprintf(tw, "%s\t%.3f\n", names[i], v)
	}
	fmt.Fprintf(tw, "Similarity\t%.2f%%\n", result.Blend)
	if result.Probability != nil {
		fmt.Fprintf(tw, "Probability\t%.3f\n", *result.Probability)
	}
	return tw.Flush()
}

func formatScore(mode domain.ScoringMode, score float64) string {
	if mode == domain.ScoringBlend {
		return fmt.Sprintf("%.2f%%", score)
	}
	return fmt.Sprintf("%.3f", score)
}
