package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aluiziolira/book-insights/pipeline"
	"github.com/aluiziolira/book-insights/session"
)

const separator = "--------------------------------------------------"

func printReport(w io.Writer, sess *session.Session, report *pipeline.Report, destination string) {
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "Scrape complete")
	fmt.Fprintf(w, "  Session:       %s\n", sess.ID)
	fmt.Fprintf(w, "  URL:           %s\n", report.URL)
	fmt.Fprintf(w, "  Containers:    %d\n", report.ContainersFound)
	fmt.Fprintf(w, "  Records:       %d\n", report.RecordCount)
	fmt.Fprintf(w, "  Skipped:       %d\n", report.SkippedCount)
	if query := sess.Query(); strings.TrimSpace(query) != "" {
		fmt.Fprintf(w, "  Filter:        %q (%d matches)\n", query, len(sess.View()))
	}
	fmt.Fprintf(w, "  Bytes:         %d\n", report.BytesFetched)
	fmt.Fprintf(w, "  Duration:      %v\n", report.Duration())
	fmt.Fprintf(w, "  Output:        %s\n", destination)
	fmt.Fprintln(w, separator)
}

func printSummary(w io.Writer, s session.Summary) {
	fmt.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  Books:         %d (%d priced, %d rated)\n", s.Total, s.Priced, s.Rated)
	if s.Priced > 0 {
		fmt.Fprintf(w, "  Price:         min %.2f  max %.2f  mean %.2f\n", s.MinPrice, s.MaxPrice, s.MeanPrice)
	}
	if s.Rated > 0 {
		fmt.Fprintf(w, "  Mean rating:   %.2f\n", s.MeanRating)
	}

	printCounts(w, "Sentiment", session.Sorted(s.Sentiments))
	printCounts(w, "Rating", session.Sorted(s.Ratings))
	printCounts(w, "Availability", session.Sorted(s.Availability))

	if len(s.PriceHistogram) > 0 {
		fmt.Fprintln(w, "  Price histogram:")
		for _, b := range s.PriceHistogram {
			fmt.Fprintf(w, "    %7.2f - %7.2f  %s %d\n", b.Lower, b.Upper, strings.Repeat("#", b.Count), b.Count)
		}
	}
	fmt.Fprintln(w, separator)
}

func printCounts(w io.Writer, title string, counts []session.Count) {
	if len(counts) == 0 {
		return
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s=%d", c.Label, c.Count))
	}
	fmt.Fprintf(w, "  %-14s %s\n", title+":", strings.Join(parts, " "))
}
