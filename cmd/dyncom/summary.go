package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/analysis"
	"github.com/dd0wney/cluso-communities/pkg/loader"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2).
			MarginRight(2)

	eventBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(16)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

func statLine(label, value string) string {
	return labelStyle.Render(label) + value
}

func optional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

func renderSummary(report *analysis.Report, trace *loader.Result) string {
	s := report.Summary

	stats := []string{
		headerStyle.Render("Run"),
		statLine("Run ID", report.RunID),
		statLine("Records", fmt.Sprintf("%d (%d skipped)", trace.Records, trace.Skipped)),
		statLine("Snapshots", fmt.Sprintf("%d (%d valid)", s.Snapshots, s.ValidSnapshots)),
		statLine("Communities", fmt.Sprintf("%d", s.Communities)),
		statLine("Mean modularity", optional(s.MeanModularity)),
		statLine("Mean NMI", optional(s.MeanNMI)),
		statLine("Duration", report.Duration.String()),
	}

	events := []string{headerStyle.Render("Events")}
	for _, kind := range algorithms.EventKinds {
		events = append(events, statLine(string(kind), fmt.Sprintf("%d", s.EventTotals[string(kind)])))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(strings.Join(stats, "\n")),
		eventBoxStyle.Render(strings.Join(events, "\n")),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Dynamic community analysis"),
		body,
	)
}
