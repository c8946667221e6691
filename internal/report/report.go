// Package report renders a finished pipeline run for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cruciblehq/shipwright/internal/pipeline"
	"github.com/cruciblehq/shipwright/internal/stage"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	succeededStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Renders the one-line summary followed by the per-target, per-stage
// breakdown table. Results appear in matrix order, so output is stable
// across runs of the same matrix.
func Render(run *pipeline.Run) string {
	var b strings.Builder
	b.WriteString(pipeline.Summary(run))
	b.WriteString("\n")
	b.WriteString(Table(run))
	b.WriteString("\n")
	return b.String()
}

// Renders the per-target breakdown as a bordered table.
func Table(run *pipeline.Run) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TARGET", "STAGE", "OUTCOME", "DURATION", "MESSAGE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col == 2 {
				return outcomeStyle(run.Results[row].Outcome).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, r := range run.Results {
		tbl.Row(
			r.Target.String(),
			string(r.Stage),
			string(r.Outcome),
			formatDuration(r.Duration),
			r.Message,
		)
	}
	return tbl.Render()
}

func outcomeStyle(o stage.Outcome) lipgloss.Style {
	switch o {
	case stage.Succeeded:
		return succeededStyle
	case stage.Failed:
		return failedStyle
	default:
		return skippedStyle
	}
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return fmt.Sprintf("%v", d.Round(time.Millisecond))
}
