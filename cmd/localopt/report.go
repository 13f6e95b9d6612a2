package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"localopt/internal/driver"
	"localopt/internal/localopt"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	cachedColor = color.New(color.FgHiBlack)
	firedColor  = color.New(color.FgGreen)
)

// renderStats formats one row per optimized file plus a total row.
func renderStats(results []*driver.FileResult) string {
	rules := localopt.Rules()
	header := []string{"file", "visited"}
	for _, r := range rules {
		header = append(header, r.String())
	}
	header = append(header, "total", "")

	var rows [][]string
	var sum localopt.Result
	for _, res := range results {
		if res == nil {
			continue
		}
		sum.Merge(res.Result)
		cached := ""
		if res.Cached {
			cached = "cached"
		}
		rows = append(rows, statsRow(res.Path, res.Result, rules, cached))
	}
	if len(rows) == 0 {
		return ""
	}
	total := statsRow("total", sum, rules, "")

	widths := make([]int, len(header))
	for _, row := range append(append([][]string{header}, rows...), total) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(formatRow(header, widths)))
	sb.WriteString("\n")
	for _, row := range rows {
		cells := padRow(row, widths)
		for i := 2; i < len(cells)-1; i++ {
			if row[i] != "0" {
				cells[i] = firedColor.Sprint(cells[i])
			}
		}
		cells[len(cells)-1] = cachedColor.Sprint(cells[len(cells)-1])
		sb.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		sb.WriteString("\n")
	}
	if len(rows) > 1 {
		sb.WriteString(totalStyle.Render(formatRow(total, widths)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func statsRow(name string, res localopt.Result, rules []localopt.Rule, cached string) []string {
	row := []string{name, strconv.Itoa(res.Visited)}
	for _, r := range rules {
		row = append(row, strconv.Itoa(res.Count(r)))
	}
	return append(row, strconv.Itoa(res.Total()), cached)
}

// padRow left-aligns the first column and right-aligns the counters.
func padRow(row []string, widths []int) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		if i == 0 || i == len(row)-1 {
			out[i] = runewidth.FillRight(cell, widths[i])
		} else {
			out[i] = runewidth.FillLeft(cell, widths[i])
		}
	}
	return out
}

func formatRow(row []string, widths []int) string {
	return strings.TrimRight(strings.Join(padRow(row, widths), "  "), " ")
}

// formatCount pluralizes noun for n.
func formatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
