package cli

import (
	"fmt"
	"strings"

	"bistro-pos/internal/domain"
	"bistro-pos/internal/service"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#D97706")
	dim    = lipgloss.Color("#6B7280")
	danger = lipgloss.Color("#EF4444")
	green  = lipgloss.Color("#22C55E")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(dim)
	dimStyle    = lipgloss.NewStyle().Foreground(dim)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(danger)
	tagStyle    = lipgloss.NewStyle().Foreground(green)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)
)

const dayLayout = "2006-01-02"

func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func rightCell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(s)
}

// renderSalesReport draws one row per day and a totals box
func renderSalesReport(r *service.SalesReport) string {
	var b strings.Builder

	last := r.To.AddDate(0, 0, -1)
	b.WriteString(titleStyle.Render(fmt.Sprintf("Sales %s to %s", r.From.Format(dayLayout), last.Format(dayLayout))))
	b.WriteString("\n\n")

	if len(r.Days) == 0 {
		b.WriteString(dimStyle.Render("No completed orders in this range."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render(cell("DAY", 12) + rightCell("ORDERS", 8) + rightCell("REVENUE", 12)))
	b.WriteString("\n")
	for _, d := range r.Days {
		b.WriteString(cell(d.Day.Format(dayLayout), 12))
		b.WriteString(rightCell(fmt.Sprintf("%d", d.Orders), 8))
		b.WriteString(rightCell(d.Revenue.StringFixed(2), 12))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	summary := fmt.Sprintf("Orders   %d\nRevenue  %s\nAverage  %s",
		r.TotalOrders,
		r.TotalRevenue.StringFixed(2),
		r.AverageOrderValue.StringFixed(2),
	)
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n")
	return b.String()
}

// renderItems lists search results one per line
func renderItems(query string, items []domain.CatalogItem) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%q: %d result(s)", query, len(items))))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("  ")
		b.WriteString(cell(item.Name, 24))
		b.WriteString(rightCell(item.Price.StringFixed(2), 8))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(item.Category))
		if item.IsSpicy {
			b.WriteString(" " + tagStyle.Render("spicy"))
		}
		if item.IsVegetarian {
			b.WriteString(" " + tagStyle.Render("vegetarian"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
