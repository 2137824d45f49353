package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"orderbuilder/internal/models"
	"orderbuilder/internal/selectors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0a84ff"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#30d158"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff453a"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8e8e93"))
)

func printCatalog(w io.Writer, st selectors.AppState, expression string) error {
	sections := []struct {
		title string
		items []models.CatalogItem
	}{
		{"Frames", selectors.Frames(st)},
		{"Fillings", selectors.FillingSolids(st)},
		{"Sauces", selectors.FillingSauces(st)},
	}

	if expression != "" {
		matched, err := selectors.FilterCatalog(st, expression)
		if err != nil {
			return err
		}
		sections = sections[:1]
		sections[0].title = "Matching " + expression
		sections[0].items = matched
	}

	counts := selectors.ItemCounts(st)
	for _, section := range sections {
		fmt.Fprintln(w, titleStyle.Render(section.title))
		for _, item := range section.items {
			fmt.Fprintln(w, catalogLine(item, counts[item.ID]))
		}
	}
	return nil
}

func catalogLine(item models.CatalogItem, count int) string {
	line := fmt.Sprintf("  %-20s %-28s %6d", item.ID, item.Name, item.Price)
	if count > 0 {
		line += infoStyle.Render(fmt.Sprintf("  x%d", count))
	}
	return line
}

func printBuilder(w io.Writer, st selectors.AppState) {
	fmt.Fprintln(w, titleStyle.Render("Order"))
	frame := selectors.Frame(st)
	if frame == nil {
		fmt.Fprintln(w, dimStyle.Render("  no frame selected"))
	} else {
		fmt.Fprintf(w, "  %s (top)\n", frame.Name)
	}
	for i, f := range selectors.Fillings(st) {
		fmt.Fprintf(w, "  %d. %s %s\n", i, f.Name, dimStyle.Render(f.InstanceID))
	}
	if frame != nil {
		fmt.Fprintf(w, "  %s (bottom)\n", frame.Name)
	}
	fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("  total %d", selectors.OrderPrice(st))))
}

func printFeed(w io.Writer, st selectors.AppState, expression string) error {
	if fe := selectors.FeedError(st); fe != nil {
		fmt.Fprintln(w, errorStyle.Render("Feed unavailable: "+fe.Message))
		return nil
	}

	orders := selectors.Orders(st)
	if expression != "" {
		var err error
		if orders, err = selectors.FilterOrders(st, expression); err != nil {
			return err
		}
	}

	if snapshot := selectors.FeedSnapshot(st); snapshot != nil {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Feed: %d orders total, %d today", snapshot.Total, snapshot.TotalToday)))
	}
	for _, order := range orders {
		names := make([]string, 0, len(order.Ingredients))
		for _, item := range selectors.ResolveOrderItems(st, order) {
			names = append(names, item.Name)
		}
		fmt.Fprintf(w, "  #%-5d %-8s %s %s\n", order.Number, order.Status, order.Name,
			dimStyle.Render(strings.Join(names, ", ")))
	}
	return nil
}
