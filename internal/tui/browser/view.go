package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/steveyegge/gasworks/formula"
)

// Styles for the formula browser TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15"))

	formulaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	unitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // yellow

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // gray

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")) // red
)

// renderView renders the entire view.
func (m Model) renderView() string {
	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("Formulas"))
	b.WriteString("\n\n")

	// Error message
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	// Empty state
	if len(m.formulas) == 0 && m.err == nil {
		b.WriteString("No formulas found.\n")
		b.WriteString("Install the builtin library with: gw formulas provision\n")
	}

	// Render formulas
	pos := 0
	for fi, f := range m.formulas {
		isSelected := pos == m.cursor

		// Formula row
		expandIcon := "▶"
		if f.Expanded {
			expandIcon = "▼"
		}

		typeIcon := typeToIcon(f.Type)
		line := fmt.Sprintf("%s %d. %s %s: %s %s",
			expandIcon,
			fi+1,
			typeIcon,
			f.Name,
			truncate(f.Description, 48),
			summaryStyle.Render(fmt.Sprintf("(%s)", f.Summary)),
		)

		if isSelected {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(formulaStyle.Render(line))
		}
		b.WriteString("\n")
		pos++

		// Render units if expanded
		if f.Expanded {
			for ui, unit := range f.Units {
				isUnitSelected := pos == m.cursor

				// Tree connector
				connector := "├─"
				if ui == len(f.Units)-1 {
					connector = "└─"
				}

				unitLine := fmt.Sprintf("  %s %s: %s",
					connector,
					unit.ID,
					truncate(unit.Title, 44),
				)
				if unit.Detail != "" {
					unitLine += " " + detailStyle.Render(fmt.Sprintf("[%s]", unit.Detail))
				}

				if isUnitSelected {
					b.WriteString(selectedStyle.Render(unitLine))
				} else {
					b.WriteString(unitStyle.Render(unitLine))
				}
				b.WriteString("\n")
				pos++
			}
		}
	}

	// Help footer
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.View(m.keys))
	} else {
		b.WriteString(helpStyle.Render("j/k:navigate  enter:expand  1-9:jump  q:quit  ?:help"))
	}

	return b.String()
}

// typeToIcon converts a formula type to an icon.
func typeToIcon(typ formula.Type) string {
	switch typ {
	case formula.TypeWorkflow:
		return "⛓"
	case formula.TypeConvoy:
		return "🚚"
	case formula.TypeExpansion:
		return "✳"
	case formula.TypeAspect:
		return "◔"
	default:
		return "●"
	}
}

// truncate shortens a string to the given rune length, preserving UTF-8.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
