package browser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steveyegge/gasworks/formula"
)

// UnitItem is one expandable row under a formula: a workflow step, a
// convoy leg, or the synthesis entry.
type UnitItem struct {
	ID     string
	Title  string
	Detail string // needs, wave, or strategy summary
}

// FormulaItem represents one formula in the browser.
type FormulaItem struct {
	Name        string
	Type        formula.Type
	Version     int
	Description string
	Units       []UnitItem
	Summary     string // e.g., "4 steps · 2 vars"
	Expanded    bool
}

// Model is the bubbletea model for the formula browser.
type Model struct {
	formulas []FormulaItem
	cursor   int    // current selection index in flattened view
	dir      string // formula directory; empty means builtins
	err      error

	// UI state
	keys     KeyMap
	help     help.Model
	showHelp bool
	width    int
	height   int
}

// New creates a formula browser. dir is a directory of *.formula.toml
// files; when empty the embedded builtins are shown.
func New(dir string) Model {
	return Model{
		dir:      dir,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		formulas: make([]FormulaItem, 0),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.fetchFormulas
}

// fetchFormulasMsg is the result of loading formulas.
type fetchFormulasMsg struct {
	formulas []FormulaItem
	err      error
}

// fetchFormulas loads formula data.
func (m Model) fetchFormulas() tea.Msg {
	formulas, err := loadFormulas(m.dir)
	return fetchFormulasMsg{formulas: formulas, err: err}
}

// loadFormulas reads formulas from dir, or the builtins when dir is
// empty, sorted by name.
func loadFormulas(dir string) ([]FormulaItem, error) {
	var parsed []*formula.Formula

	if dir == "" {
		builtins, err := formula.BuiltinFormulas()
		if err != nil {
			return nil, err
		}
		for _, f := range builtins {
			parsed = append(parsed, f)
		}
	} else {
		paths, err := filepath.Glob(filepath.Join(dir, "*.formula.toml"))
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		var firstErr error
		for _, path := range paths {
			f, err := formula.ParseFile(path)
			if err != nil {
				// Broken files don't hide the rest of the library.
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			parsed = append(parsed, f)
		}
		if len(parsed) == 0 && firstErr != nil {
			return nil, firstErr
		}
	}

	items := make([]FormulaItem, 0, len(parsed))
	for _, f := range parsed {
		items = append(items, FormulaItem{
			Name:        f.Name,
			Type:        f.Type,
			Version:     f.Version,
			Description: f.Description,
			Units:       formulaUnits(f),
			Summary:     formulaSummary(f),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// formulaUnits flattens a formula's work units for the expanded view.
func formulaUnits(f *formula.Formula) []UnitItem {
	var units []UnitItem
	switch f.Type {
	case formula.TypeWorkflow:
		for _, s := range f.Steps {
			detail := ""
			if len(s.Needs) > 0 {
				detail = "needs " + strings.Join(s.Needs, ", ")
			}
			units = append(units, UnitItem{ID: s.ID, Title: s.Title, Detail: detail})
		}
	case formula.TypeConvoy:
		for _, l := range f.Legs {
			detail := "parallel"
			if l.Order != nil {
				detail = fmt.Sprintf("wave %d", *l.Order)
			}
			units = append(units, UnitItem{ID: l.ID, Title: l.Title, Detail: detail})
		}
	default:
		if f.Synthesis != nil {
			detail := f.Synthesis.Strategy
			if f.Synthesis.Format != "" {
				detail += " → " + f.Synthesis.Format
			}
			units = append(units, UnitItem{ID: "synthesis", Title: f.Synthesis.Description, Detail: detail})
		}
	}
	return units
}

// formulaSummary builds the compact unit/var count shown on the
// formula row.
func formulaSummary(f *formula.Formula) string {
	var part string
	switch f.Type {
	case formula.TypeWorkflow:
		part = fmt.Sprintf("%d steps", len(f.Steps))
	case formula.TypeConvoy:
		part = fmt.Sprintf("%d legs", len(f.Legs))
	default:
		part = "synthesis"
	}
	if len(f.Vars) > 0 {
		part += fmt.Sprintf(" · %d vars", len(f.Vars))
	}
	return part
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case fetchFormulasMsg:
		m.err = msg.err
		m.formulas = msg.formulas
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			max := m.maxCursor()
			if m.cursor < max {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
			return m, nil

		case key.Matches(msg, m.keys.Bottom):
			m.cursor = m.maxCursor()
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			m.toggleExpand()
			return m, nil

		// Number keys for direct formula access
		case msg.String() >= "1" && msg.String() <= "9":
			n := int(msg.String()[0] - '0')
			if n <= len(m.formulas) {
				m.jumpToFormula(n - 1)
			}
			return m, nil
		}
	}

	return m, nil
}

// maxCursor returns the maximum valid cursor position.
func (m Model) maxCursor() int {
	count := 0
	for _, f := range m.formulas {
		count++ // formula itself
		if f.Expanded {
			count += len(f.Units)
		}
	}
	if count == 0 {
		return 0
	}
	return count - 1
}

// cursorToFormulaIndex returns the formula index and unit index for the
// current cursor. Returns (formulaIdx, unitIdx) where unitIdx is -1 if
// on a formula row.
func (m Model) cursorToFormulaIndex() (int, int) {
	pos := 0
	for fi, f := range m.formulas {
		if pos == m.cursor {
			return fi, -1
		}
		pos++
		if f.Expanded {
			for ui := range f.Units {
				if pos == m.cursor {
					return fi, ui
				}
				pos++
			}
		}
	}
	return -1, -1
}

// toggleExpand toggles expansion of the formula at the current cursor.
func (m *Model) toggleExpand() {
	fi, ui := m.cursorToFormulaIndex()
	if fi >= 0 && ui == -1 {
		// On a formula row, toggle it
		m.formulas[fi].Expanded = !m.formulas[fi].Expanded
	}
}

// jumpToFormula moves the cursor to a specific formula by index.
func (m *Model) jumpToFormula(formulaIdx int) {
	if formulaIdx < 0 || formulaIdx >= len(m.formulas) {
		return
	}
	pos := 0
	for fi, f := range m.formulas {
		if fi == formulaIdx {
			m.cursor = pos
			return
		}
		pos++
		if f.Expanded {
			pos += len(f.Units)
		}
	}
}

// View renders the model.
func (m Model) View() string {
	return m.renderView()
}
