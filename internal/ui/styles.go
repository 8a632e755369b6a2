// Package ui provides terminal styling for gasworks CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
// Design philosophy: semantic colors that communicate meaning at a glance,
// minimal visual noise, and consistent rendering across all commands.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	if !ShouldUseColor() {
		// disable colors when not appropriate (non-TTY, NO_COLOR, etc.)
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		// use TrueColor for distinct type/state colors in modern terminals
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// ApplyThemeMode applies the theme mode settings to lipgloss.
// This should be called after InitTheme() has been called.
func ApplyThemeMode() {
	if !ShouldUseColor() {
		return
	}
	// Set lipgloss dark background flag based on theme mode
	lipgloss.SetHasDarkBackground(HasDarkBackground())
}

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
// Source: https://github.com/ayu-theme/ayu-colors
var (
	// Core semantic colors (Ayu theme - adaptive light/dark)
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}

	// === Formula Type Colors ===
	// Each type gets a distinct hue so mixed listings scan well
	ColorTypeWorkflow = lipgloss.AdaptiveColor{
		Light: "#399ee6", // blue - ordered pipelines
		Dark:  "#59c2ff",
	}
	ColorTypeConvoy = lipgloss.AdaptiveColor{
		Light: "#e6b450", // gold - parallel crews
		Dark:  "#e6b450",
	}
	ColorTypeExpansion = lipgloss.AdaptiveColor{
		Light: "#d2a6ff", // purple - one-to-many fan-out
		Dark:  "#d2a6ff",
	}
	ColorTypeAspect = lipgloss.AdaptiveColor{
		Light: "#4cbf99", // teal - fixed-angle review
		Dark:  "#95e6cb",
	}

	// === Formula Health States ===
	// Only actionable states get loud colors - ok stays calm
	ColorStateOK = lipgloss.AdaptiveColor{
		Light: "#86b300", // green - nothing to do
		Dark:  "#c2d94c",
	}
	ColorStateOutdated = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // yellow - update available
		Dark:  "#ffb454",
	}
	ColorStateModified = lipgloss.AdaptiveColor{
		Light: "#d2a6ff", // purple - user owns this copy now
		Dark:  "#d2a6ff",
	}
	ColorStateMissing = lipgloss.AdaptiveColor{
		Light: "#f07171", // red - installed then deleted
		Dark:  "#f26d78",
	}
	ColorStateNew = lipgloss.AdaptiveColor{
		Light: "#399ee6", // blue - never installed
		Dark:  "#59c2ff",
	}
	ColorStateUntracked = lipgloss.AdaptiveColor{
		Light: "#828c99", // muted - present without a record
		Dark:  "#6c7680",
	}
)

// Core styles - consistent across all commands
var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// Formula type styles
var (
	TypeWorkflowStyle  = lipgloss.NewStyle().Foreground(ColorTypeWorkflow)
	TypeConvoyStyle    = lipgloss.NewStyle().Foreground(ColorTypeConvoy)
	TypeExpansionStyle = lipgloss.NewStyle().Foreground(ColorTypeExpansion)
	TypeAspectStyle    = lipgloss.NewStyle().Foreground(ColorTypeAspect)
)

// Health state styles
var (
	StateOKStyle        = lipgloss.NewStyle().Foreground(ColorStateOK)
	StateOutdatedStyle  = lipgloss.NewStyle().Foreground(ColorStateOutdated)
	StateModifiedStyle  = lipgloss.NewStyle().Foreground(ColorStateModified)
	StateMissingStyle   = lipgloss.NewStyle().Foreground(ColorStateMissing)
	StateNewStyle       = lipgloss.NewStyle().Foreground(ColorStateNew)
	StateUntrackedStyle = lipgloss.NewStyle().Foreground(ColorStateUntracked)
)

// CategoryStyle for section headers - bold with accent color
var CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// BoldStyle for emphasis
var BoldStyle = lipgloss.NewStyle().Bold(true)

// CommandStyle for command names - subtle contrast, not attention-grabbing
var CommandStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
	Light: "#5c6166", // slightly darker than standard
	Dark:  "#bfbdb6", // slightly brighter than standard
})

// Status icons - consistent semantic indicators
// Design: small Unicode symbols, NOT emoji-style icons for visual consistency
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✖"
	IconSkip = "-"
	IconInfo = "ℹ"
)

// Health state icons - used consistently across all commands
// Design principle: icons > text labels for scannability
const (
	StateIconOK        = "✓" // matches the builtin
	StateIconOutdated  = "↑" // update available
	StateIconModified  = "✎" // user edited, hands off
	StateIconMissing   = "✖" // installed then deleted
	StateIconNew       = "+" // never installed
	StateIconUntracked = "?" // present without a record
)

// Bead marker for dependency listings - small filled circle
const BeadIcon = "●"

// Tree characters for hierarchical display
const (
	TreeChild  = "├─ " // child indicator
	TreeLast   = "└─ " // last child / detail line
	TreeIndent = "│  " // continuation under a non-last child
)

// Separators - 42 characters wide
const (
	SeparatorLight = "──────────────────────────────────────────"
	SeparatorHeavy = "══════════════════════════════════════════"
)

// === Core Render Functions ===

// RenderPass renders text with pass (green) styling
func RenderPass(s string) string {
	return PassStyle.Render(s)
}

// RenderWarn renders text with warning (yellow) styling
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

// RenderFail renders text with fail (red) styling
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders text with muted (gray) styling
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderAccent renders text with accent (blue) styling
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderCategory renders a category header in uppercase with accent color
func RenderCategory(s string) string {
	return CategoryStyle.Render(strings.ToUpper(s))
}

// RenderSeparator renders the light separator line in muted color
func RenderSeparator() string {
	return MutedStyle.Render(SeparatorLight)
}

// RenderBold renders text in bold
func RenderBold(s string) string {
	return BoldStyle.Render(s)
}

// RenderCommand renders a command name with subtle styling
func RenderCommand(s string) string {
	return CommandStyle.Render(s)
}

// === Icon Render Functions ===

// RenderPassIcon renders the pass icon with styling
func RenderPassIcon() string {
	return PassStyle.Render(IconPass)
}

// RenderWarnIcon renders the warning icon with styling
func RenderWarnIcon() string {
	return WarnStyle.Render(IconWarn)
}

// RenderFailIcon renders the fail icon with styling
func RenderFailIcon() string {
	return FailStyle.Render(IconFail)
}

// RenderSkipIcon renders the skip icon with styling
func RenderSkipIcon() string {
	return MutedStyle.Render(IconSkip)
}

// RenderInfoIcon renders the info icon with styling
func RenderInfoIcon() string {
	return AccentStyle.Render(IconInfo)
}

// === Formula Component Renderers ===

// RenderFormulaType renders a formula type tag with semantic styling
func RenderFormulaType(typ string) string {
	return GetTypeStyle(typ).Render(typ)
}

// GetTypeStyle returns the lipgloss style for a formula type
// Use this when you need to apply the type color to custom text
func GetTypeStyle(typ string) lipgloss.Style {
	switch typ {
	case "workflow":
		return TypeWorkflowStyle
	case "convoy":
		return TypeConvoyStyle
	case "expansion":
		return TypeExpansionStyle
	case "aspect":
		return TypeAspectStyle
	default:
		return lipgloss.NewStyle()
	}
}

// RenderState renders a health state label with semantic styling
// ok stays calm; every other state is a call to action
func RenderState(state string) string {
	return GetStateStyle(state).Render(state)
}

// RenderStateIcon returns the appropriate icon for a health state with
// semantic coloring. This is the canonical source for state icon
// rendering - use this everywhere
func RenderStateIcon(state string) string {
	return GetStateStyle(state).Render(GetStateIcon(state))
}

// GetStateIcon returns just the icon character without styling
// Useful when you need to apply custom styling or for non-TTY output
func GetStateIcon(state string) string {
	switch state {
	case "ok":
		return StateIconOK
	case "outdated":
		return StateIconOutdated
	case "modified":
		return StateIconModified
	case "missing":
		return StateIconMissing
	case "new":
		return StateIconNew
	case "untracked":
		return StateIconUntracked
	default:
		return "?"
	}
}

// GetStateStyle returns the lipgloss style for a health state
func GetStateStyle(state string) lipgloss.Style {
	switch state {
	case "ok":
		return StateOKStyle
	case "outdated":
		return StateOutdatedStyle
	case "modified":
		return StateModifiedStyle
	case "missing":
		return StateMissingStyle
	case "new":
		return StateNewStyle
	case "untracked":
		return StateUntrackedStyle
	default:
		return lipgloss.NewStyle()
	}
}

// RenderVarRequired renders a var's required marker: red asterisk for
// required vars without a default, muted dash otherwise
func RenderVarRequired(required bool) string {
	if required {
		return FailStyle.Render("*")
	}
	return MutedStyle.Render("-")
}

// RenderBeadLine renders a compact one-line bead summary
// Format: ● id ← needs
func RenderBeadLine(id string, needs []string) string {
	if len(needs) == 0 {
		return AccentStyle.Render(BeadIcon) + " " + id
	}
	return AccentStyle.Render(BeadIcon) + " " + id + MutedStyle.Render(" ← "+strings.Join(needs, ", "))
}
