package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/steveyegge/gasworks/internal/ui"
)

var themeCmd = &cobra.Command{
	Use:     "theme",
	GroupID: GroupDiag,
	Short:   "Show the CLI color scheme and how it was chosen",
	Long: `Show the effective CLI color scheme and the detection behind it.

Modes:
  auto   - Detect the terminal background (default)
  dark   - Light text for dark backgrounds
  light  - Dark text for light backgrounds

The mode is controlled per-session via the GW_THEME environment
variable; NO_COLOR disables color entirely.

Examples:
  gw theme                      # Show current detection
  GW_THEME=light gw parse f.toml  # Override for a single command`,
	Args: cobra.NoArgs,
	RunE: runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	mode := ui.GetThemeMode()

	fmt.Printf("CLI Theme:\n")
	if envValue := os.Getenv("GW_THEME"); envValue != "" {
		fmt.Printf("  Override:   %s (via GW_THEME)\n", envValue)
	}
	fmt.Printf("  Effective:  %s\n", mode)

	if mode == ui.ThemeModeAuto {
		detected := "light"
		if ui.HasDarkBackground() {
			detected = "dark"
		}
		fmt.Printf("  Detected:   %s background\n", detected)
	}

	color := "off"
	if ui.ShouldUseColor() {
		color = "on"
	}
	fmt.Printf("  Color:      %s\n", color)
	return nil
}
