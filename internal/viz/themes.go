package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the canvas and the stats panel.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeStage = Theme{
		Name:      "stage",
		Primary:   lipgloss.Color("#ffd27f"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ff00ff"),
		Muted:     lipgloss.Color("#666688"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Muted:     lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Muted:     lipgloss.Color("#888888"),
	}

	Themes = []Theme{ThemeStage, ThemeRetroGreen, ThemeMinimal}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeStage
}

// NextTheme returns the theme after cur, wrapping around.
func NextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
