package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Launcher turns a picked entry into a live viewer.
type Launcher func(name string) (Model, error)

// Picker is a menu of scene presets shown when live is run without a scene.
type Picker struct {
	items  []string
	cursor int
	launch Launcher
	err    error
}

func NewPicker(items []string, launch Launcher) Picker {
	return Picker{items: items, launch: launch}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Selected() string {
	if len(p.items) == 0 {
		return ""
	}
	return p.items[p.cursor]
}

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case "enter":
		if len(p.items) == 0 {
			return p, nil
		}
		m, err := p.launch(p.items[p.cursor])
		if err != nil {
			p.err = err
			return p, nil
		}
		return m, m.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	title := lipgloss.NewStyle().Foreground(ThemeStage.Secondary).Bold(true).MarginBottom(1)
	selected := activeParamStyle(ThemeStage)
	muted := lipgloss.NewStyle().Foreground(ThemeStage.Muted)

	var s strings.Builder
	s.WriteString(title.Render("TEATRO") + "\n")
	for i, item := range p.items {
		if i == p.cursor {
			s.WriteString(selected.Render("> "+item) + "\n")
		} else {
			s.WriteString("  " + item + "\n")
		}
	}
	if p.err != nil {
		s.WriteString("\n" + errorStyle.Render(fmt.Sprintf("error: %v", p.err)) + "\n")
	}
	s.WriteString(muted.Render("\n↑↓:Select Enter:Open Q:Quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}
