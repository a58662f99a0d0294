package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/teatro/internal/dynamo"
	"github.com/san-kum/teatro/internal/metrics"
	"github.com/san-kum/teatro/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 120

	// KickSpeed is the horizontal speed the kick key gives a ball.
	KickSpeed = 4.0
)

type TickMsg time.Time

// Builder makes a fresh scene; reset calls it again.
type Builder func() (dynamo.Scene, error)

// Model is the live viewer for one scene.
type Model struct {
	build         Builder
	scene         dynamo.Scene
	focus         string
	dt            float64
	width, height int
	canvas        *Canvas
	camera        *Camera
	theme         Theme
	trail         []dynamo.Vec3
	heightHistory []float64
	speedHistory  []float64
	running       bool
	params        map[string]float64
	paramKeys     []string
	selected      int
	showHelp      bool
	err           error
}

func NewModel(build Builder, dt float64) (Model, error) {
	scene, err := build()
	if err != nil {
		return Model{}, err
	}
	m := Model{
		build:   build,
		dt:      dt,
		width:   width,
		height:  height,
		canvas:  NewCanvas(width, height),
		theme:   ThemeStage,
		running: true,
	}
	m.load(scene)
	return m, nil
}

func (m *Model) load(scene dynamo.Scene) {
	m.scene = scene
	m.focus = focusBody(scene)
	m.camera = cameraFor(scene)
	m.trail = make([]dynamo.Vec3, 0, trailCapacity)
	m.heightHistory = make([]float64, 0, historyCapacity)
	m.speedHistory = make([]float64, 0, historyCapacity)
	m.params, m.paramKeys, m.selected = nil, nil, 0

	if c, ok := scene.(dynamo.Configurable); ok {
		m.params = c.GetParams()
		for k := range m.params {
			m.paramKeys = append(m.paramKeys, k)
		}
		sort.Strings(m.paramKeys)
	}
}

func focusBody(scene dynamo.Scene) string {
	switch scene.(type) {
	case *physics.Ball:
		return physics.BallName
	case *physics.Puppet:
		return physics.Torso
	}
	if f := scene.Frame(); len(f.Bodies) > 0 {
		return f.Bodies[0].Name
	}
	return ""
}

func cameraFor(scene dynamo.Scene) *Camera {
	switch scene.(type) {
	case *physics.Ball:
		return NewCamera(dynamo.V(0, 7, 0), metrics.RoomHalfX+1, 8)
	case *physics.Puppet:
		return NewCamera(dynamo.V(0, 10, 0), 6, 7)
	}
	return NewCamera(dynamo.Zero, 10, 10)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Scene() dynamo.Scene { return m.scene }
func (m Model) Running() bool       { return m.running }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "right", "l":
			m.kick()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			m.theme = NextTheme(m.theme)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.scene.Step(m.dt)

	s, ok := m.scene.Frame().Body(m.focus)
	if !ok {
		return
	}
	m.heightHistory = appendCapped(m.heightHistory, s.Position.Y(), historyCapacity)
	m.speedHistory = appendCapped(m.speedHistory, s.Velocity.Length(), historyCapacity)
	m.trail = append(m.trail, s.Position)
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
}

func appendCapped(xs []float64, v float64, capacity int) []float64 {
	xs = append(xs, v)
	if len(xs) > capacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model) reset() {
	scene, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.load(scene)
}

func (m *Model) kick() {
	if k, ok := m.scene.(dynamo.Kickable); ok {
		k.SetHorizontalSpeed(KickSpeed)
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	c, ok := m.scene.(dynamo.Configurable)
	if !ok {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if err := c.SetParam(key, val); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.params[key] = val
}

// draw renders floor, room, constraints, bodies and the focus trail.
func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := m.canvas.Width*2, m.canvas.Height*4

	point := func(p dynamo.Vec3) (int, int, bool) { return m.camera.Project(p, cw, ch) }
	line := func(a, b dynamo.Vec3) {
		x0, y0, ok0 := point(a)
		x1, y1, ok1 := point(b)
		if ok0 || ok1 {
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}

	if floorY, ok := m.floor(); ok {
		hw, hz := m.camera.HalfW, metrics.RoomHalfZ
		corners := []dynamo.Vec3{
			dynamo.V(-hw, floorY, -hz), dynamo.V(hw, floorY, -hz),
			dynamo.V(hw, floorY, hz), dynamo.V(-hw, floorY, hz),
		}
		for i := range corners {
			line(corners[i], corners[(i+1)%len(corners)])
		}
		if _, isBall := m.scene.(*physics.Ball); isBall {
			for _, x := range []float64{-metrics.RoomHalfX, metrics.RoomHalfX} {
				for _, z := range []float64{-metrics.RoomHalfZ, metrics.RoomHalfZ} {
					line(dynamo.V(x, floorY, z), dynamo.V(x, floorY+2*m.camera.HalfH, z))
				}
			}
		}
	}

	w := m.scene.World()
	bodies := w.Bodies()
	for _, c := range w.Constraints() {
		if d, ok := c.(dynamo.Distance); ok {
			line(bodies[d.A].Position, bodies[d.B].Position)
		}
	}

	for _, b := range bodies {
		if b.HalfExtents == nil {
			if x, y, ok := point(b.Position); ok {
				m.canvas.Cross(x, y)
			}
			continue
		}
		drawBox(b.Position, *b.HalfExtents, line)
	}

	for _, p := range m.trail {
		if x, y, ok := point(p); ok {
			m.canvas.Set(x, y)
		}
	}
}

func (m *Model) floor() (float64, bool) {
	f, ok := m.scene.(dynamo.Floored)
	if !ok {
		return 0, false
	}
	if h, ok := m.scene.(interface{ HasFloor() bool }); ok && !h.HasFloor() {
		return 0, false
	}
	return f.FloorY(), true
}

func drawBox(c, h dynamo.Vec3, line func(a, b dynamo.Vec3)) {
	var v [8]dynamo.Vec3
	for i := range v {
		sx, sy, sz := -1.0, -1.0, -1.0
		if i&1 != 0 {
			sx = 1
		}
		if i&2 != 0 {
			sy = 1
		}
		if i&4 != 0 {
			sz = 1
		}
		v[i] = c.Add(dynamo.V(sx*h.X(), sy*h.Y(), sz*h.Z()))
	}
	for i := range v {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				line(v[i], v[i|bit])
			}
		}
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle(m.theme).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle(m.theme).Render(strings.ToUpper(m.scene.Name())) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.heightHistory) > 1 {
		chart := asciigraph.Plot(m.heightHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(m.focus+" height"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	w := m.scene.World()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.scene.Time()))
	if f, ok := m.scene.Frame().Body(m.focus); ok {
		row("Height", fmt.Sprintf("%.3f", f.Position.Y()))
		row("Speed", fmt.Sprintf("%.3f", f.Velocity.Length()))
	}
	row("Kinetic", fmt.Sprintf("%.3f", w.KineticEnergy()))
	row("Bodies", fmt.Sprintf("%d / %d constraints", w.Len(), w.NumConstraints()))
	s.WriteString(labelStyle.Render("Speed hist") + SparklineChart(m.speedHistory, 30) + "\n")

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-14s %.3f", k, m.params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle(m.theme).Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n→:Kick T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Rebuild the scene        ║
║  Q        - Quit                     ║
║  →/L      - Kick the ball sideways   ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  X/Y      - Orbit camera             ║
║  +/-      - Zoom                     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run opens the viewer full screen until the user quits.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
