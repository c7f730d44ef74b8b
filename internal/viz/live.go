package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 40
	historyCapacity = 300
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	menuStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

type TickMsg time.Time

// Options configures the live model.
type Options struct {
	FPS   int
	View  ViewMode
	Theme string
}

// Model drives a controller at a fixed frame rate and renders it.
type Model struct {
	ctrl     *sim.Controller
	camera   *Camera
	renderer *Renderer
	canvas   *Canvas
	menu     *Menu

	fps       int
	theme     int
	frameRate float64
	lastFrame time.Time
	heights   []float64
	status    string
	showHelp  bool
	quitting  bool
}

func NewModel(c *sim.Controller, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	cam := NewCamera(opts.FPS)
	if opts.View == ViewFly {
		cam.Fly()
	}
	idx := themeIndex(opts.Theme)
	return Model{
		ctrl:     c,
		camera:   cam,
		renderer: NewRenderer(cam, Themes[idx]),
		canvas:   NewCanvas(width-statsWidth, height),
		menu:     &Menu{},
		fps:      opts.FPS,
		theme:    idx,
		heights:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Camera exposes the camera for callers that script the view.
func (m Model) Camera() *Camera { return m.camera }

// Status returns the last rejected command, if any.
func (m Model) Status() string { return m.status }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.menu.Open {
			return m.menuKey(msg)
		}
		return m.key(msg)
	case tea.MouseMsg:
		return m.mouse(msg)
	case tea.WindowSizeMsg:
		w, h := msg.Width-statsWidth-4, msg.Height-2
		if w > 10 && h > 5 {
			m.canvas = NewCanvas(w, h)
		}
	case TickMsg:
		m.frame(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		m.ctrl.Toggle()
	case " ":
		m.ctrl.Start()
	case "m":
		m.menu.Show()
	case "?":
		m.showHelp = !m.showHelp
	case "T":
		m.theme = (m.theme + 1) % len(Themes)
		m.renderer.Theme = Themes[m.theme]
	case "left":
		m.camera.Left()
	case "right":
		m.camera.Right()
	case "up":
		m.camera.Up()
	case "down":
		m.camera.Down()
	case "a":
		m.camera.Raise()
	case "s":
		m.camera.Lower()
	default:
		if a := hotkey(msg.String(), m.ctrl.Params().Style); a != ActNone {
			return m.do(a)
		}
	}
	return m, nil
}

func hotkey(k string, style sim.Style) Action {
	switch k {
	case "o":
		return ActOriginalView
	case "f":
		return ActFlyAround
	case "g":
		return ActGravityUp
	case "G":
		return ActGravityDown
	case "v":
		return ActVelocityUp
	case "V":
		return ActVelocityDown
	case "1":
		return ActPoint
	case "2":
		return ActSprite
	case "3":
		return ActSphere
	case "+", "=":
		return sizeAction(style, true)
	case "-", "_":
		return sizeAction(style, false)
	case "0":
		return ActCountReset
	case "x":
		return ActCountGrow
	case "X":
		return ActCountShrink
	case "t":
		return ActTexture
	}
	return ActNone
}

func (m Model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "m":
		m.menu.Hide()
	case "up", "k":
		m.menu.Prev()
	case "down", "j":
		m.menu.Next()
	case "enter":
		return m.do(m.menu.Selected())
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.camera.BeginDrag(msg.X)
	case msg.Action == tea.MouseActionMotion:
		m.camera.DragTo(msg.X)
	case msg.Action == tea.MouseActionRelease:
		m.camera.EndDrag()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		m.menu.Show()
	}
	return m, nil
}

func (m Model) do(a Action) (tea.Model, tea.Cmd) {
	quit, err := apply(a, m.ctrl, m.camera)
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	m.status = ""
	if err != nil {
		m.status = err.Error()
	}
	return m, nil
}

// frame advances one fixed step and updates the frame-rate estimate.
func (m *Model) frame(now time.Time) {
	if !m.lastFrame.IsZero() {
		if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
			inst := 1 / dt
			if m.frameRate == 0 {
				m.frameRate = inst
			} else {
				m.frameRate = 0.9*m.frameRate + 0.1*inst
			}
		}
	}
	m.lastFrame = now

	m.ctrl.Tick()
	m.camera.Update()
	if len(m.heights) >= historyCapacity {
		m.heights = m.heights[1:]
	}
	m.heights = append(m.heights, metrics.Height(m.ctrl.Store()))
}

// View renders the TUI interface.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.renderer.Draw(m.canvas, m.ctrl)
	canvasView := canvasStyle.Render(m.canvas.Render(m.renderer.Theme.BackgroundColor()))

	t := m.renderer.Theme
	header := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1)
	p := m.ctrl.Params()

	var s strings.Builder
	s.WriteString(header.Render("PARTICLE FOUNTAIN") + "\n")
	if m.ctrl.Running() {
		s.WriteString(lipgloss.NewStyle().Foreground(t.Success).Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Render("PAUSED") + "\n\n")
	}
	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(4), asciigraph.Width(24), asciigraph.Caption("Mean height"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("FPS", fmt.Sprintf("%.1f", m.frameRate))
	row("Time", fmt.Sprintf("%.2fs", m.ctrl.Time()))
	row("Particles", fmt.Sprintf("%d", m.ctrl.Count()))
	row("Gravity", fmt.Sprintf("%.1f", p.Gravity))
	row("Velocity", fmt.Sprintf("%.1f", p.MeanVelocity))
	row("Style", p.Style.String())
	row("Size", sizeLabel(p))
	row("View", m.camera.Mode.String())
	row("Bounces", fmt.Sprintf("%d", m.ctrl.LastStats().Bounces))
	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Error).Width(statsWidth-4).Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nENTER:Pause SP:Restart Q:Quit\nM:Menu T:Theme ?:Help"))

	side := s.String()
	if m.menu.Open {
		side = m.menuView()
	}
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(side))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func (m Model) menuView() string {
	sel := lipgloss.NewStyle().Foreground(m.renderer.Theme.Accent).Bold(true)
	var b strings.Builder
	for i, it := range MenuItems {
		if i == m.menu.Cursor {
			b.WriteString(sel.Render("> "+it.Label) + "\n")
		} else {
			b.WriteString("  " + it.Label + "\n")
		}
	}
	return menuStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func sizeLabel(p sim.Params) string {
	switch p.Style {
	case sim.StyleSprite:
		return fmt.Sprintf("%.2f", p.SpriteSize)
	case sim.StyleSphere:
		tex := "off"
		if p.Texture {
			tex = "on"
		}
		return fmt.Sprintf("%d slices, texture %s", p.SphereSlices, tex)
	}
	return fmt.Sprintf("%d", p.PointSize)
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Enter     - Pause/Resume            ║
║  Space     - Restart                 ║
║  m / right - Menu                    ║
║  o / f     - Original view / Fly     ║
║  arrows    - Fly camera              ║
║  a / s     - Raise / lower target    ║
║  g G v V   - Gravity, velocity       ║
║  1 2 3     - Point, square, sphere   ║
║  + -       - Size                    ║
║  x X 0     - x10, /10, 100 points    ║
║  t         - Texture                 ║
║  T         - Cycle themes            ║
║  ?         - Toggle this help        ║
║  q / Esc   - Quit                    ║
╚══════════════════════════════════════╝`
