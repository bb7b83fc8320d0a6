package viz

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/linetrace/internal/course"
	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/experiment"
	"github.com/san-kum/linetrace/internal/export"
	"github.com/san-kum/linetrace/internal/physics"
	"github.com/san-kum/linetrace/internal/sensor"
)

const (
	width           = 64
	height          = 24
	historyCapacity = 300
	trailCapacity   = 400

	// floorThreshold marks thumbnail pixels dark enough to draw as line.
	floorThreshold = 128
)

type TickMsg time.Time

type resetter interface{ Reset() }

type point struct{ x, y int }

// Model drives one experiment a frame at a time and renders the course,
// the vehicle and its sensor bar.
type Model struct {
	sim      *dynamo.Simulator
	course   *course.Course
	sensors  sensor.Array
	ctrl     dynamo.Controller
	ctrlName string

	state, initialState dynamo.State
	u                   dynamo.Control
	t, dt               float64
	stepsPerFrame       int
	frame               time.Duration

	canvas *Canvas
	floor  *Canvas
	trail  []point

	leftHistory, rightHistory []float64

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	running  bool
	showHelp bool
	status   string
	err      error
}

// NewModel wraps exp for interactive display at fps frames per second. The
// simulation advances in real time: each frame covers 1/fps seconds of
// simulated time.
func NewModel(exp *experiment.Experiment, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	cfg := exp.Config()
	frame := time.Second / time.Duration(fps)
	steps := int(math.Round(frame.Seconds() / cfg.Dt))
	if steps < 1 {
		steps = 1
	}

	floor := NewCanvas(width, height)
	floor.Blit(exp.Course().Thumbnail(width*2, height*4), floorThreshold)

	params := make(map[string]float64)
	if c, ok := exp.Controller().(dynamo.Configurable); ok {
		for k, v := range c.GetParams() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	initialParams := make(map[string]float64, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initialParams[k] = v
	}
	sort.Strings(keys)

	x0 := exp.InitialState()
	return Model{
		sim:           exp.GetSimulator(),
		course:        exp.Course(),
		sensors:       exp.Sensors(),
		ctrl:          exp.Controller(),
		ctrlName:      cfg.Controller,
		state:         x0,
		initialState:  x0.Clone(),
		u:             make(dynamo.Control, len(experiment.ControlLabels)),
		dt:            cfg.Dt,
		stepsPerFrame: steps,
		frame:         frame,
		canvas:        NewCanvas(width, height),
		floor:         floor,
		trail:         make([]point, 0, trailCapacity),
		leftHistory:   make([]float64, 0, historyCapacity),
		rightHistory:  make([]float64, 0, historyCapacity),
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
		running:       true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "s":
			m.snapshot()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerFrame; i++ {
				if !m.step() {
					break
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances one simulation tick. It pauses the model and returns false
// when the simulator reports an error.
func (m *Model) step() bool {
	next, u, err := m.sim.Step(m.state, m.t, m.dt)
	if err != nil {
		m.err = err
		m.running = false
		return false
	}
	m.state, m.u = next, u
	m.t += m.dt

	m.leftHistory = pushBounded(m.leftHistory, u[0], historyCapacity)
	m.rightHistory = pushBounded(m.rightHistory, u[1], historyCapacity)

	px, py := m.project(m.state[physics.IdxX], m.state[physics.IdxY])
	if n := len(m.trail); n == 0 || m.trail[n-1] != (point{px, py}) {
		m.trail = append(m.trail, point{px, py})
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[1:]
		}
	}
	return true
}

func pushBounded(buf []float64, v float64, capacity int) []float64 {
	buf = append(buf, v)
	if len(buf) > capacity {
		buf = buf[1:]
	}
	return buf
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
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if val == 0 {
		// scaling zero gets nowhere; nudge it off the origin
		val = 0.01 * (factor - 1) / math.Abs(factor-1)
	}
	m.setParam(key, val)
}

func (m *Model) setParam(key string, val float64) {
	c, ok := m.ctrl.(dynamo.Configurable)
	if !ok {
		return
	}
	if err := c.SetParam(key, val); err != nil {
		m.status = err.Error()
		return
	}
	m.params[key] = val
}

// reset restores the initial pose and gains and clears the history.
func (m *Model) reset() {
	m.t = 0
	m.state = m.initialState.Clone()
	m.u = make(dynamo.Control, len(m.u))
	m.trail = m.trail[:0]
	m.leftHistory = m.leftHistory[:0]
	m.rightHistory = m.rightHistory[:0]
	m.err = nil
	m.status = ""
	m.running = true
	for k, v := range m.initialParams {
		m.setParam(k, v)
	}
	if r, ok := m.ctrl.(resetter); ok {
		r.Reset()
	}
	m.sensors.Set(make([]float64, m.sensors.Len())...)
}

// snapshot writes the current frame as SVG to the working directory.
func (m *Model) snapshot() {
	m.draw()
	name := fmt.Sprintf("linetrace_%s_%.2fs.svg", m.ctrlName, m.t)
	if err := os.WriteFile(name, []byte(export.CanvasToSVG(m.canvas.Grid, 4)), 0o644); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "saved " + name
}

// project maps world metres onto canvas sub-pixels, y up.
func (m *Model) project(x, y float64) (int, int) {
	w, h := m.course.Bounds()
	cw, ch := float64(m.canvas.Width*2), float64(m.canvas.Height*4)
	px := int(x / w * cw)
	py := int((1 - y/h) * ch)
	return px, py
}

func (m *Model) draw() {
	for i, row := range m.floor.Grid {
		copy(m.canvas.Grid[i], row)
	}
	for i := 1; i < len(m.trail); i++ {
		a, b := m.trail[i-1], m.trail[i]
		m.canvas.DrawLine(a.x, a.y, b.x, b.y)
	}

	pose := physics.Pose(m.state)
	for _, pr := range m.sensors {
		sx, sy := pose.WorldPoint(pr.Forward, pr.Lateral)
		px, py := m.project(sx, sy)
		m.canvas.Set(px, py)
	}
	px, py := m.project(pose.X, pose.Y)
	m.canvas.Mark(px, py, headingGlyph(pose.Heading))
}

// headingGlyph picks the arrow nearest to the heading, measured
// counter-clockwise from +x.
func headingGlyph(heading float64) rune {
	arrows := []rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}
	a := math.Mod(heading, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	idx := int(math.Round(a/(math.Pi/4))) % len(arrows)
	return arrows[idx]
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("LINETRACE · "+strings.ToUpper(m.ctrlName)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("HALTED") + "\n")
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.leftHistory) > 1 {
		chart := asciigraph.PlotMany(
			[][]float64{m.leftHistory, m.rightHistory},
			asciigraph.Height(5),
			asciigraph.Width(36),
			asciigraph.LowerBound(-1),
			asciigraph.UpperBound(1),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Blue),
			asciigraph.Caption("left / right"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.3f m/s", physics.Speed(m.state))) + "\n")
	s.WriteString(labelStyle.Render("Sensors") + SensorStrip(m.sensors.Values()) + "\n")
	s.WriteString(labelStyle.Render("Left") + CommandBar(m.u[0], 8) + valueStyle.Render(fmt.Sprintf(" %+.2f", m.u[0])) + "\n")
	s.WriteString(labelStyle.Render("Right") + CommandBar(m.u[1], 8) + valueStyle.Render(fmt.Sprintf(" %+.2f", m.u[1])) + "\n")

	s.WriteString("\nGAINS\n")
	if len(m.paramKeys) > 0 {
		for i, k := range m.paramKeys {
			line := fmt.Sprintf("%-6s %+.3f", k, m.params[k])
			if i == m.selected {
				s.WriteString(activeParamStyle.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + labelStyle.Render(line) + "\n")
			}
		}
	} else {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nS:Snapshot ?:Help ↑↓:Tune"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  Tab      - Cycle gains              ║
║  Up/K     - Increase gain (+5%)      ║
║  Down/J   - Decrease gain (-5%)      ║
║  S        - Save frame as SVG        ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run opens the live view on the alternate screen and blocks until quit.
func Run(exp *experiment.Experiment, fps int) error {
	p := tea.NewProgram(NewModel(exp, fps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
