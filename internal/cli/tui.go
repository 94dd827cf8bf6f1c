package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stresslayout/pkg/animate"
	"github.com/matzehuels/stresslayout/pkg/layout"
)

// Canvas styles
var (
	canvasBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	nodeStyle         = lipgloss.NewStyle().Foreground(colorWhite)
	nodeFixedStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	nodeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	edgeStyle         = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	// frameInterval is the watch view's redraw period.
	frameInterval = 33 * time.Millisecond

	// dragStep is how far one arrow key press moves the selected node.
	dragStep = 10.0
)

// =============================================================================
// WatchModel - Live layout view
// =============================================================================

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// WatchModel is the bubbletea model that animates a running layout. Each
// frame polls a scheduler holding the layout, so the view redraws after every
// tick.
type WatchModel struct {
	Layout *layout.Layout
	Labels []string

	scheduler *animate.Scheduler
	scheduled bool
	paused    bool
	selected  int
	dragging  bool

	width, height int
	last          layout.Event
	Err           error
}

// NewWatchModel wraps a started layout. labels name the nodes by index.
func NewWatchModel(l *layout.Layout, labels []string) *WatchModel {
	m := &WatchModel{
		Layout:    l,
		Labels:    labels,
		scheduler: animate.NewScheduler(),
		width:     80,
		height:    24,
	}
	for _, t := range []layout.EventType{layout.EventStart, layout.EventTick, layout.EventEnd} {
		l.On(t, func(e layout.Event) { m.last = e })
	}
	m.schedule()
	return m
}

// schedule adds the layout to the scheduler unless it is already there.
func (m *WatchModel) schedule() {
	if m.scheduled {
		return
	}
	m.scheduler.Add(m.Layout)
	m.scheduled = true
}

func (m *WatchModel) Init() tea.Cmd {
	return nextFrame()
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if !m.paused && m.scheduled {
			if err := m.scheduler.Poll(); err != nil {
				m.Err = err
				return m, tea.Quit
			}
			m.scheduled = m.scheduler.Len() > 0
		}
		return m, nextFrame()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *WatchModel) handleKey(key string) tea.Cmd {
	n := len(m.Layout.Nodes())
	switch key {
	case "q", "ctrl+c", "esc":
		m.release()
		return tea.Quit
	case " ":
		m.paused = !m.paused
	case "r":
		m.Layout.Resume()
		m.schedule()
	case "tab", "n":
		if n > 0 {
			m.release()
			m.selected = (m.selected + 1) % n
		}
	case "f":
		if n > 0 {
			v := m.Layout.Nodes()[m.selected]
			_ = m.Layout.SetFixed(m.selected, v.Fixed != layout.UserFixed)
		}
	case "enter":
		m.release()
	case "up", "k":
		m.drag(0, -dragStep)
	case "down", "j":
		m.drag(0, dragStep)
	case "left", "h":
		m.drag(-dragStep, 0)
	case "right", "l":
		m.drag(dragStep, 0)
	}
	return nil
}

// drag moves the selected node, starting a drag on the first move.
func (m *WatchModel) drag(dx, dy float64) {
	if len(m.Layout.Nodes()) == 0 {
		return
	}
	if !m.dragging {
		if err := m.Layout.DragStart(m.selected); err != nil {
			return
		}
		m.dragging = true
	}
	v := m.Layout.Nodes()[m.selected]
	_ = m.Layout.DragMove(m.selected, v.PX+dx, v.PY+dy)
	m.schedule()
}

func (m *WatchModel) release() {
	if m.dragging {
		_ = m.Layout.DragEnd(m.selected)
		m.dragging = false
	}
}

func (m *WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("stresslayout watch"))
	b.WriteString("  ")
	b.WriteString(m.status())
	b.WriteString("\n")

	cols := max(m.width-2, 10)
	rows := max(m.height-5, 5)
	b.WriteString(canvasBorderStyle.Render(m.canvas(cols, rows)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space pause  r resume  tab next  arrows drag  f fix  q quit"))
	return b.String()
}

func (m *WatchModel) status() string {
	state := StyleSuccess.Render("running")
	switch {
	case m.paused:
		state = StyleWarning.Render("paused")
	case !m.Layout.Running():
		state = StyleDim.Render("converged")
	}
	return fmt.Sprintf("%s  tick %s  alpha %s  stress %s",
		state,
		StyleNumber.Render(fmt.Sprint(m.Layout.Ticks())),
		StyleNumber.Render(fmt.Sprintf("%.4g", m.Layout.Alpha())),
		StyleNumber.Render(fmt.Sprintf("%.4g", m.last.Stress)),
	)
}

// canvas plots the x/y projection of the layout onto a cols×rows grid.
func (m *WatchModel) canvas(cols, rows int) string {
	nodes := m.Layout.Nodes()
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	x0, x1, y0, y1 := bounds(nodes)
	sx := float64(cols-1) / math.Max(x1-x0, 1)
	sy := float64(rows-1) / math.Max(y1-y0, 1)
	s := math.Min(sx, sy*2) // terminal cells are about twice as tall as wide
	cell := func(v *layout.Node) (int, int) {
		c := int(math.Round((v.X - x0) * s))
		r := int(math.Round((v.Y - y0) * s / 2))
		return min(max(c, 0), cols-1), min(max(r, 0), rows-1)
	}

	for _, e := range m.Layout.Links() {
		if e.Source >= len(nodes) || e.Target >= len(nodes) {
			continue
		}
		c0, r0 := cell(nodes[e.Source])
		c1, r1 := cell(nodes[e.Target])
		steps := max(abs(c1-c0), abs(r1-r0))
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			c := c0 + int(math.Round(t*float64(c1-c0)))
			r := r0 + int(math.Round(t*float64(r1-r0)))
			grid[r][c] = edgeStyle.Render("·")
		}
	}

	for i, v := range nodes {
		c, r := cell(v)
		style := nodeStyle
		switch {
		case i == m.selected:
			style = nodeSelectedStyle
		case v.EffectivelyFixed():
			style = nodeFixedStyle
		}
		grid[r][c] = style.Render(m.glyph(i))
	}

	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func (m *WatchModel) glyph(i int) string {
	if i < len(m.Labels) && m.Labels[i] != "" {
		return string([]rune(m.Labels[i])[:1])
	}
	return "●"
}

func bounds(nodes []*layout.Node) (x0, x1, y0, y1 float64) {
	if len(nodes) == 0 {
		return 0, 1, 0, 1
	}
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, v := range nodes {
		x0, x1 = math.Min(x0, v.X), math.Max(x1, v.X)
		y0, y1 = math.Min(y0, v.Y), math.Max(y1, v.Y)
	}
	return x0, x1, y0, y1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
