package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tickMsg time.Time

type tuiModel struct {
	sess     *EditSession
	keys     keyMap
	help     help.Model
	bar      progress.Model
	interval time.Duration
	width    int

	// refreshed on every tick and action
	position time.Duration
	playing  bool
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	windowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

func newTUIModel(sess *EditSession, interval time.Duration) tuiModel {
	h := help.New()
	h.ShortSeparator = "  "
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 60
	return tuiModel{
		sess:     sess,
		keys:     defaultKeyMap(),
		help:     h,
		bar:      bar,
		interval: interval,
	}
}

func tuiTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick(m.interval)
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWidth(msg.Width)

	case tea.KeyMsg:
		a, ok := m.keys.route(msg)
		if !ok {
			return m, nil
		}
		if m.sess.Do(a) {
			return m, tea.Quit
		}
		m.refresh()

	case tickMsg:
		m.refresh()
		return m, tuiTick(m.interval)
	}
	return m, nil
}

func (m *tuiModel) setWidth(w int) {
	m.width = w
	m.help.Width = w
	m.bar.Width = max(w-4, 10)
}

func (m *tuiModel) refresh() {
	m.position = m.sess.Position()
	m.playing = m.sess.Playing()
}

// fraction is the progress bar fill for the current position.
func (m tuiModel) fraction() float64 {
	d := m.sess.Duration()
	if d <= 0 {
		return 0
	}
	return min(max(float64(m.position)/float64(d), 0), 1)
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.sess.track.Path))
	b.WriteString("\n\n")

	state := pausedStyle.Render("❚❚ paused ")
	if m.playing {
		state = playingStyle.Render("▶ playing")
	}
	b.WriteString(state + "  " + clockStyle.Render(formatClock(m.position)+" / "+formatClock(m.sess.Duration())))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.fraction()))
	b.WriteString("\n\n")

	l, r := m.sess.Span()
	b.WriteString(dimStyle.Render("window ") + windowStyle.Render(formatClock(l)+" - "+formatClock(r)))
	b.WriteString(dimStyle.Render("  (" + formatClock(r-l) + ")"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.sess.Status()))
	b.WriteString("\n\n")

	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
