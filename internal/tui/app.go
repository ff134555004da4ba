package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/actionsum/usagetrack/internal/models"
	"github.com/actionsum/usagetrack/internal/reporter"
	"github.com/actionsum/usagetrack/internal/tracker"
)

type phase int

const (
	phaseWaiting phase = iota
	phaseTracking
	phaseStopped
)

// pollMsg asks for the next window query.
type pollMsg struct{}

// snapshotMsg carries a finished query back into Update.
type snapshotMsg struct {
	snap models.Snapshot
	at   time.Time
}

// Model is the interactive poll loop. Queries run as commands off the
// update goroutine; their results are applied to the tracker in Update, so
// the tracker only ever sees one writer.
type Model struct {
	ctx      context.Context
	poller   *tracker.Poller
	reporter *reporter.Reporter
	interval time.Duration

	phase    phase
	marks    map[int]models.EventKind
	quitting bool
}

// NewModel creates the model. With autoStart the ENTER confirmation is
// skipped and polling begins in Init.
func NewModel(ctx context.Context, poller *tracker.Poller, rep *reporter.Reporter, interval time.Duration, autoStart bool) Model {
	m := Model{
		ctx:      ctx,
		poller:   poller,
		reporter: rep,
		interval: interval,
	}
	if autoStart {
		m.phase = phaseTracking
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.phase == phaseTracking {
		return m.query()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.phase {
		case phaseWaiting:
			return m.updateWaiting(msg)
		case phaseTracking:
			return m.updateTracking(msg)
		case phaseStopped:
			m.quitting = true
			return m, tea.Quit
		}

	case pollMsg:
		if m.phase == phaseTracking {
			return m, m.query()
		}

	case snapshotMsg:
		// A query that was outstanding when tracking stopped is dropped.
		if m.phase != phaseTracking {
			return m, nil
		}
		events := m.poller.Tracker().Observe(msg.snap, msg.at)
		m.marks = reporter.Marks(events)
		return m, m.schedule()
	}
	return m, nil
}

func (m Model) updateWaiting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.phase = phaseTracking
		return m, m.query()
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateTracking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		events := m.poller.Tracker().Stop(m.poller.Now())
		m.marks = reporter.Marks(events)
		m.phase = phaseStopped
	}
	return m, nil
}

func (m Model) query() tea.Cmd {
	ctx, p := m.ctx, m.poller
	return func() tea.Msg {
		snap := p.Query(ctx)
		return snapshotMsg{snap: snap, at: p.Now()}
	}
}

func (m Model) schedule() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	switch m.phase {
	case phaseWaiting:
		b.WriteString(titleStyle.Render("Foreground Usage Tracker"))
		b.WriteString("\n")
		b.WriteString("Press ENTER to start tracking. When tracking, press 'q' to stop.\n")
		b.WriteString(dimStyle.Render("Note: This records when the foreground window or its title changes."))
		b.WriteString("\n\nPress ENTER to start... ")

	case phaseTracking:
		t := m.poller.Tracker()
		b.WriteString(m.reporter.FormatTable(reporter.Header, t.Intervals(), m.marks))
		b.WriteString("\n")
		var current *models.Interval
		if iv, ok := t.Current(); ok {
			current = &iv
		}
		b.WriteString(m.reporter.FormatFooter(current, t.Evicted(), m.poller.Now()))
		b.WriteString("\n")

	case phaseStopped:
		b.WriteString(m.reporter.FormatTable(reporter.StoppedHeader, m.poller.Tracker().Intervals(), m.marks))
		b.WriteString("\n")
		b.WriteString(stoppedStyle.Render("Stopped tracking. Press any key to exit..."))
		b.WriteString("\n")
	}
	return b.String()
}

// Started reports whether tracking ever began.
func (m Model) Started() bool {
	return m.phase != phaseWaiting
}

// Stopped reports whether the user ended tracking.
func (m Model) Stopped() bool {
	return m.phase == phaseStopped
}
