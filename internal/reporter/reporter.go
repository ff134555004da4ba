package reporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/actionsum/usagetrack/internal/models"
	"github.com/actionsum/usagetrack/pkg/utils"
)

const (
	Header        = "Tracking usage - press 'q' to stop"
	StoppedHeader = "Tracking stopped"
	TimeLayout    = "2006-01-02 15:04:05"
	NoTime        = "-"
)

// Column widths in terminal cells.
const (
	idWidth    = 4
	appWidth   = 20
	titleWidth = 45
	timeWidth  = 19

	// Titles are cut one cell short of their column.
	titleLimit = 44
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	openedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	closedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Reporter renders interval sequences as fixed-width text. It never
// modifies the intervals it is given.
type Reporter struct {
	loc *time.Location
}

// New creates a reporter that prints times in loc. A nil loc means local time.
func New(loc *time.Location) *Reporter {
	if loc == nil {
		loc = time.Local
	}
	return &Reporter{loc: loc}
}

// Marks maps interval ids to the last change each saw in events. Eviction is
// not shown since evicted rows are gone from the table.
func Marks(events []models.Event) map[int]models.EventKind {
	marks := make(map[int]models.EventKind, len(events))
	for _, e := range events {
		if e.Kind == models.EventEvicted {
			continue
		}
		marks[e.Interval.ID] = e.Kind
	}
	return marks
}

// FormatTable renders header, the column titles and one row per interval.
// Rows present in marks get a change indicator: "+" for opened, "-" for
// closed. Live views pass Header; views after stopping pass StoppedHeader.
func (r *Reporter) FormatTable(header string, intervals []models.Interval, marks map[int]models.EventKind) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(r.row("ID", "App Name", "Window Title", "Start Time", "End Time"))
	b.WriteString("\n  ")
	b.WriteString(strings.Join([]string{
		strings.Repeat("-", idWidth),
		strings.Repeat("-", appWidth),
		strings.Repeat("-", titleWidth),
		strings.Repeat("-", timeWidth),
		strings.Repeat("-", timeWidth),
	}, " "))
	b.WriteString("\n")

	for _, iv := range intervals {
		b.WriteString(mark(marks[iv.ID]))
		b.WriteString(" ")
		b.WriteString(r.row(
			fmt.Sprintf("%d", iv.ID),
			utils.Truncate(iv.AppName, appWidth),
			utils.Truncate(iv.WindowTitle, titleLimit),
			FormatTime(&iv.StartTime, r.loc),
			FormatTime(iv.EndTime, r.loc),
		))
		b.WriteString("\n")
	}

	return b.String()
}

func (r *Reporter) row(id, app, title, start, end string) string {
	return strings.TrimRight(strings.Join([]string{
		utils.PadRight(id, idWidth),
		utils.PadRight(app, appWidth),
		utils.PadRight(title, titleWidth),
		utils.PadRight(start, timeWidth),
		utils.PadRight(end, timeWidth),
	}, " "), " ")
}

func mark(kind models.EventKind) string {
	switch kind {
	case models.EventOpened:
		return openedStyle.Render("+")
	case models.EventClosed:
		return closedStyle.Render("-")
	default:
		return " "
	}
}

// FormatEvent renders one event as a log line.
func (r *Reporter) FormatEvent(e models.Event) string {
	iv := e.Interval
	line := fmt.Sprintf("%s #%d %s [%s] pid=%d start=%s",
		e.Kind, iv.ID, iv.AppName, iv.WindowTitle, iv.ProcessID, FormatTime(&iv.StartTime, r.loc))
	if iv.EndTime != nil {
		line += fmt.Sprintf(" end=%s (%s)", FormatTime(iv.EndTime, r.loc), iv.EndTime.Sub(iv.StartTime).Round(time.Second))
	}
	return line
}

// FormatFooter summarizes the open interval and eviction count.
func (r *Reporter) FormatFooter(current *models.Interval, evicted int, now time.Time) string {
	var parts []string
	if current != nil {
		secs := int64(current.Duration(now) / time.Second)
		parts = append(parts, fmt.Sprintf("Current: %s (%s)", current.AppName, utils.FormatRoundedUnit(secs)))
	} else {
		parts = append(parts, "Current: none")
	}
	if evicted > 0 {
		parts = append(parts, fmt.Sprintf("%d older entries dropped", evicted))
	}
	return dimStyle.Render(strings.Join(parts, " | "))
}

// FormatTime formats t in loc, or returns NoTime when t is nil.
func FormatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return NoTime
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimeLayout)
}
