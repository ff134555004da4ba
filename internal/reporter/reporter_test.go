package reporter

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/actionsum/usagetrack/internal/models"
)

var base = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func plainLines(s string) []string {
	return strings.Split(strings.TrimRight(ansi.Strip(s), "\n"), "\n")
}

func cols(id, app, title, start, end string) string {
	return strings.TrimRight(fmt.Sprintf("%-4s %-20s %-45s %-19s %-19s", id, app, title, start, end), " ")
}

func TestFormatTable(t *testing.T) {
	r := New(time.UTC)
	intervals := []models.Interval{
		{ID: 7, AppName: "code", WindowTitle: "main.go", StartTime: base, EndTime: ptr(base.Add(90 * time.Second))},
		{ID: 8, AppName: "a-very-long-application-name", WindowTitle: strings.Repeat("x", 50), StartTime: base.Add(90 * time.Second)},
	}

	lines := plainLines(r.FormatTable(Header, intervals, map[int]models.EventKind{7: models.EventClosed, 8: models.EventOpened}))

	want := []string{
		Header,
		"",
		"  " + cols("ID", "App Name", "Window Title", "Start Time", "End Time"),
		"  ---- -------------------- --------------------------------------------- ------------------- -------------------",
		"- " + cols("7", "code", "main.go", "2024-03-09 14:05:07", "2024-03-09 14:06:37"),
		"+ " + cols("8", "a-very-long-appli...", strings.Repeat("x", 41)+"...", "2024-03-09 14:06:37", "-"),
	}

	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %q\nwant %q", i, lines[i], want[i])
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	lines := plainLines(New(time.UTC).FormatTable(Header, nil, nil))
	if len(lines) != 4 {
		t.Errorf("got %d lines, want header only (4)", len(lines))
	}
}

func TestFormatTableStoppedHeader(t *testing.T) {
	lines := plainLines(New(time.UTC).FormatTable(StoppedHeader, nil, nil))
	if lines[0] != StoppedHeader {
		t.Errorf("header = %q, want %q", lines[0], StoppedHeader)
	}
	if strings.Contains(lines[0], "press 'q'") {
		t.Errorf("stopped header still asks for 'q': %q", lines[0])
	}
}

func TestFormatTableDoesNotMutate(t *testing.T) {
	end := base.Add(time.Minute)
	intervals := []models.Interval{{ID: 1, AppName: strings.Repeat("a", 30), WindowTitle: "t", StartTime: base, EndTime: &end}}
	before := intervals[0]

	New(time.UTC).FormatTable(Header, intervals, nil)

	if intervals[0].AppName != before.AppName || !intervals[0].EndTime.Equal(*before.EndTime) {
		t.Errorf("FormatTable() changed input: %+v", intervals[0])
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(nil, time.UTC); got != NoTime {
		t.Errorf("FormatTime(nil) = %q, want %q", got, NoTime)
	}

	loc := time.FixedZone("UTC+2", 2*3600)
	if got := FormatTime(ptr(base), loc); got != "2024-03-09 16:05:07" {
		t.Errorf("FormatTime() = %q, want 2024-03-09 16:05:07", got)
	}
}

func TestMarks(t *testing.T) {
	events := []models.Event{
		{Kind: models.EventClosed, Interval: models.Interval{ID: 1}},
		{Kind: models.EventEvicted, Interval: models.Interval{ID: 0}},
		{Kind: models.EventOpened, Interval: models.Interval{ID: 2}},
	}

	marks := Marks(events)
	if len(marks) != 2 || marks[1] != models.EventClosed || marks[2] != models.EventOpened {
		t.Errorf("Marks() = %v", marks)
	}
}

func TestFormatEvent(t *testing.T) {
	r := New(time.UTC)

	opened := r.FormatEvent(models.Event{Kind: models.EventOpened, Interval: models.Interval{
		ID: 3, ProcessID: 42, AppName: "firefox", WindowTitle: "Docs", StartTime: base,
	}})
	if want := "opened #3 firefox [Docs] pid=42 start=2024-03-09 14:05:07"; opened != want {
		t.Errorf("FormatEvent() = %q, want %q", opened, want)
	}

	closed := r.FormatEvent(models.Event{Kind: models.EventClosed, Interval: models.Interval{
		ID: 3, ProcessID: 42, AppName: "firefox", WindowTitle: "Docs", StartTime: base, EndTime: ptr(base.Add(75 * time.Second)),
	}})
	if !strings.HasSuffix(closed, "end=2024-03-09 14:06:22 (1m15s)") {
		t.Errorf("FormatEvent() = %q", closed)
	}
}

func TestFormatFooter(t *testing.T) {
	r := New(time.UTC)
	cur := &models.Interval{ID: 1, AppName: "vim", StartTime: base}

	got := ansi.Strip(r.FormatFooter(cur, 3, base.Add(2*time.Minute)))
	if want := "Current: vim (2m) | 3 older entries dropped"; got != want {
		t.Errorf("FormatFooter() = %q, want %q", got, want)
	}

	got = ansi.Strip(r.FormatFooter(nil, 0, base))
	if got != "Current: none" {
		t.Errorf("FormatFooter(nil) = %q, want %q", got, "Current: none")
	}
}

func ExampleFormatTime() {
	t := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	fmt.Println(FormatTime(&t, time.UTC))
	fmt.Println(FormatTime(nil, time.UTC))
	// Output:
	// 2024-01-02 03:04:05
	// -
}
