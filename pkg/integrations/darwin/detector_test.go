package darwin

import (
	"context"
	"errors"
	"testing"

	"github.com/actionsum/usagetrack/pkg/window"
)

func TestParseFrontmost(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    window.WindowInfo
		wantErr bool
	}{
		{
			name: "full",
			out:  "Safari\t512\tApple\n",
			want: window.WindowInfo{PID: 512, AppName: "Safari", ProcessName: "Safari", WindowTitle: "Apple"},
		},
		{
			name: "no front window",
			out:  "Finder\t301\t\n",
			want: window.WindowInfo{PID: 301, AppName: "Finder", ProcessName: "Finder"},
		},
		{
			name: "tab in title",
			out:  "Terminal\t77\tzsh\t80x24\n",
			want: window.WindowInfo{PID: 77, AppName: "Terminal", ProcessName: "Terminal", WindowTitle: "zsh\t80x24"},
		},
		{name: "bad pid", out: "Finder\tabc\tx", wantErr: true},
		{name: "empty", out: "\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFrontmost(tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFrontmost() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && *got != tt.want {
				t.Errorf("parseFrontmost() = %+v, want %+v", *got, tt.want)
			}
		})
	}

	if _, err := parseFrontmost(""); !errors.Is(err, window.ErrNoFocusedWindow) {
		t.Errorf("parseFrontmost(\"\") error = %v, want ErrNoFocusedWindow", err)
	}
}

func TestGetFocusedWindow(t *testing.T) {
	var gotName string
	d := &Detector{
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotName = name
			return []byte("Xcode\t900\tProject.swift\n"), nil
		},
		lookPath: func(string) bool { return true },
	}

	info, err := d.GetFocusedWindow(context.Background())
	if err != nil {
		t.Fatalf("GetFocusedWindow() error = %v", err)
	}
	if gotName != "osascript" {
		t.Errorf("ran %q, want osascript", gotName)
	}
	if info.DisplayServer != "darwin" || info.PID != 900 {
		t.Errorf("GetFocusedWindow() = %+v", info)
	}
	if !d.IsAvailable() {
		t.Error("IsAvailable() = false")
	}
}

func TestGetFocusedWindowError(t *testing.T) {
	d := &Detector{
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, errors.New("not authorized")
		},
	}
	if _, err := d.GetFocusedWindow(context.Background()); err == nil {
		t.Error("GetFocusedWindow() error = nil")
	}
}
