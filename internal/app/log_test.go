package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBmmHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		session string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			session: "s-123",
			level:   slog.LevelInfo,
			message: "mod recorded",
			want:    "2024-06-15T14:30:45Z\tINFO\ts-123\tmod recorded\n",
		},
		{
			name:    "debug level",
			session: "s-456",
			level:   slog.LevelDebug,
			message: "getting app data path",
			want:    "2024-06-15T14:30:45Z\tDEBUG\ts-456\tgetting app data path\n",
		},
		{
			name:    "with record attrs",
			session: "s-789",
			level:   slog.LevelWarn,
			message: "app data is corrupted, resetting",
			attrs:   []slog.Attr{slog.String("path", "/home/u/var/lib/bonelab_mod_manager/app_data"), slog.Int("bytes", 42)},
			want:    "2024-06-15T14:30:45Z\tWARN\ts-789\tapp data is corrupted, resetting\tpath=/home/u/var/lib/bonelab_mod_manager/app_data\tbytes=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newHandler(&buf, slog.LevelDebug, tt.session)

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestBmmHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf, slog.LevelInfo, "s-1")

	h2 := h.WithAttrs([]slog.Attr{slog.String("op", "RecordMod")}).(*bmmHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "mod recorded", 0)
	r.AddAttrs(slog.Int("id", 42))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "op=RecordMod") {
		t.Errorf("expected pre-set attr op=RecordMod, got: %q", got)
	}
	if !strings.Contains(got, "id=42") {
		t.Errorf("expected record attr id=42, got: %q", got)
	}
	if len(h.attrs) != 0 {
		t.Errorf("original handler attrs modified: got %d, want 0", len(h.attrs))
	}
}

func TestBmmHandler_Enabled(t *testing.T) {
	h := newHandler(&bytes.Buffer{}, slog.LevelWarn, "s-1")

	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")
	var console bytes.Buffer

	logger, f, err := newLogger(dir, slog.LevelInfo, "s-1", &console)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	logger.Debug("hidden")
	logger.Info("to file only")
	logger.Warn("to both")

	data, err := os.ReadFile(filepath.Join(dir, "bmm.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	file := string(data)
	if strings.Contains(file, "hidden") {
		t.Error("debug record written below configured level")
	}
	if !strings.Contains(file, "to file only") || !strings.Contains(file, "to both") {
		t.Errorf("log file = %q", file)
	}
	if strings.Contains(console.String(), "to file only") {
		t.Error("info record reached the console")
	}
	if !strings.Contains(console.String(), "to both") {
		t.Errorf("console = %q, want warning", console.String())
	}
}
