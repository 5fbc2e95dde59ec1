package main

import (
	"strings"
	"testing"
)

func TestParseModID(t *testing.T) {
	if id, err := parseModID("18446744073709551615"); err != nil || id != 1<<64-1 {
		t.Errorf("parseModID(max) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "-1", "abc", "1.5"} {
		if _, err := parseModID(bad); err == nil {
			t.Errorf("parseModID(%q) expected error", bad)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "1000", want: 1000},
		{in: "2024-01-15T10:30:00Z", want: 1705314600},
		{in: "1969-12-31T23:59:59Z", wantErr: true},
		{in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseDate(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadToken_FromPipe(t *testing.T) {
	got, err := readToken(strings.NewReader("  abc123 \nignored\n"))
	if err != nil {
		t.Fatalf("readToken() error = %v", err)
	}
	if got != "abc123" {
		t.Errorf("readToken() = %q, want %q", got, "abc123")
	}

	got, err = readToken(strings.NewReader("no-newline"))
	if err != nil {
		t.Fatalf("readToken() error = %v", err)
	}
	if got != "no-newline" {
		t.Errorf("readToken() = %q, want %q", got, "no-newline")
	}
}

func TestDisplayFolder(t *testing.T) {
	if got := displayFolder("ModA"); got != "ModA" {
		t.Errorf("displayFolder(ModA) = %q", got)
	}
	if got := displayFolder("\xffraw"); got != `"\xffraw"` {
		t.Errorf("displayFolder(invalid) = %q", got)
	}
}
