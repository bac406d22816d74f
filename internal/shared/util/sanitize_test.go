package util

import (
	"strings"
	"testing"
)

func TestLogFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "lease.pdf", want: "lease.pdf"},
		{in: "  lease.pdf ", want: "lease.pdf"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `C:\Users\me\lease.txt`, want: "lease.txt"},
		{in: "bad\nname.txt", want: "badname.txt"},
		{in: "/", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := LogFileName(tt.in); got != tt.want {
			t.Fatalf("LogFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("a", 600)
	msg := Snippet("line one\r\n"+long, 500)

	if strings.ContainsAny(msg, "\r\n") {
		t.Fatalf("expected newlines to be stripped, got %q", msg)
	}
	if len(msg) != 503 {
		t.Fatalf("expected length 503, got %d", len(msg))
	}
	if got := Snippet("short", 500); got != "short" {
		t.Fatalf("unexpected snippet %q", got)
	}
	if got := Snippet("ééé", 3); got != "é..." {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
}
