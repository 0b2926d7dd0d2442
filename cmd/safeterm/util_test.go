package main

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestGetenv(t *testing.T) {
	t.Setenv("SAFETERM_TEST_VAR", "set")
	if got := getenv("SAFETERM_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("getenv = %q", got)
	}
	if got := getenv("SAFETERM_TEST_VAR_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getenv fallback = %q", got)
	}
}

func TestSafetermHome(t *testing.T) {
	t.Setenv("SAFETERM_HOME", "/custom/home")
	if got := safetermHome(); got != "/custom/home" {
		t.Errorf("safetermHome = %q", got)
	}

	t.Setenv("SAFETERM_HOME", "")
	t.Setenv("HOME", "/home/dev")
	if got := safetermHome(); got != filepath.Join("/home/dev", ".safeterm") {
		t.Errorf("safetermHome = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/dev")
	tests := []struct {
		in, want string
	}{
		{"~/notes", "/home/dev/notes"},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("short", 10); got != "short" {
		t.Errorf("truncateLine = %q", got)
	}
	if got := truncateLine("abcdefghij", 8); got != "abcde..." {
		t.Errorf("truncateLine = %q", got)
	}
	// The cut must land on a rune boundary.
	if got := truncateLine("ééééé", 8); got != "éé..." {
		t.Errorf("truncateLine split a rune: %q", got)
	}
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	if !pathExists(dir) {
		t.Error("existing dir reported missing")
	}
	if pathExists(filepath.Join(dir, "nope")) {
		t.Error("missing path reported present")
	}
}
