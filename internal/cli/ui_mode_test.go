package cli

import (
	"io"
	"os"
	"testing"
)

// TestResolveUIMode verifies the live UI decision logic.
func TestResolveUIMode(t *testing.T) {
	cases := []struct {
		name       string
		mode       string
		verbose    bool
		isTTY      bool
		expectLive bool
		wantWarn   bool
		wantErr    bool
	}{
		{name: "auto tty", mode: "auto", isTTY: true, expectLive: true},
		{name: "auto non-tty", mode: "auto", isTTY: false, expectLive: false},
		{name: "empty means auto", mode: "", isTTY: true, expectLive: true},
		{name: "plain", mode: "plain", isTTY: true, expectLive: false},
		{name: "verbose disables live", mode: "auto", verbose: true, isTTY: true, expectLive: false},
		{name: "live tty", mode: "live", isTTY: true, expectLive: true},
		{name: "live non-tty warns", mode: "live", isTTY: false, expectLive: false, wantWarn: true},
		{name: "invalid mode", mode: "nope", isTTY: true, wantErr: true},
	}

	original := isTerminal
	t.Cleanup(func() { isTerminal = original })

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			isTerminal = func(_ io.Writer) bool { return tc.isTTY }
			decision, err := resolveUIMode(tc.mode, tc.verbose, nil)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decision.useLive != tc.expectLive {
				t.Fatalf("expected useLive=%v, got %v", tc.expectLive, decision.useLive)
			}
			if tc.wantWarn && decision.warning == "" {
				t.Fatalf("expected warning")
			}
			if !tc.wantWarn && decision.warning != "" {
				t.Fatalf("did not expect warning")
			}
		})
	}
}

// TestColorDisabledByEnv verifies the no-color environment hints.
func TestColorDisabledByEnv(t *testing.T) {
	// NO_COLOR counts as set even when empty, so the baseline must
	// remove it entirely. Setenv first registers the restore.
	colorfulEnv := func(t *testing.T) {
		t.Helper()
		t.Setenv("NO_COLOR", "placeholder")
		os.Unsetenv("NO_COLOR")
		t.Setenv("CLICOLOR", "1")
		t.Setenv("TERM", "xterm-256color")
	}

	t.Run("default keeps color", func(t *testing.T) {
		colorfulEnv(t)
		if colorDisabledByEnv() {
			t.Fatalf("expected color to stay enabled")
		}
	})
	t.Run("NO_COLOR disables", func(t *testing.T) {
		colorfulEnv(t)
		t.Setenv("NO_COLOR", "1")
		if !colorDisabledByEnv() {
			t.Fatalf("expected NO_COLOR to disable color")
		}
	})
	t.Run("CLICOLOR zero disables", func(t *testing.T) {
		colorfulEnv(t)
		t.Setenv("CLICOLOR", "0")
		if !colorDisabledByEnv() {
			t.Fatalf("expected CLICOLOR=0 to disable color")
		}
	})
	t.Run("dumb terminal disables", func(t *testing.T) {
		colorfulEnv(t)
		t.Setenv("TERM", "dumb")
		if !colorDisabledByEnv() {
			t.Fatalf("expected TERM=dumb to disable color")
		}
	})
}
