package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/pdiddy/bwsample/pkg/types"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorMode
		wantErr bool
	}{
		{"auto", ColorAuto, false},
		{"", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"rainbow", ColorAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if !ResolveColors(ColorAlways) {
		t.Error("ColorAlways should win over NO_COLOR")
	}
	if ResolveColors(ColorAuto) {
		t.Error("ColorAuto with NO_COLOR set should return false")
	}
	if ResolveColors(ColorNever) {
		t.Error("ColorNever should return false")
	}
}

func TestResolveColorsTermDumb(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	t.Setenv("TERM", "dumb")
	if ResolveColors(ColorAuto) {
		t.Error("ColorAuto with TERM=dumb should return false")
	}
}

func TestPrinterQuiet(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p := NewPrinter(PrinterOptions{ColorMode: ColorNever, Quiet: true, Out: &stdout, Err: &stderr})

	p.Info("hidden")
	p.Success("hidden")
	p.Warning("hidden")
	p.Header("hidden")
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("quiet printer wrote %q / %q", stdout.String(), stderr.String())
	}

	p.Error("shown")
	if !strings.Contains(stderr.String(), "[ERROR] shown") {
		t.Errorf("Error output = %q", stderr.String())
	}
}

func TestPrinterPlain(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p := NewPrinter(PrinterOptions{ColorMode: ColorNever, Out: &stdout, Err: &stderr})

	p.Success("ranked %d items", 4)
	p.Warning("btl did not converge")
	p.Header("Ranking")

	if got := stderr.String(); !strings.Contains(got, "[OK] ranked 4 items") || !strings.Contains(got, "[WARN] btl did not converge") {
		t.Errorf("stderr = %q", got)
	}
	if got := stdout.String(); got != "\nRanking\n-------\n" {
		t.Errorf("stdout = %q", got)
	}
	if p.Out() != &stdout {
		t.Error("Out should return the configured writer")
	}
}

func TestRenderRanking(t *testing.T) {
	var buf bytes.Buffer
	r := types.Ranking{
		{Position: 1, ID: "alpha", Metric: 0.75, Score: 1},
		{Position: 2, ID: "beta", Metric: 0.25, Score: 0},
	}
	if err := RenderRanking(&buf, r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"alpha", "beta", "0.7500", "1.0000", "RANK"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "alpha") > strings.Index(out, "beta") {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func TestRenderPairs(t *testing.T) {
	var buf bytes.Buffer
	p := types.PairCounts{{Winner: "x", Loser: "y"}: 3, {Winner: "a", Loser: "b"}: 1}
	if err := RenderPairs(&buf, p); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "WINNER") || !strings.Contains(out, "3") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Index(out, "a ") > strings.Index(out, "x ") {
		t.Errorf("pairs not sorted:\n%s", out)
	}
}
