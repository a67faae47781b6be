package runner

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	bannerRule    = "==============================="
	separatorRule = "-------------------------------"
)

// ProgressPrinter writes the human-readable progress of a round.
// Its output is informational only; nothing parses it.
type ProgressPrinter struct {
	w io.Writer
}

// NewProgressPrinter creates a printer writing to w. A nil writer discards output.
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	if w == nil {
		w = io.Discard
	}
	return &ProgressPrinter{w: w}
}

func (p *ProgressPrinter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

func (p *ProgressPrinter) Banner() {
	p.printf("🏁 BEGINNING BATTLE ROYALE 🏁\n%s\n", bannerRule)
}

func (p *ProgressPrinter) Starting(name string) {
	p.printf("--- ⚔️  Starting Round: %s ---\n", name)
}

func (p *ProgressPrinter) DirectoryMissing(dir string) {
	p.printf("⚠️  Error: Directory %s not found. Skipping.\n", dir)
}

func (p *ProgressPrinter) Finished(elapsed time.Duration) {
	p.printf("✅ Finished in %.6f seconds.\n", elapsed.Seconds())
}

// Output echoes a successful contestant's stdout
func (p *ProgressPrinter) Output(stdout string) {
	p.printf("Output: %s\n", strings.TrimSpace(stdout))
}

func (p *ProgressPrinter) Failed(diagnostic string) {
	p.printf("❌ FAILED: %s\n", diagnostic)
}

func (p *ProgressPrinter) MissingToolchain(executable string) {
	p.printf("❌ FAILED: Command %q not found. Is the toolchain installed?\n", executable)
}

func (p *ProgressPrinter) Separator() {
	p.printf("%s\n", separatorRule)
}

// Interrupted announces that the remaining contestants will not run
func (p *ProgressPrinter) Interrupted() {
	p.printf("⛔ Interrupted. Remaining contestants were not run.\n")
}

// Complete announces where the round's findings were written
func (p *ProgressPrinter) Complete(path string) {
	p.printf("\n🏆 Tournament Complete. Findings saved to %s\n", path)
}
