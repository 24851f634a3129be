package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"pinsnap/pkg/models"
)

// Progress shows a spinner while the feed loads and prints the run
// summary when it is done.
type Progress struct {
	spin  *spinner.Spinner
	quiet bool
}

// NewProgress creates a progress display. In quiet mode it prints
// nothing at all.
func NewProgress(quiet bool) *Progress {
	return &Progress{
		spin:  spinner.New(spinner.CharSets[9], 100*time.Millisecond),
		quiet: quiet,
	}
}

// Start spins while a capture run is in flight.
func (p *Progress) Start(query string) {
	if p.quiet {
		return
	}
	p.spin.Suffix = fmt.Sprintf(" capturing %q", query)
	p.spin.Start()
}

// Stop halts the spinner.
func (p *Progress) Stop() {
	if p.quiet {
		return
	}
	p.spin.Stop()
}

// Summary prints the final report for one run.
func (p *Progress) Summary(result *models.RunResult) {
	if p.quiet {
		return
	}
	p.spin.Stop()

	sep := strings.Repeat("─", terminalWidth())
	fmt.Println(Dim(sep))

	switch result.State {
	case models.StateCompleted:
		PrintSuccess(fmt.Sprintf("Completed: captured %d images for %q", result.Successes(), result.Query))
	case models.StateExhausted:
		PrintWarning(fmt.Sprintf("Exhausted: feed ran dry after %d images for %q", result.Successes(), result.Query))
	case models.StateAborted:
		PrintError(fmt.Sprintf("Aborted: %s", result.Reason))
	}

	PrintInfo("Rounds", fmt.Sprintf("%d", result.Rounds))
	PrintInfo("Captured", fmt.Sprintf("%d", result.Successes()))
	if failures := result.Failures(); failures > 0 {
		PrintInfo("Failed", fmt.Sprintf("%d", failures))
	}
	PrintInfo("Duration", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond).String())
	fmt.Println(Dim(sep))
}

// terminalWidth returns the current terminal width, capped so the
// separator stays readable on very wide terminals.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 60
	}
	if width > 80 {
		return 80
	}
	return width
}
