package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/seedee/tui/theme"
)

// PrettyLogger prints the human-facing progress of a seedee run: step
// banners, echoed commands and short key/value summaries. Structured
// records still go through logrus.
type PrettyLogger struct {
	writer io.Writer
	theme  *theme.Theme
}

// NewPrettyLogger creates a PrettyLogger writing to stderr with the active
// theme.
func NewPrettyLogger() *PrettyLogger {
	return &PrettyLogger{
		writer: os.Stderr,
		theme:  theme.DefaultTheme(),
	}
}

// WithWriter redirects the output.
func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.writer = w
	return p
}

func (p *PrettyLogger) line(icon string, style lipgloss.Style, text string) {
	fmt.Fprintf(p.writer, "%s %s\n", style.Render(icon), style.Render(text))
}

func (p *PrettyLogger) Success(message string) {
	p.line(theme.IconSuccess, p.theme.Success.Bold(true), message)
}

func (p *PrettyLogger) WarnPretty(message string) {
	p.line(theme.IconWarning, p.theme.Warning, message)
}

// ErrorPretty prints message followed by err, if any.
func (p *PrettyLogger) ErrorPretty(message string, err error) {
	if err != nil {
		message += ": " + err.Error()
	}
	p.line(theme.IconError, p.theme.Error.Bold(true), message)
}

// StepStarted prints "Step: <name> (started)".
func (p *PrettyLogger) StepStarted(name string) {
	p.line(theme.IconStep, p.theme.Header, "Step: "+name+" (started)")
}

// StepFinished prints "Step: <name> (finished) (<secs> s)".
func (p *PrettyLogger) StepFinished(name string, elapsed time.Duration) {
	fmt.Fprintf(p.writer, "%s %s %s\n",
		p.theme.Success.Render(theme.IconSuccess),
		p.theme.Header.Render("Step: "+name+" (finished)"),
		p.theme.Muted.Render(fmt.Sprintf("(%.1f s)", elapsed.Seconds())))
}

// Command echoes a shell command line.
func (p *PrettyLogger) Command(line string) {
	fmt.Fprintf(p.writer, "%s %s\n", p.theme.Muted.Render("$"), p.theme.Command.Render(line))
}

func (p *PrettyLogger) Field(key string, value interface{}) {
	fmt.Fprintf(p.writer, "%s: %s\n",
		p.theme.Muted.Render(key),
		p.theme.Info.Bold(true).Render(fmt.Sprint(value)))
}

// Path prints a labelled file path.
func (p *PrettyLogger) Path(label string, path string) {
	fmt.Fprintf(p.writer, "%s: %s\n",
		p.theme.Muted.Render(label),
		p.theme.Accent.Render(path))
}
