// Package display renders fetched messages and their summaries to the
// terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jfields/gmail-summarizer/gmail"
	"github.com/jfields/gmail-summarizer/summarizer"
)

var (
	BannerStyle    = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	CounterStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	HeaderKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	DividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "238"})
	SummaryStyle   = lipgloss.NewStyle().MarginTop(1)
	NoticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"})
)

const dividerWidth = 50

// Renderer writes styled output to a single destination.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Banner prints the application header once at startup.
func (r *Renderer) Banner(title string) {
	fmt.Fprintln(r.out, BannerStyle.Render(title))
}

// Notice prints a secondary status line, e.g. "No emails found."
func (r *Renderer) Notice(text string) {
	fmt.Fprintln(r.out, NoticeStyle.Render(text))
}

// Summaries prints each message alongside its summary, in order.
func (r *Renderer) Summaries(messages []gmail.Message, summaries []summarizer.Summary) {
	divider := DividerStyle.Render(strings.Repeat("─", dividerWidth))
	for i, sum := range summaries {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, CounterStyle.Render(fmt.Sprintf("[Email %d/%d]", i+1, len(summaries))))
		if i < len(messages) {
			msg := messages[i]
			r.header("From", msg.From)
			r.header("Subject", truncate(msg.Subject, 80))
			r.header("Date", msg.Date)
		}
		fmt.Fprintln(r.out, divider)
		fmt.Fprintln(r.out, SummaryStyle.Render(sum.Summary))
	}
}

func (r *Renderer) header(key, value string) {
	if value == "" {
		value = "(unknown)"
	}
	fmt.Fprintf(r.out, "%s %s\n", HeaderKeyStyle.Render(key+":"), value)
}

// truncate shortens a string to a max length, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
