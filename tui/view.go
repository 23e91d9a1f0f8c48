package tui

import (
	"fmt"
	"strings"

	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/payment"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/summary"
	"github.com/keypoint-cli/keypoint/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/spf13/viper"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	overlayStyle          = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(style.Accent).
				Padding(1, 3)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case libraryState:
		output = b.viewLibrary()
	case summaryState:
		output = b.viewSummary()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLibrary() string {
	return listExtraPaddingStyle.Render(b.libraryC.View())
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		false,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " Opening summary",
		},
	)
}

func (b *statefulBubble) viewSummary() string {
	s := b.summary
	if s == nil {
		return b.viewLoading()
	}

	if p, ok := s.Payment.Get(); ok {
		return b.viewPayment(p)
	}

	lines := []string{
		style.Title(s.Book.Name()),
	}
	if s.Book.Author != "" {
		lines = append(lines, style.Faint(s.Book.Author))
	}
	lines = append(lines, "", style.Bold(fmt.Sprintf("KEY POINT %d OF %d", s.Index+1, s.Book.Len())), "")

	if s.AudioMode {
		if viper.GetBool(key.TUIShowText) {
			lines = append(lines, wrap.String(s.KeyPoint().Text, b.width), "")
		}
		lines = append(lines, b.viewControls(s)...)
	} else {
		lines = append(lines, b.viewText(s)...)
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewControls(s *summary.Model) []string {
	c := s.Controls

	elapsed := util.FormatDuration(c.CurrentTime)
	total := util.FormatDuration(c.Duration)
	gap := max(b.width-lipgloss.Width(elapsed)-lipgloss.Width(total), 1)

	transport := icon.Get(icon.Play)
	if c.IsPlaying {
		transport = icon.Get(icon.Pause)
	}

	return []string{
		b.progressC.ViewAs(c.Progress()),
		style.Faint(elapsed + strings.Repeat(" ", gap) + total),
		"",
		fmt.Sprintf(
			"%s  %s  %s    %s",
			icon.Get(icon.Prev),
			style.Fg(style.Accent)(transport),
			icon.Get(icon.Next),
			style.Fg(color.Amber)(fmt.Sprintf("%s Speed x%s", icon.Get(icon.Speed), c.Rate)),
		),
	}
}

// viewText is the reading mode: every key point, the current one highlighted.
func (b *statefulBubble) viewText(s *summary.Model) []string {
	var lines []string
	for i, kp := range s.Book.KeyPoints {
		text := wrap.String(kp.Text, b.width-2)
		if i == s.Index {
			text = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder(), false, false, false, true).
				BorderForeground(style.Accent).
				PaddingLeft(1).
				Render(text)
		} else {
			text = lipgloss.NewStyle().PaddingLeft(2).Foreground(style.Muted).Render(text)
		}
		lines = append(lines, text, "")
	}
	return lines
}

func (b *statefulBubble) viewPayment(p *payment.Model) string {
	lines := []string{
		style.Bold(icon.Get(icon.Lock) + " " + payment.Headline),
		"",
		wrap.String(payment.Tagline, max(b.width/2, 20)),
		"",
	}

	switch {
	case p.Loading:
		lines = append(lines, b.spinnerC.View()+" Loading")
	case p.Purchasing:
		lines = append(lines, b.spinnerC.View()+" "+p.ButtonLabel())
	default:
		lines = append(lines, style.Tag(color.Ink, style.Accent)(p.ButtonLabel()))
	}

	if notice, ok := p.Notice.Get(); ok {
		lines = append(lines, "", style.Fg(style.Warning)(notice))
	}

	if alert, ok := p.Alert.Get(); ok {
		lines = append(lines,
			"",
			style.ErrorTitle(alert.Title),
			wrap.String(alert.Message, max(b.width/2, 20)),
		)
	}

	box := overlayStyle.Render(strings.Join(lines, "\n"))
	placed := lipgloss.Place(b.width, max(b.height-1, lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
	return paddingStyle.Render(placed + "\n" + b.helpC.View(b.keymap))
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.Danger).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	h := lipgloss.Height(l)
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
