package tui

import (
	"fmt"
	"strings"

	"github.com/calcoloergosum/vocagen/feed"
	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/sequencer"
	"github.com/calcoloergosum/vocagen/stream"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/calcoloergosum/vocagen/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/spf13/viper"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)

	nativeStyle = lipgloss.NewStyle().Foreground(style.NativeColor)
	targetStyle = lipgloss.NewStyle().Foreground(style.TargetColor).Bold(true)
	wordStyle   = lipgloss.NewStyle().Foreground(style.Base).Background(style.WordColor).Padding(0, 1)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case pairsState:
		output = listExtraPaddingStyle.Render(b.pairsC.View())
	case historyState:
		output = listExtraPaddingStyle.Render(b.historyC.View())
	case trainerState:
		output = b.viewTrainer()
	case reportState:
		output = listExtraPaddingStyle.Render(b.reportC.View())
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewTrainer() string {
	if b.feed == nil {
		return b.renderLines(true, nil)
	}

	opts := b.feed.Options()
	lines := []string{
		style.Title(opts.Pair.Describe()) + " " + style.Faint(modeLabel(opts)),
		"",
		b.statusLine(),
		"",
	}

	current, ok := b.feed.Current().Get()
	if !ok {
		return b.renderLines(true, lines)
	}

	if word := b.feed.Word(); word != "" {
		position, size := b.feed.Position()
		lines = append(lines,
			icon.Get(icon.Word)+" "+wordStyle.Render(word)+" "+style.Faint(fmt.Sprintf("%d/%d", position+1, size)),
			"",
		)
	}

	width := b.wrapWidth()
	lines = append(lines,
		nativeStyle.Render(wordwrap.String(current.Sentence1, width)),
		"",
		targetStyle.Render(wordwrap.String(current.Sentence2, width)),
	)

	if viper.GetBool(key.TUIShowImageURL) {
		if image, ok := current.Image().Get(); ok {
			lines = append(lines, "", icon.Get(icon.Link)+" "+style.Faint(wrap.String(image, width)))
		}
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) statusLine() string {
	status := b.feed.Status()

	var symbol string
	switch status {
	case feed.Playing:
		symbol = icon.Get(icon.Play)
	case feed.Paused:
		symbol = icon.Get(icon.Pause)
	case feed.Stalled:
		symbol = icon.Get(icon.Stalled)
	default:
		symbol = b.spinnerC.View()
	}

	line := fmt.Sprintf("%s %s", symbol, util.Capitalize(status.String()))

	switch status {
	case feed.Stalled:
		return line + style.Faint(" - press space to retry")
	case feed.Fetching, feed.Idle:
		return line
	}

	progress := b.feed.Progress()
	if progress.Phase == sequencer.Native {
		return line + style.Faint(" • ") + icon.Get(icon.Native) + " native"
	}

	return line + style.Faint(" • ") + fmt.Sprintf(
		"%s target %d/%d • repeat %d/%d",
		icon.Get(icon.Target),
		progress.Target, progress.Targets,
		progress.Repeat, progress.Of,
	)
}

func (b *statefulBubble) wrapWidth() int {
	width := viper.GetInt(key.TUIWrap)
	if width <= 0 || (b.width > 0 && b.width < width) {
		width = b.width
	}
	return width
}

func modeLabel(opts feed.Options) string {
	if opts.Mode == stream.ModeWord {
		return string(opts.Mode)
	}
	return fmt.Sprintf("%s, %s order", opts.Mode, opts.Order)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
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
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
