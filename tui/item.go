package tui

import (
	"fmt"
	"time"

	"github.com/calcoloergosum/vocagen/history"
	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/stream"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/calcoloergosum/vocagen/util"
	"github.com/charmbracelet/lipgloss"
)

// listItem implements list.Item for pairs, saved streams and report reasons.
type listItem struct {
	internal interface{}
}

func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case item.Pair:
		return e.Describe()
	case *history.Record:
		return e.String()
	case stream.Reason:
		return icon.Get(icon.Report) + " " + e.Describe()
	default:
		return t.FilterValue()
	}
}

func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case item.Pair:
		return style.Faint(e.String())
	case *history.Record:
		finished := lipgloss.NewStyle().Foreground(style.Green).Render(util.Quantify(e.Finished, "item", "items"))
		return fmt.Sprintf("%s %s • %s", icon.Get(icon.Mark), finished, style.Faint(e.LastAt.Format(time.DateTime)))
	default:
		return ""
	}
}

// FilterValue matches pairs by both codes and language names.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case item.Pair:
		return e.String() + " " + e.Describe()
	case *history.Record:
		return e.Pair.String() + " " + e.Pair.Describe()
	case stream.Reason:
		return string(e)
	default:
		return ""
	}
}
