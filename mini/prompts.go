package mini

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/calcoloergosum/vocagen/color"
	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/samber/lo"
)

// bind is a fixed menu entry shown below the choices.
type bind struct {
	name string
}

func (b *bind) String() string {
	return b.name
}

var (
	back = &bind{name: "back"}
	quit = &bind{name: "quit"}
)

// errInterrupted means the user pressed ctrl+c inside a prompt.
var errInterrupted = errors.New("interrupted")

func title(s string) {
	fmt.Println(style.Fg(color.Purple)(style.Bold(s)))
}

func fail(s string) {
	fmt.Println(icon.Get(icon.Fail) + " " + style.Fg(color.Red)(s))
}

// menu asks to pick one of options or one of the binds. Exactly one of the results is set.
func menu[T fmt.Stringer](options []T, binds ...*bind) (*bind, T, error) {
	var zero T

	labels := lo.Map(options, func(o T, i int) string {
		return fmt.Sprintf("%d. %s", i+1, o.String())
	})
	for _, b := range binds {
		labels = append(labels, style.Faint(b.name))
	}

	var picked int
	prompt := &survey.Select{
		Message:  "Pick one",
		Options:  labels,
		PageSize: 10,
	}

	if err := survey.AskOne(prompt, &picked); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, zero, errInterrupted
		}
		return nil, zero, err
	}

	if picked >= len(options) {
		return binds[picked-len(options)], zero, nil
	}

	return nil, options[picked], nil
}

// confirm asks a yes/no question.
func confirm(message string, dflt bool) (bool, error) {
	answer := dflt
	err := survey.AskOne(&survey.Confirm{Message: message, Default: dflt}, &answer)
	if errors.Is(err, terminal.InterruptErr) {
		return false, errInterrupted
	}
	return answer, err
}

func helpText() string {
	rows := [][2]string{
		{"enter", "pause/resume, retry"},
		{"n", "next"},
		{"p", "previous"},
		{"r", "replay"},
		{"o", "open image"},
		{"x", "report"},
		{"q", "quit"},
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", style.Fg(color.Orange)(row[0]), style.Faint(row[1])))
	}
	return strings.TrimRight(b.String(), "\n")
}
