package version

import (
	"fmt"

	"github.com/calcoloergosum/vocagen/color"
	"github.com/calcoloergosum/vocagen/constant"
	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/calcoloergosum/vocagen/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Notify prints an upgrade hint when a newer release exists. It is silent unless cli.version_check is set.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Looking for a newer %s...", icon.Get(icon.Progress), constant.Vocagen))
	latest, err := Latest()
	erase()

	if err != nil {
		log.Debugf("version check: %s", err)
		return
	}

	if hint, ok := upgradeHint(latest, constant.Version).Get(); ok {
		fmt.Println(hint)
	}
}

// upgradeHint is the box shown when latest is newer than current.
func upgradeHint(latest, current string) mo.Option[string] {
	if c, err := Compare(latest, current); err != nil || c <= 0 {
		return mo.None[string]()
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.AccentColor).
		Padding(0, 1).
		Margin(1, 0)

	return mo.Some(box.Render(lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s is out %s",
			style.Fg(color.Green)(constant.Vocagen),
			style.Bold(latest),
			style.Faint(fmt.Sprintf("(this is %s)", current)),
		),
		style.Faint(ReleaseURL(latest)),
	)))
}

// ReleaseURL links the release page of version.
func ReleaseURL(version string) string {
	return "https://github.com/" + constant.Repository + "/releases/tag/v" + version
}
