package cmd

import (
	"fmt"

	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/util"
	"github.com/calcoloergosum/vocagen/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"clip cache", "cache", mo.Some("c"), where.Cache},
	{"history", "history", mo.Some("s"), where.History},
	{"pair list", "pairs", mo.Some("p"), where.Pairs},
	{"session cookie", "session", mo.None[string](), where.Cookies},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		clearCmd.Flags().BoolP(target.argLong, target.argShort.OrEmpty(), false, "clear "+target.name)
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached and saved data",
	Run: func(cmd *cobra.Command, args []string) {
		targets := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		})

		if len(targets) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range targets {
			name := util.Capitalize(target.name)
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), name))
			err := util.Delete(target.location())
			erase()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), name)
		}
	},
}
