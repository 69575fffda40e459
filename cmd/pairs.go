package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/calcoloergosum/vocagen/color"
	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNoPair = errors.New(`no language pair set, pass --pair or run "vocagen pairs --pick"`)

func init() {
	rootCmd.AddCommand(pairsCmd)
	pairsCmd.SetOut(os.Stdout)

	pairsCmd.Flags().BoolP("json", "j", false, "Print the pairs as json")
	pairsCmd.Flags().Bool("pick", false, "Choose a pair and save it as "+key.TrainerPair)
}

var pairsCmd = &cobra.Command{
	Use:   "pairs [query]",
	Short: "List the language pairs the server offers",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newClient()
		handleErr(err)

		pairs := client.PairsOrKnown(context.Background())
		if len(args) == 1 {
			pairs = item.FindPairs(args[0], pairs)
		}

		if len(pairs) == 0 {
			handleErr(fmt.Errorf("no pair matches %q", strings.Join(args, " ")))
		}

		if lo.Must(cmd.Flags().GetBool("pick")) {
			pickPair(pairs)
			return
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(pairs))
			return
		}

		current := viper.GetString(key.TrainerPair)
		for _, p := range pairs {
			marker := " "
			if p.String() == current {
				marker = style.Fg(color.Green)(icon.Get(icon.Mark))
			}
			cmd.Printf("%s %s %s\n", marker, style.Fg(color.Purple)(p.String()), style.Faint(p.Describe()))
		}
	},
}

func pickPair(pairs []item.Pair) {
	var index int
	handleErr(survey.AskOne(&survey.Select{
		Message: "Language pair",
		Options: lo.Map(pairs, func(p item.Pair, _ int) string {
			return p.String() + "  " + p.Describe()
		}),
	}, &index))

	picked := pairs[index]
	viper.Set(key.TrainerPair, picked.String())
	handleErr(writeConfig())

	fmt.Printf(
		"%s training %s from now on\n",
		style.Fg(color.Green)(icon.Get(icon.Success)),
		style.Fg(color.Purple)(picked.Describe()),
	)
}
