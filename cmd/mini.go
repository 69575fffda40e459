package cmd

import (
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/mini"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(miniCmd)

	miniCmd.Flags().BoolP("continue", "c", false, "Resume a saved stream instead of starting a new one")
	miniCmd.Flags().IntP("limit", "n", 0, "Stop after this many items")
	lo.Must0(viper.BindPFlag(key.MiniItemLimit, miniCmd.Flags().Lookup("limit")))
}

var miniCmd = &cobra.Command{
	Use:   "mini",
	Short: "Train in a line-oriented interface",
	Long: `Train without the full-screen interface.
Sentences are printed as they play and commands are typed one per line.
An empty line pauses or resumes, "?" lists the rest.`,
	Run: func(cmd *cobra.Command, args []string) {
		session, err := newSession(lo.Must(cmd.Flags().GetBool("continue")))
		handleErr(err)
		defer session.close()

		checkPlayer()

		handleErr(mini.Run(&mini.Options{
			Continue:  session.pick,
			Source:    session.client,
			Feed:      session.feed,
			NewPlayer: newPlayer,
			Limit:     viper.GetInt(key.MiniItemLimit),
		}))
	},
}
