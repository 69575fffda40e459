// Package cmd implements the vocagen command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/calcoloergosum/vocagen/color"
	"github.com/calcoloergosum/vocagen/constant"
	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/player"
	"github.com/calcoloergosum/vocagen/stream"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/calcoloergosum/vocagen/tui"
	"github.com/calcoloergosum/vocagen/util"
	"github.com/calcoloergosum/vocagen/version"
	"github.com/calcoloergosum/vocagen/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func completeWith(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func completePairs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	pairs := item.KnownPairs
	if client, err := newClient(); err == nil {
		if cached, ok := client.CachedPairs(); ok {
			pairs = cached
		}
	}

	return lo.Map(pairs, func(p item.Pair, _ int) string {
		return p.String()
	}), cobra.ShellCompDirectiveNoFileComp
}

// bindTrainerFlags registers the flags every training command shares and binds them to their config keys.
func bindTrainerFlags(flags *pflag.FlagSet) {
	flags.StringP("pair", "p", "", "Language pair to train, as native-target (e.g. en-ko)")
	flags.StringP("mode", "m", "", "Stream mode: sentence or word")
	flags.StringP("order", "o", "", "Sentence order: random or length")
	flags.IntP("repeat", "r", 0, "How many times the target clip is played per item")
	flags.Bool("hide-native", false, "Play the target clip only")

	for flag, k := range map[string]string{
		"pair":        key.TrainerPair,
		"mode":        key.TrainerMode,
		"order":       key.TrainerOrder,
		"repeat":      key.TrainerRepeat,
		"hide-native": key.TrainerHideNative,
	} {
		lo.Must0(viper.BindPFlag(k, flags.Lookup(flag)))
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
	rootCmd.Flags().BoolP("continue", "c", false, "Resume a saved stream instead of starting a new one")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", completeWith(icon.AvailableVariants()...)))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember the stream position and count finished items")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().String("server", "", "Base URL of the content server")
	lo.Must0(viper.BindPFlag(key.ServerURL, rootCmd.PersistentFlags().Lookup("server")))

	rootCmd.PersistentFlags().String("player", "", "Audio backend: mpv or native")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("player", completeWith(player.Names...)))
	lo.Must0(viper.BindPFlag(key.Player, rootCmd.PersistentFlags().Lookup("player")))

	bindTrainerFlags(rootCmd.PersistentFlags())
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("pair", completePairs))
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("mode", completeWith(lo.Map(stream.Modes, func(m stream.Mode, _ int) string {
		return string(m)
	})...)))
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("order", completeWith(lo.Map(stream.Orders, func(o stream.Order, _ int) string {
		return string(o)
	})...)))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.Vocagen,
	Short: "A listening trainer for language pairs",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Listen to endless sentences in the language you learn"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		session, err := newSession(lo.Must(cmd.Flags().GetBool("continue")))
		handleErr(err)
		defer session.close()

		checkPlayer()

		handleErr(tui.Run(&tui.Options{
			Continue:  session.pick,
			Source:    session.client,
			Feed:      session.feed,
			NewPlayer: newPlayer,
		}))
	},
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
