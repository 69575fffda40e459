package cmd

import (
	"encoding/json"
	"os"

	"github.com/calcoloergosum/vocagen/color"
	"github.com/calcoloergosum/vocagen/history"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/calcoloergosum/vocagen/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.SetOut(os.Stdout)
	statsCmd.Flags().BoolP("json", "j", false, "Print the saved streams as json")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how much was listened to per saved stream",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("Nothing listened to yet"))
			return
		}

		total := lo.SumBy(records, func(r *history.Record) int {
			return r.Finished
		})

		for _, r := range records {
			cmd.Println(style.New().Bold(true).Foreground(color.HiPurple).Render(r.String()))
			cmd.Printf("  %s, %s\n",
				util.Quantify(r.Finished, "item", "items"),
				util.Quantify(r.Batches, "step", "steps"),
			)
			if r.Last != "" {
				cmd.Printf("  %s %s\n", style.Faint("last"), r.Last)
			}
			cmd.Printf("  %s %s\n", style.Faint("at"), r.LastAt.Local().Format("2006-01-02 15:04"))
		}

		cmd.Println()
		cmd.Println(style.Fg(color.Green)(util.Quantify(total, "item", "items") + " in total"))
	},
}
