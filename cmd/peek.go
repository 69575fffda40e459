package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/filesystem"
	"github.com/calcoloergosum/vocagen/peek"
	"github.com/calcoloergosum/vocagen/stream"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(peekCmd)

	peekCmd.Flags().IntP("count", "n", 1, "Number of steps to fetch")
	peekCmd.Flags().BoolP("json", "j", false, "Print the steps as json")
	peekCmd.Flags().Bool("prev", false, "Walk the stream backwards")
	peekCmd.Flags().Bool("clips", false, "Print audio URLs instead of sentences")
	peekCmd.Flags().String("output", "", "Write to this file instead of stdout")
}

var peekCmd = &cobra.Command{
	Use:   "peek [token]",
	Short: "Print the next items of a stream without playing them",
	Long: `Print the next items of a stream without playing them.
Every step prints the token it ended at, pass it back to continue from there.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := feedOptions()
		handleErr(err)

		if opts.Pair.IsZero() {
			handleErr(errNoPair)
		}

		client, err := newClient()
		handleErr(err)

		req := stream.Request{
			Pair:      opts.Pair,
			Mode:      opts.Mode,
			Order:     opts.Order,
			Direction: cursor.Forward,
		}
		if len(args) == 1 {
			req.Token = cursor.NewToken(args[0])
		}
		if lo.Must(cmd.Flags().GetBool("prev")) {
			req.Direction = cursor.Backward
		}

		out, closeOut := peekOutput(lo.Must(cmd.Flags().GetString("output")))
		defer closeOut()

		handleErr(peek.Run(context.Background(), &peek.Options{
			Out:     out,
			Source:  client,
			Request: req,
			Count:   lo.Must(cmd.Flags().GetInt("count")),
			Json:    lo.Must(cmd.Flags().GetBool("json")),
			Clips:   lo.Must(cmd.Flags().GetBool("clips")),
		}))
	},
}

func peekOutput(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stdout, func() {}
	}

	file, err := filesystem.API().Create(path)
	handleErr(err)

	return file, func() {
		_ = file.Close()
	}
}

func init() {
	peekCmd.AddCommand(peekSchemaCmd)
}

var peekSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the json schema of peek --json",
	Run: func(cmd *cobra.Command, args []string) {
		schema := jsonschema.Reflect(&peek.Output{})
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
