package cmd

import (
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/calcoloergosum/vocagen/color"
	"github.com/calcoloergosum/vocagen/constant"
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/calcoloergosum/vocagen/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()

		versionInfo := struct {
			Version  string
			OS       string
			Arch     string
			BuiltAt  string
			BuiltBy  string
			Revision string
			App      string
			Server   string
		}{
			Version:  constant.Version,
			App:      constant.Vocagen,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			Revision: constant.Revision,
			Server:   viper.GetString(key.ServerURL),
		}

		t, err := template.New("version").Funcs(map[string]any{
			"faint":   style.Faint,
			"bold":    style.Bold,
			"magenta": style.Fg(color.Purple),
			"green":   style.Fg(color.Green),
		}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }} 

  {{ faint "Version" }}    {{ bold .Version }}
  {{ faint "Revision" }}   {{ bold .Revision }}
  {{ faint "Built" }}      {{ bold .BuiltAt }} {{ faint "by" }} {{ bold .BuiltBy }}
  {{ faint "Platform" }}   {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Server" }}     {{ bold .Server }}
`)
		handleErr(err)
		handleErr(t.Execute(cmd.OutOrStdout(), versionInfo))
	},
}
