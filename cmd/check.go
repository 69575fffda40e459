package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/calcoloergosum/vocagen/color"
	"github.com/calcoloergosum/vocagen/config"
	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/player"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the configuration, the content server and the audio backend",
	Run: func(cmd *cobra.Command, args []string) {
		failed := false
		report := func(what string, err error) {
			if err != nil {
				failed = true
				cmd.Printf("%s %s: %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), what, err)
				return
			}
			cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), what)
		}

		report("config", config.Validate())

		client, err := newClient()
		if err == nil {
			err = client.Health(context.Background())
		}
		report("server "+viper.GetString(key.ServerURL), err)

		p, err := newPlayer()
		if err == nil {
			err = p.Close()
		}
		if err == nil && viper.GetString(key.Player) == player.MPVName {
			_, err = exec.LookPath(player.MPVName)
		}
		report("player "+viper.GetString(key.Player), err)

		if failed {
			os.Exit(1)
		}
	},
}

// checkPlayer exits with install instructions when the mpv backend is selected but missing.
func checkPlayer() {
	if viper.GetString(key.Player) != player.MPVName {
		return
	}

	if _, err := exec.LookPath(player.MPVName); err != nil {
		printMissingDependencyError(player.MPVName)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install mpv"
	case "linux":
		installCmd = "sudo apt install mpv"
	case "windows":
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Missing audio backend", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found in your PATH.", dep))

	suggestion := fmt.Sprintf("\n\nSwitch to the built-in player with:\n  %s",
		style.New().Foreground(style.AccentColor).Bold(true).Render("vocagen config set player.default native"))
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd)) +
			suggestion
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
