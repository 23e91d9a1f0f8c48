package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/player"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// CheckDependencies exits when the selected backend needs an executable
// that is not installed. Only mpv has one.
func CheckDependencies(backend string) {
	if backend != player.BackendMPV {
		return
	}

	path := viper.GetString(key.PlayerMpvPath)
	if _, err := exec.LookPath(path); err != nil {
		printMissingDependencyError(path)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(color.Milk).Render(fmt.Sprintf("%q was not found in your PATH.", dep))

	suggestion := fmt.Sprintf(
		"\n\nPick another player with %s",
		style.New().Foreground(style.Accent).Bold(true).Render("--player "+player.BackendBeep),
	)
	if installCmd != "" {
		suggestion = fmt.Sprintf(
			"\n\nTo install it, try running:\n  %s%s",
			style.New().Foreground(style.Accent).Bold(true).Render(installCmd),
			suggestion,
		)
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
