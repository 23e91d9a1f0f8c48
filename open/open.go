// Package open hands files and URLs to the system's default application.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/keypoint-cli/keypoint/constant"
)

// Start opens input with the default handler without waiting for it.
func Start(input string) error {
	cmd, err := command(input)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(input string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input), nil
	case constant.Darwin:
		return exec.Command("open", input), nil
	case constant.Linux:
		return exec.Command("xdg-open", input), nil
	case constant.Android:
		return exec.Command("termux-open", input), nil
	default:
		return nil, fmt.Errorf("opening files is not supported on %s", runtime.GOOS)
	}
}
