// Package open hands item images to the system's default viewer.
package open

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/calcoloergosum/vocagen/constant"
)

// Start opens link with the default handler and returns without waiting for it.
// Only http and https links are accepted.
func Start(link string) error {
	if err := check(link); err != nil {
		return err
	}

	cmd, ok := command(link)
	if !ok {
		return fmt.Errorf("opening links is not supported on %s", runtime.GOOS)
	}
	return cmd.Start()
}

func check(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: not a web link", link)
	}
	return nil
}

func command(link string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", link), true
	case constant.Darwin:
		return exec.Command("open", link), true
	case constant.Linux:
		return exec.Command("xdg-open", link), true
	case constant.Android:
		return exec.Command("termux-open-url", link), true
	default:
		return nil, false
	}
}
