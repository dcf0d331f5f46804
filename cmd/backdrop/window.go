package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/backdrop/internal/ipc"
	"github.com/1broseidon/backdrop/internal/platform"
	"github.com/1broseidon/backdrop/internal/wallpaper"
)

// windowTarget builds the IPC selector from flags and positional args. At
// most one selector may be given; requireOne rejects an empty selection.
func windowTarget(title string, foreground bool, positional []string, requireOne bool) (ipc.WindowPayload, error) {
	if len(positional) > 1 {
		return ipc.WindowPayload{}, fmt.Errorf("expected at most one HWND, got %d arguments", len(positional))
	}

	selectors := 0
	var target ipc.WindowPayload
	if len(positional) == 1 {
		hwnd, err := platform.ParseWindowHandle(positional[0])
		if err != nil {
			return ipc.WindowPayload{}, err
		}
		target.HWND = uint64(hwnd)
		selectors++
	}
	if title != "" {
		target.Title = title
		selectors++
	}
	if foreground {
		target.Foreground = true
		selectors++
	}

	if selectors > 1 {
		return ipc.WindowPayload{}, errors.New("use only one of HWND, --title or --foreground")
	}
	if requireOne && selectors == 0 {
		return ipc.WindowPayload{}, errors.New("a window is required: pass HWND, --title or --foreground")
	}
	return target, nil
}

// exitCode maps engine failures onto distinct exit codes for scripts.
func exitCode(err error) int {
	switch {
	case errors.Is(err, wallpaper.ErrState):
		return 3
	case errors.Is(err, wallpaper.ErrShellTopology):
		return 4
	case errors.Is(err, wallpaper.ErrInvalidHandle):
		return 5
	case errors.Is(err, wallpaper.ErrPlatformUnsupported):
		return 6
	default:
		return 1
	}
}

func runEmbed(args []string) int {
	fs := flag.NewFlagSet("embed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cf := addClientFlags(fs)
	title := fs.String("title", "", "Select the top-level window with this exact title")
	foreground := fs.Bool("foreground", false, "Select the foreground window")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: backdrop embed [--path PATH] [--timeout D] [--title TITLE | --foreground | HWND]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Reparent a window behind the desktop icons and stretch it over every")
		fmt.Fprintln(os.Stderr, "display. HWND accepts decimal or 0x-prefixed hex.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	target, err := windowTarget(*title, *foreground, fs.Args(), true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}

	client, err := cf.newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	data, err := client.Embed(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	fmt.Printf("embedded %s under %s\n", data.Window, data.Host)
	return 0
}

func runUnembed(args []string) int {
	fs := flag.NewFlagSet("unembed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cf := addClientFlags(fs)
	title := fs.String("title", "", "Select the embedded window by its exact title")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: backdrop unembed [--path PATH] [--timeout D] [--title TITLE | HWND]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore the embedded window to its original parent, style and position.")
		fmt.Fprintln(os.Stderr, "Without a selector, the currently embedded window is restored.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	target, err := windowTarget(*title, false, fs.Args(), false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}

	client, err := cf.newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	data, err := client.Unembed(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	fmt.Printf("restored %s\n", data.Window)
	return 0
}
