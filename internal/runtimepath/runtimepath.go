package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const socketName = "backdrop.sock"

// Dir returns the runtime directory holding the daemon IPC socket.
// On Windows: %LOCALAPPDATA%\backdrop, or <temp>\backdrop when unset.
// Elsewhere, by priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/backdrop-runtime-<uid> (created)
func Dir() (string, error) {
	if runtime.GOOS == "windows" {
		return windowsDir()
	}

	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/backdrop-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

func windowsDir() (string, error) {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "backdrop")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns the daemon IPC socket path. A non-empty override (the
// ipc.socket_path setting) wins over the runtime directory.
func SocketPath(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, socketName), nil
}
