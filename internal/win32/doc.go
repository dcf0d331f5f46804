// Package win32 wraps the user32 calls used to find the shell's desktop
// windows, restyle and reparent a target window, and read display geometry.
// Everything except this file is only built on Windows.
package win32
