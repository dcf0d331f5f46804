package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseWindowHandle parses a window handle written in decimal or as 0x hex.
func ParseWindowHandle(s string) (WindowHandle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty window handle")
	}

	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q: want decimal or 0x-prefixed hex", s)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid window handle %q: handle must be non-zero", s)
	}
	return WindowHandle(v), nil
}
