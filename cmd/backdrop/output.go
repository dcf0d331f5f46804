package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/1broseidon/backdrop/internal/ipc"
	"github.com/1broseidon/backdrop/internal/wallpaper"
)

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true)
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// printer writes command output, styled only when it goes to a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newStdoutPrinter() *printer {
	return &printer{w: os.Stdout, styled: term.IsTerminal(int(os.Stdout.Fd()))}
}

func (p *printer) field(label string, value string) {
	if p.styled {
		fmt.Fprintf(p.w, "%s %s\n", labelStyle.Width(16).Render(label+":"), value)
		return
	}
	fmt.Fprintf(p.w, "%-16s%s\n", label+":", value)
}

func (p *printer) boolValue(on bool) string {
	s := strconv.FormatBool(on)
	if !p.styled {
		return s
	}
	if on {
		return onStyle.Render(s)
	}
	return offStyle.Render(s)
}

func (p *printer) status(st *ipc.StatusData) {
	p.field("daemon_running", p.boolValue(st.DaemonRunning))
	p.field("platform", st.Platform)
	p.field("supported", p.boolValue(st.Supported))
	p.field("embedded", p.boolValue(st.Embedded))
	if st.Embedded {
		p.field("window", st.Window)
		p.field("host", st.Host)
	}
	p.field("uptime_seconds", strconv.FormatInt(st.UptimeSeconds, 10))
}

func (p *printer) monitors(monitors []wallpaper.MonitorInfo) {
	if len(monitors) == 0 {
		fmt.Fprintln(p.w, "no monitors reported")
		return
	}

	rows := make([][]string, 0, len(monitors))
	for _, m := range monitors {
		primary := ""
		if m.IsPrimary {
			primary = "*"
		}
		rows = append(rows, []string{
			strconv.Itoa(m.Index),
			strconv.Itoa(m.X),
			strconv.Itoa(m.Y),
			strconv.Itoa(m.Width),
			strconv.Itoa(m.Height),
			primary,
		})
	}

	if !p.styled {
		fmt.Fprintf(p.w, "%-6s%-8s%-8s%-8s%-8s%s\n", "INDEX", "X", "Y", "WIDTH", "HEIGHT", "PRIMARY")
		for _, r := range rows {
			fmt.Fprintf(p.w, "%-6s%-8s%-8s%-8s%-8s%s\n", r[0], r[1], r[2], r[3], r[4], r[5])
		}
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("INDEX", "X", "Y", "WIDTH", "HEIGHT", "PRIMARY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(p.w, t.Render())
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
