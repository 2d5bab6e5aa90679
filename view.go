package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type styles struct {
	base      lipgloss.Style
	container lipgloss.Style
	header    lipgloss.Style
	title     lipgloss.Style
	subtitle  lipgloss.Style
	status    lipgloss.Style
	muted     lipgloss.Style
	accent    lipgloss.Style
	danger    lipgloss.Style
	confirm   lipgloss.Style
}

var ui = styles{
	base: lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")),
	container: lipgloss.NewStyle().Padding(0, 1),
	header:    lipgloss.NewStyle().Padding(0, 1),
	title:     lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
	subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	status:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
	danger:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	confirm: lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color("203")).
		Bold(true).
		Padding(0, 1),
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading…"
	}

	content := ui.base.Render(m.table.View())
	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		content,
		m.infoView(),
		m.logView(),
		m.footerView(),
	)
	return ui.container.Render(view)
}

func (m model) headerView() string {
	title := ui.title.Render("dirview")
	scanning := ""
	if m.scanning {
		elapsed := time.Since(m.scanStart).Truncate(100 * time.Millisecond)
		scanning = " " + ui.accent.Render(fmt.Sprintf("%s scanning… %s", m.spinner.View(), elapsed))
	}
	root := ui.subtitle.Render(m.root)
	return ui.header.Render(lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", root, scanning))
}

func (m model) infoView() string {
	sel, ok := m.selectedEntry()
	if !ok {
		if m.scanning {
			return ui.muted.Render("Scanning…")
		}
		return ui.muted.Render("No subdirectories in this location.")
	}
	line := fmt.Sprintf(
		"Selected: %s · %s · %s files · %s dirs",
		sel.Path,
		humanize.IBytes(sel.TotalBytes),
		humanize.Comma(int64(sel.FileCount)),
		humanize.Comma(int64(sel.DirCount)),
	)
	return ui.status.Render(line)
}

func (m model) logView() string {
	lines := []string{}
	if m.lastErr != "" {
		lines = append(lines, ui.danger.Render("ERROR: "+m.lastErr))
	}
	visible := 4
	start := len(m.log.lines) - visible
	if start < 0 {
		start = 0
	}
	for i := len(m.log.lines) - 1; i >= start; i-- {
		lines = append(lines, ui.muted.Render(m.log.lines[i]))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

func (m model) footerView() string {
	if confirm, ok := m.mode.(confirmingDeletion); ok {
		label := fmt.Sprintf("Recursively delete %s? (y/n)", confirm.target)
		return ui.confirm.Render(label)
	}
	parts := []string{}
	if m.lastScan > 0 {
		parts = append(parts, ui.muted.Render(fmt.Sprintf("last scan %s", m.lastScan.Truncate(10*time.Millisecond))))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *model) setTableRows() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, entry := range m.entries {
		rows = append(rows, table.Row{
			entry.Name(),
			humanize.IBytes(entry.TotalBytes),
			humanize.Comma(int64(entry.FileCount)),
			humanize.Comma(int64(entry.DirCount)),
		})
	}
	m.table.SetRows(rows)
}

func (m *model) updateLayout(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	if width < 60 {
		width = 60
	}
	if height < 12 {
		height = 12
	}
	m.width = width
	m.height = height

	sizeWidth := 12
	filesWidth := 12
	dirsWidth := 10
	nameWidth := max(width-sizeWidth-filesWidth-dirsWidth-10, 20)

	m.table.SetColumns([]table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Size", Width: sizeWidth},
		{Title: "Files", Width: filesWidth},
		{Title: "Dirs", Width: dirsWidth},
	})

	headerHeight := lipgloss.Height(m.headerView())
	infoHeight := lipgloss.Height(m.infoView())
	logHeight := 5
	footerHeight := lipgloss.Height(m.footerView())
	available := max(height-headerHeight-infoHeight-logHeight-footerHeight-4, 5)
	m.table.SetHeight(available)
	m.table.SetWidth(width - 4)
}
