// Package inventory renders the reconciled VM inventory for the
// terminal.
package inventory

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openhvx/hvxctl/internal/domain"
)

// Render returns the terminal view of the rows, front-insertion order
// preserved.
func Render(rows []domain.InventoryRow) string {
	return renderView(rows, newStyles())
}

func renderView(rows []domain.InventoryRow, s styles) string {
	lines := []string{
		s.title.Render("OpenHVX Inventory"),
		s.header.Render(fmt.Sprintf("vms: %d", len(rows))),
	}

	if len(rows) == 0 {
		lines = append(lines, s.empty.Render("No inventory rows."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, row := range rows {
		lines = append(lines, s.section.Render(renderRow(row, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRow(row domain.InventoryRow, s styles) string {
	parts := []string{
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.name.Render(rowTitle(row)),
			" ",
			stateStyle(row.State, s).Render(stateLabel(row.State)),
		),
	}

	for _, line := range detailLines(row) {
		parts = append(parts, s.detail.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func rowTitle(row domain.InventoryRow) string {
	name := row.Name
	if name == "" {
		name = row.GUID
	}
	return fmt.Sprintf("%s @ %s", name, row.AgentID)
}

func stateLabel(state domain.VMState) string {
	if state == "" {
		return "unknown"
	}
	return string(state)
}

func stateStyle(state domain.VMState, s styles) lipgloss.Style {
	switch state {
	case domain.VMStateRunning:
		return s.stateRunning
	case domain.VMStateOff:
		return s.stateOff
	case domain.VMStatePaused:
		return s.statePaused
	case domain.VMStateSaved:
		return s.stateSaved
	default:
		return s.stateUnknown
	}
}

func detailLines(row domain.InventoryRow) []string {
	var lines []string

	var compute []string
	if row.CPU > 0 {
		compute = append(compute, fmt.Sprintf("cpu: %d", row.CPU))
	}
	if row.RAMMB > 0 {
		compute = append(compute, fmt.Sprintf("ram: %s", domain.FormatBytes(row.RAMMB*1024*1024)))
	}
	if row.DiskProvMB > 0 {
		used := ""
		if row.DiskUsedMB > 0 {
			used = fmt.Sprintf(" (%d%% used)", domain.Percent(row.DiskUsedMB, row.DiskProvMB))
		}
		compute = append(compute, fmt.Sprintf("disk: %s%s", domain.FormatBytes(row.DiskProvMB*1024*1024), used))
	}
	if len(compute) > 0 {
		lines = append(lines, strings.Join(compute, "  "))
	}

	if len(row.Switches) > 0 {
		lines = append(lines, "switches: "+strings.Join(row.Switches, ", "))
	}
	if len(row.IPs) > 0 {
		lines = append(lines, "ips: "+strings.Join(row.IPs, ", "))
	}

	return lines
}
