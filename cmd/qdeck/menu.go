package main

import (
	"fmt"
	"strings"
)

// renderMenu renders the demo picker.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Load Demo"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 48)))
	sb.WriteString("\n")

	for i, d := range demos {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-9s", d.name)))
			sb.WriteString(activeStyle.Render(d.description))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-9s", d.name)))
			sb.WriteString(dimStyle.Render(d.description))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ⏎ Load  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

// demoIndex returns the menu position of name, or 0.
func demoIndex(name string) int {
	for i, d := range demos {
		if d.name == name {
			return i
		}
	}
	return 0
}
