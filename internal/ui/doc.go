// Package ui is the terminal front end: key bindings read through
// eiannone/keyboard and a live display drawn with uilive and lipgloss.
package ui
