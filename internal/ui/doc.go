// Package ui renders a page of tab groups in the terminal with Bubble Tea.
//
// Pieces:
//   - Model: the root tea.Model; turns keys and mouse clicks into click
//     events on tab controls, so every selection goes through the same path
//     a page click would
//   - FocusManager: tracks which visible group receives key presses
//   - Styles / KeyMap: lipgloss styles and bubbles key bindings
//
// Groups nested in an inactive body are hidden and drop out of the focus
// order until their body becomes active again.
package ui
