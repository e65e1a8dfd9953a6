// Package tui runs an interactive CNPJ and CEP fill session in the terminal.
//
// Prompts go through a PromptDriver; the default driver is backed by
// github.com/AlecAivazis/survey/v2. Feedback raised by the lookup flows is
// printed as it happens with feedback.TerminalRenderer.
package tui
