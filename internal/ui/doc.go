// Package ui contains the Fyne-based desktop user interface. It wires the
// folder form to the replay loader, renders the replay list, and keeps
// theme, language and folder choices in settings. All UI strings are
// localized via Localization.
package ui
