// Package theme handles colour palettes for the terminal backend.
// It supports loading themes from ~/.config/cardui/themes/ and provides
// embedded palettes for use when no custom theme is configured.
package theme
