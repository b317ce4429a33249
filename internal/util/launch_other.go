//go:build !windows

package util

// LaunchedFromExplorer always reports false outside Windows.
func LaunchedFromExplorer() bool { return false }
