//go:build !unix && !windows

package cleaner

func isBusy(error) bool { return false }

func errorCode(error) string { return "" }
