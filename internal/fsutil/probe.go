// Package fsutil holds the best-effort filesystem probes shared by the
// scanner and the cleaner.
//
// Every probe in this package degrades instead of failing: a directory that
// cannot be read sizes as zero, a path that cannot be checked is reported as
// not writable. Callers never need to handle transient filesystem errors
// (permission denied, vanished entries, broken links) themselves.
package fsutil

// TryOrDefault runs op and returns its value, or fallback if op fails.
func TryOrDefault[T any](op func() (T, error), fallback T) T {
	v, err := op()
	if err != nil {
		return fallback
	}
	return v
}
