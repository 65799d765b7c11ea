package history

import (
	"fmt"
	"runtime"

	"github.com/blackwell-systems/modkill/internal/restorelog"
)

// SkippedItem is a skipped path in a Report.
type SkippedItem struct {
	Path   string `json:"path"`
	Reason string `json:"reason,omitempty"`
}

// Report summarises a restore log for the restore command. Trashed content
// cannot be restored programmatically, so RestorationSupport is always "manual".
type Report struct {
	LogFile            string        `json:"logFile"`
	Deleted            []string      `json:"deleted"`
	Skipped            []SkippedItem `json:"skipped"`
	RestorationSupport string        `json:"restorationSupport"`
	Platform           string        `json:"platform"`
}

// NewReport builds a Report from parsed log entries.
func NewReport(logFile string, entries []restorelog.Entry) *Report {
	r := &Report{
		LogFile:            logFile,
		Deleted:            []string{},
		Skipped:            []SkippedItem{},
		RestorationSupport: "manual",
		Platform:           runtime.GOOS,
	}
	for _, e := range entries {
		switch e.Kind {
		case restorelog.KindDeleted:
			r.Deleted = append(r.Deleted, e.Path)
		case restorelog.KindSkipped:
			r.Skipped = append(r.Skipped, SkippedItem{Path: e.Path, Reason: e.Reason})
		}
	}
	return r
}

// LoadReport reads the restore log at path.
func LoadReport(path string) (*Report, error) {
	entries, err := restorelog.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read restore log: %w", err)
	}
	return NewReport(path, entries), nil
}

// TrashLocation describes where trashed directories end up on goos.
func TrashLocation(goos string) string {
	switch goos {
	case "darwin":
		return "Open Finder, Go > Go to Folder > ~/.Trash, then use Put Back"
	case "windows":
		return "Open the Recycle Bin from the desktop and choose Restore"
	default:
		return "Check ~/.local/share/Trash/files (or .Trash-<uid> at the top of the drive), or use trash-cli's trash-restore"
	}
}
