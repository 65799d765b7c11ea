package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/modkill/internal/analyzer"
	"github.com/blackwell-systems/modkill/internal/cleaner"
	"github.com/blackwell-systems/modkill/internal/history"
	"github.com/blackwell-systems/modkill/internal/store"
)

// celebrateBytes is the freed-space threshold for the celebration line.
const celebrateBytes = 10 << 30

// ProjectLabel returns "project  relative/path" for a module: the name of
// the directory owning node_modules and the module's path relative to root.
func ProjectLabel(m analyzer.AnalyzedModule, root string) (project, rel string) {
	project = filepath.Base(filepath.Dir(m.Path))
	rel = m.Path
	if r, err := filepath.Rel(root, m.Path); err == nil && !strings.HasPrefix(r, "..") {
		rel = r
	}
	return project, rel
}

// RenderModuleTable renders analyzed modules, one per row, in the given order.
func RenderModuleTable(modules []analyzer.AnalyzedModule, root string) string {
	if len(modules) == 0 {
		return "No node_modules found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%10s  %-8s  %6s  %s\n", "Size", "Age", "Score", "Project"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, m := range modules {
		project, rel := ProjectLabel(m, root)
		age := AgeStyle(m.AgeDays).Render(fmt.Sprintf("%-8s", FormatAge(m.AgeDays)))

		line := fmt.Sprintf("%10s  %s  %6.1f  %s %s",
			FormatSize(m.SizeBytes),
			age,
			m.Score,
			styleBold.Render(truncate(project, 24)),
			styleDim.Render(rel))
		if !m.HasPackageJson {
			line += styleDim.Render("  (orphan)")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderTotal renders the potential-savings footer for a module list.
func RenderTotal(modules []analyzer.AnalyzedModule) string {
	var total int64
	for _, m := range modules {
		total += m.SizeBytes
	}
	noun := "modules"
	if len(modules) == 1 {
		noun = "module"
	}
	return styleAccent.Render(fmt.Sprintf("Total potential to free: %s (%d %s)", FormatSize(total), len(modules), noun))
}

// RenderDeleteSummary renders the outcome of a deletion batch.
func RenderDeleteSummary(res cleaner.DeleteResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Deleted: %d, Skipped: %d, Freed: %s\n",
		len(res.Deleted), len(res.Skipped), FormatSize(res.FreedBytes)))

	for _, s := range res.Skipped {
		reason := s.Reason
		if s.ErrorCode != "" {
			reason = fmt.Sprintf("%s, %s", reason, s.ErrorCode)
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", styleAging.Render("skipped"), s.Path, styleDim.Render("("+reason+")")))
	}

	if res.RestoreLogPath != "" {
		sb.WriteString(styleDim.Render("Restore log: "+res.RestoreLogPath) + "\n")
	}
	if res.FreedBytes > celebrateBytes {
		sb.WriteString(styleFresh.Render("Legendary kill! Over 10 GB reclaimed.") + "\n")
	}

	return sb.String()
}

// RenderFreeSpace renders the free-space change on the scanned volume.
func RenderFreeSpace(before, after uint64) string {
	return fmt.Sprintf("Free space: %s -> %s", humanizeU(before), humanizeU(after))
}

func humanizeU(n uint64) string {
	if n > 1<<62 {
		n = 1 << 62
	}
	return FormatSize(int64(n))
}

// RenderRunTable renders recorded runs, newest first as given.
func RenderRunTable(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-5s %-16s %-10s %-8s %-8s %-10s %s\n",
		"ID", "When", "Mode", "Deleted", "Skipped", "Freed", "Root"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, run := range runs {
		mode := "trash"
		if !run.Trashed {
			mode = "permanent"
		}
		sb.WriteString(fmt.Sprintf("%-5d %-16s %-10s %-8d %-8d %-10s %s\n",
			run.ID,
			truncate(formatRelativeTime(run.CreatedAt), 16),
			mode,
			run.DeletedCount,
			run.SkippedCount,
			FormatSize(run.FreedBytes),
			truncateLeft(run.Root, 30)))
	}

	return sb.String()
}

// RenderRestoreGuidance renders the manual restore instructions for a report.
// trashed is false when the run removed directories permanently.
func RenderRestoreGuidance(r *history.Report, trashed bool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Restore log: %s\n", r.LogFile))

	if len(r.Deleted) == 0 {
		sb.WriteString("No deleted items found in log file.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Found %d deleted item(s):\n", len(r.Deleted)))
	if len(r.Skipped) > 0 {
		sb.WriteString(styleDim.Render(fmt.Sprintf("(%d item(s) were skipped during deletion and need no restoring)", len(r.Skipped))))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	for _, p := range r.Deleted {
		sb.WriteString("  • " + p + "\n")
	}
	sb.WriteString("\n")

	if !trashed {
		sb.WriteString(styleAging.Render("These directories were removed permanently."))
		sb.WriteString("\nRun your package manager's install command (npm install, pnpm install, yarn) in each project to recreate them.\n")
		return sb.String()
	}

	sb.WriteString(styleAging.Render("Restoring from the trash is manual:"))
	sb.WriteString("\n  1. Open your system Trash / Recycle Bin\n")
	sb.WriteString("  2. Find the node_modules folders listed above\n")
	sb.WriteString("  3. Use \"Put Back\" / \"Restore\"\n\n")
	sb.WriteString(history.TrashLocation(r.Platform) + "\n")
	sb.WriteString(styleDim.Render("Alternatively, reinstall dependencies with npm install in each project."))
	sb.WriteString("\n")

	return sb.String()
}
