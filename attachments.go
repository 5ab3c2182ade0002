package mdmerge

import (
	"log/slog"
	"os"
	"path/filepath"
)

// resolveAttachments maps attachment names from a contact row to files in
// dir. Names that are missing, are directories, or point outside dir are
// logged and left out; the draft is still created.
func resolveAttachments(log *slog.Logger, dir string, names []string, line int) []string {
	if len(names) == 0 {
		return nil
	}
	if dir == "" {
		log.Warn("attachments listed but no attachment directory configured", "line", line, "count", len(names))
		return nil
	}

	var paths []string
	for _, name := range names {
		rel := filepath.FromSlash(name)
		if !filepath.IsLocal(rel) {
			log.Warn("attachment outside the attachment directory", "line", line, "name", name)
			continue
		}

		path := filepath.Join(dir, rel)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			log.Warn("missing attachment", "line", line, "name", name)
			continue
		}

		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		paths = append(paths, path)
	}
	return paths
}
