package merge

import (
	"fmt"
	"path/filepath"
	"strings"

	"reelforge/internal/fileutil"
)

// manifestName is the concat-demuxer list written next to the final reel.
const manifestName = "concat_list.txt"

// writeManifest writes one `file '<abs path>'` line per composed scene, in
// order, to the concat manifest consumed by the merge encode.
func writeManifest(path string, composedPaths []string) error {
	var b strings.Builder
	for _, composed := range composedPaths {
		abs, err := filepath.Abs(composed)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", composed, err)
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	return fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644)
}
