package pipeline

import (
	"fmt"

	"reelforge/internal/fileutil"
)

// writeSidecar publishes the final reel path for downstream consumers. The
// file carries a single line and is written atomically so readers never see
// a partial path.
func writeSidecar(sidecarPath, reelPath string) error {
	data := []byte(reelPath + "\n")
	if err := fileutil.WriteFileAtomic(sidecarPath, data, 0o644); err != nil {
		return fmt.Errorf("write sidecar %s: %w", sidecarPath, err)
	}
	return nil
}
