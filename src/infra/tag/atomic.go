package tag

import (
	"fmt"

	"github.com/google/renameio/v2"
)

// writeFileAtomic replaces path with data through a temp file in the same
// directory, so readers see either the old or the new file. The existing
// file's permissions are kept.
func writeFileAtomic(path string, data []byte) error {
	if err := renameio.WriteFile(path, data, 0644, renameio.WithExistingPermissions()); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
