package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that an asset name is safe to join into a path.
// Returns ErrInvalidAssetName if the name is empty or contains path
// separators or dots, which rules out traversal and extension tricks.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
