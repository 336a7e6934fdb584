package blob

import (
	"context"
	"fmt"
	"strings"
)

// Store persists raw PDF bytes addressed by key. Locations are opaque
// pointers tagged with the backing store ("s3:<key>" or "local:<path>").
type Store interface {
	Put(ctx context.Context, key string, data []byte) (location string, err error)
	Delete(ctx context.Context, location string) error
}

// SplitLocation separates a storage location into its scheme and key.
func SplitLocation(location string) (scheme, key string, err error) {
	parts := strings.SplitN(location, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed storage location %q", location)
	}
	return parts[0], parts[1], nil
}
