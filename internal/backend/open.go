package backend

import (
	"context"
	"fmt"
	"os"
)

// openItem hands path to the platform opener. Remote objects are downloaded
// to a temporary directory first.
func (s *System) openItem(ctx context.Context, path string) (string, error) {
	if p := s.providerFor(path); p != nil {
		tmp, err := os.MkdirTemp("", "skiff-")
		if err != nil {
			return "", err
		}
		local, err := p.Download(ctx, path, tmp)
		if err != nil {
			os.RemoveAll(tmp)
			return "", err
		}
		path = local
	} else if isRemotePath(path) {
		return "", failf(KindUnsupported, "no provider for %s", remoteScheme(path))
	} else if _, err := os.Stat(path); err != nil {
		return "", err
	}

	if err := s.opener(path); err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	return path, nil
}
