package loaders

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/iden3/go-schema-processor/loaders"
	"github.com/iden3/go-schema-processor/processor"
	"github.com/pkg/errors"
)

// ErrArtifactNotFound is returned when an artifact does not exist.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactLoader loads circuit, witness program and prover module bytes from
// a path or URL.
type ArtifactLoader interface {
	Load(ctx context.Context, location string) ([]byte, error)
}

// FSLoader reads artifacts from the filesystem. Relative locations are
// resolved against Dir when it is set.
type FSLoader struct {
	Dir string
}

// Load implements ArtifactLoader.
func (l FSLoader) Load(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := location
	if l.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.Dir, path)
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(ErrArtifactNotFound, path)
	}
	return b, err
}

// DefaultLoader loads artifacts by http(s), IPFS or from the local
// filesystem depending on the location scheme.
type DefaultLoader struct {
	IpfsURL string `json:"ipfs_url"`
	FS      FSLoader
}

// Load implements ArtifactLoader.
func (d DefaultLoader) Load(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, errors.New("artifact location is empty")
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}

	var loader processor.SchemaLoader
	switch u.Scheme {
	case "http", "https":
		loader = &loaders.HTTP{URL: location}
	case "ipfs":
		if d.IpfsURL == "" {
			return nil, errors.New("ipfs url is not configured")
		}
		loader = loaders.IPFS{
			URL: d.IpfsURL,
			CID: u.Host,
		}
	case "file":
		return d.FS.Load(ctx, u.Path)
	case "":
		return d.FS.Load(ctx, location)
	default:
		return nil, fmt.Errorf("loader for %s is not supported", u.Scheme)
	}

	b, _, err := loader.Load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", location)
	}
	return b, nil
}
