package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/logging"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// LoadDescriptor reads and parses a candidate's manifest. The manifest must
// be a JSON object; its values are kept as-is.
func LoadDescriptor(c Candidate) (*types.ModuleDescriptor, error) {
	data, err := os.ReadFile(c.ManifestPath)
	if err != nil {
		return nil, tamererrors.ErrInvalidManifest(c.Name, c.ManifestPath, err)
	}

	var platforms map[string]interface{}
	if err := json.Unmarshal(data, &platforms); err != nil {
		return nil, tamererrors.ErrInvalidManifest(c.Name, c.ManifestPath, err)
	}
	if platforms == nil {
		return nil, tamererrors.ErrInvalidManifest(c.Name, c.ManifestPath,
			fmt.Errorf("manifest is null, expected an object"))
	}

	return &types.ModuleDescriptor{
		Name:         c.Name,
		OriginPath:   c.Path,
		ManifestPath: c.ManifestPath,
		Platforms:    platforms,
	}, nil
}

// Resolve loads every candidate, dropping the ones whose manifest cannot be
// read or parsed and any later duplicate of an already seen name. Each drop is
// reported through logger and, when non-nil, collector. The result keeps the
// candidates' order.
func Resolve(ctx context.Context, candidates []Candidate, logger logging.Logger, collector *tamererrors.ErrorCollector) []*types.ModuleDescriptor {
	descriptors := make([]*types.ModuleDescriptor, 0, len(candidates))
	seen := make(map[string]string, len(candidates))

	for _, c := range candidates {
		if first, dup := seen[c.Name]; dup {
			err := tamererrors.ErrDuplicatePackage(c.Name, c.Path)
			logger.Warn(ctx, err, "Skipping duplicate package",
				"package", c.Name, "kept", first, "dropped", c.Path)
			if collector != nil {
				collector.Warn(err)
			}
			continue
		}

		d, err := LoadDescriptor(c)
		if err != nil {
			logger.Warn(ctx, err, "Skipping package due to invalid tamer.json",
				"package", c.Name)
			if collector != nil {
				collector.Warn(err)
			}
			continue
		}

		seen[c.Name] = c.Path
		descriptors = append(descriptors, d)
	}

	return descriptors
}
