// Package autolink wires discovered native packages into host projects.
//
// A Linker runs one pass: it checks the host identity, discovers packages
// under node_modules, resolves their manifests, then for every selected
// platform renders the generated sections and merges them into the host
// files. Problems with a single package or a single target file are logged
// and recorded in the Summary; only configuration errors abort the pass.
package autolink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nanofuxion/tamer4lynx/internal/config"
	"github.com/nanofuxion/tamer4lynx/internal/discovery"
	"github.com/nanofuxion/tamer4lynx/internal/emit"
	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/logging"
	"github.com/nanofuxion/tamer4lynx/internal/merge"
	"github.com/nanofuxion/tamer4lynx/internal/naming"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// Options configures a Linker.
type Options struct {
	// ProjectRoot holds node_modules, android/ and ios/. Defaults to the
	// config's project root.
	ProjectRoot string
	Config      *config.Config
	// Platforms to link. Empty means every platform whose directory exists.
	Platforms []types.Platform
	Logger    logging.Logger
}

// Linker runs autolink passes for one host project.
type Linker struct {
	root      string
	cfg       *config.Config
	platforms []types.Platform
	logger    logging.Logger
}

// New creates a Linker. The project root is made absolute so generated
// relative paths do not depend on the working directory.
func New(opts Options) (*Linker, error) {
	if opts.Config == nil {
		return nil, tamererrors.ErrConfigNotFound(config.FileName)
	}

	root := opts.ProjectRoot
	if root == "" {
		r, err := opts.Config.ProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("resolving project root: %w", err)
		}
		root = r
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	platforms := opts.Platforms
	if len(platforms) == 0 {
		platforms = DetectPlatforms(abs)
	}

	return &Linker{
		root:      abs,
		cfg:       opts.Config,
		platforms: platforms,
		logger:    logger.WithComponent("autolink"),
	}, nil
}

// Root returns the absolute project root.
func (l *Linker) Root() string {
	return l.root
}

// Platforms returns the platforms this Linker links.
func (l *Linker) Platforms() []types.Platform {
	return l.platforms
}

// DetectPlatforms returns the platforms whose host directory exists under root.
func DetectPlatforms(root string) []types.Platform {
	var found []types.Platform
	for _, p := range types.Platforms {
		if isDir(filepath.Join(root, string(p))) {
			found = append(found, p)
		}
	}
	return found
}

// Host returns the emitter host identity for this project.
func (l *Linker) Host() emit.Host {
	return emit.Host{
		ProjectRoot:    l.root,
		AndroidPackage: l.cfg.Android.PackageName,
		IOSAppName:     l.cfg.IOS.AppName,
	}
}

// Discover finds and resolves every package under node_modules.
func (l *Linker) Discover(ctx context.Context, collector *tamererrors.ErrorCollector) ([]*types.ModuleDescriptor, error) {
	candidates, err := discovery.Discover(ctx, filepath.Join(l.root, discovery.DependencyDir), l.logger)
	if err != nil {
		return nil, err
	}
	return discovery.Resolve(ctx, candidates, l.logger, collector), nil
}

// Run performs one autolink pass.
func (l *Linker) Run(ctx context.Context) (*Summary, error) {
	if tl, ok := l.logger.(*logging.TamerLogger); ok {
		op := tl.StartOperation("autolink")
		defer op.End(ctx)
	}

	// Host identity is checked before anything is read or written.
	for _, p := range l.platforms {
		if err := l.cfg.RequireHostIdentity(p); err != nil {
			return nil, err
		}
	}

	collector := tamererrors.NewErrorCollector()
	descriptors, err := l.Discover(ctx, collector)
	if err != nil {
		return nil, fmt.Errorf("discovering packages: %w", err)
	}

	summary := &Summary{
		Root:      l.root,
		Platforms: l.platforms,
		Packages:  descriptors,
		collector: collector,
	}
	// Colliding packages stay in the summary but contribute nothing.
	linked := reconcile(ctx, descriptors, l.logger, collector)

	host := l.Host()
	for _, p := range l.platforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, conflicts := emit.Registrations(linked, p)
		for _, c := range conflicts {
			cerr := tamererrors.ErrNameCollision(c.Package, c.Other, c.SimpleName)
			l.logger.Warn(ctx, cerr, "Skipping native module registration",
				"package", c.Package, "platform", p.String(), "class", c.SimpleName)
			collector.Warn(cerr)
		}

		platformRoot := host.PlatformRoot(p)
		rootExists := isDir(platformRoot)
		if !rootExists {
			l.logger.Warn(ctx, tamererrors.ErrTargetMissing(platformRoot),
				"Platform directory not found, skipping", "platform", p.String())
		}

		for _, a := range emit.Artifacts(linked, p, host) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			summary.Results = append(summary.Results, l.apply(ctx, a, rootExists, collector))
		}
	}

	summary.Diagnostics = collector.Diagnostics()
	msg := "Autolinking complete"
	if collector.HasErrors() {
		msg = "Autolinking finished with failures"
	}
	l.logger.Info(ctx, msg,
		"packages", len(descriptors),
		"linked", len(linked),
		"artifacts", len(summary.Results),
		"warnings", collector.Count(tamererrors.ErrorSeverityWarning),
		"failed", summary.FailedCount())

	return summary, nil
}

// apply merges or writes one artifact and reports the outcome.
func (l *Linker) apply(ctx context.Context, a emit.Artifact, rootExists bool, collector *tamererrors.ErrorCollector) Result {
	result := Result{Platform: a.Platform, Kind: a.Kind, Path: a.TargetPath}

	var err error
	switch {
	case !rootExists:
		result.Outcome = merge.OutcomeSkippedMissing
	case a.Owned:
		result.Outcome, err = merge.WriteOwned(a.TargetPath, a.Body)
	default:
		result.Outcome, err = merge.MergeFile(a.TargetPath, a.StartMarker, a.EndMarker, a.Body)
	}

	if err != nil {
		werr := tamererrors.ErrWriteFailed(a.TargetPath, err)
		l.logger.Error(ctx, werr, "Failed to update file", "path", a.TargetPath)
		collector.AddError(werr)
		result.Err = werr
		return result
	}

	switch result.Outcome {
	case merge.OutcomeAppended:
		w := tamererrors.ErrMarkersMissing(a.TargetPath)
		l.logger.Warn(ctx, w, "Autolink markers not found, appended a new section", "path", a.TargetPath)
		collector.Warn(w)
	case merge.OutcomeSkippedMissing:
		if rootExists {
			w := tamererrors.ErrTargetMissing(a.TargetPath)
			l.logger.Warn(ctx, w, "File not found, skipping update", "path", a.TargetPath)
			collector.Warn(w)
		}
	default:
		l.logger.Debug(ctx, "Updated file", "path", a.TargetPath, "outcome", result.Outcome.String())
	}
	return result
}

// reconcile drops every package whose sanitized identifier was already
// claimed by an earlier package, since both would otherwise produce the same
// build target.
func reconcile(ctx context.Context, descriptors []*types.ModuleDescriptor, logger logging.Logger, collector *tamererrors.ErrorCollector) []*types.ModuleDescriptor {
	owners := make(map[string]string, len(descriptors))
	kept := make([]*types.ModuleDescriptor, 0, len(descriptors))

	for _, d := range descriptors {
		id := naming.Sanitize(d.Name)
		if other, taken := owners[id]; taken {
			err := tamererrors.ErrNameCollision(d.Name, other, id)
			logger.Warn(ctx, err, "Skipping package with colliding identifier",
				"package", d.Name, "identifier", id, "kept", other)
			if collector != nil {
				collector.Warn(err)
			}
			continue
		}
		owners[id] = d.Name
		kept = append(kept, d)
	}
	return kept
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
