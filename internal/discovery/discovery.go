package discovery

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"bam/internal/domain"
)

// Marker files that turn a directory under the apps dir into an app
const (
	procfileName = "Procfile"
	indexName    = "index.html"
)

// Source describes where apps come from
type Source struct {
	AppsDir string
	Aliases map[string]int
}

// Service finds the apps to list
type Service interface {
	Discover() []domain.App
}

// discoveryService is the concrete implementation
type discoveryService struct {
	src    Source
	logger *zap.Logger
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(src Source, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &discoveryService{src: src, logger: logger}
}

// Discover registers aliases, then Procfile apps, then static apps. When two
// definitions share a name the first one registered wins. The result is
// sorted by name.
func (ds *discoveryService) Discover() []domain.App {
	seen := make(map[string]bool)
	var apps []domain.App

	register := func(a domain.App) {
		if seen[a.Name] {
			ds.logger.Debug("Skipping duplicate app",
				zap.String("name", a.Name),
				zap.String("kind", string(a.Kind)))
			return
		}
		seen[a.Name] = true
		apps = append(apps, a)
	}

	aliasNames := make([]string, 0, len(ds.src.Aliases))
	for name := range ds.src.Aliases {
		aliasNames = append(aliasNames, name)
	}
	sort.Strings(aliasNames)
	for _, name := range aliasNames {
		register(domain.App{Name: name, Port: ds.src.Aliases[name], Kind: domain.KindAlias})
	}

	for _, a := range ds.scanDir(procfileName, domain.KindProcess) {
		register(a)
	}
	for _, a := range ds.scanDir(indexName, domain.KindStatic) {
		register(a)
	}

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].Name < apps[j].Name
	})

	ds.logger.Info("Discovered apps",
		zap.String("apps_dir", ds.src.AppsDir),
		zap.Int("count", len(apps)))
	return apps
}

// scanDir returns an app for every direct subdirectory of the apps dir that
// contains marker
func (ds *discoveryService) scanDir(marker string, kind domain.AppKind) []domain.App {
	if ds.src.AppsDir == "" {
		return nil
	}

	entries, err := os.ReadDir(ds.src.AppsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ds.logger.Debug("Apps directory does not exist", zap.String("dir", ds.src.AppsDir))
		} else {
			ds.logger.Warn("Failed to read apps directory",
				zap.String("dir", ds.src.AppsDir),
				zap.Error(err))
		}
		return nil
	}

	var apps []domain.App
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(ds.src.AppsDir, e.Name())
		info, err := os.Stat(filepath.Join(dir, marker))
		if err != nil || info.IsDir() {
			continue
		}
		apps = append(apps, domain.App{
			Name: strings.ToLower(e.Name()),
			Kind: kind,
			Dir:  dir,
		})
	}
	return apps
}
