// Package specload is the adapter between the OCI config.json on disk and
// the handful of fields the fork coordinator actually reads. It decodes
// into the real github.com/opencontainers/runtime-spec structs rather than
// hand-rolling the schema, and projects out a narrower Config the rest of
// the core consumes so unrecognized fields are silently ignored, per §6.
package specload

import (
	"encoding/json"
	"os"
	"path/filepath"

	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/nestybox/ocirun/internal/runcerr"
)

// FileName is the bundle-relative name of the OCI configuration file.
const FileName = "config.json"

// NamespaceSpec is {type, path} as described by linux.namespaces.
type NamespaceSpec struct {
	Type specs.LinuxNamespaceType
	Path string
}

// Config is the projection of config.json the core depends on.
type Config struct {
	Args          []string
	RootPath      string
	Namespaces    []NamespaceSpec
	OOMScoreAdj   *int
	Raw           *specs.Spec
}

// Load reads <bundleDir>/config.json and projects it to a Config. root.path
// is resolved relative to bundleDir and made absolute.
func Load(bundleDir string) (*Config, error) {
	path := filepath.Join(bundleDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, runcerr.Wrapf(runcerr.Spec, err, "reading %s", path)
	}

	var spec specs.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, runcerr.Wrapf(runcerr.Spec, err, "parsing %s", path)
	}

	if spec.Process == nil || len(spec.Process.Args) == 0 {
		return nil, runcerr.Newf(runcerr.Spec, "%s: process.args must be a non-empty list", path)
	}
	if spec.Root == nil || spec.Root.Path == "" {
		return nil, runcerr.Newf(runcerr.Spec, "%s: root.path is required", path)
	}

	rootPath := spec.Root.Path
	if !filepath.IsAbs(rootPath) {
		rootPath = filepath.Join(bundleDir, rootPath)
	}
	rootPath, err = filepath.Abs(rootPath)
	if err != nil {
		return nil, runcerr.Wrapf(runcerr.Spec, err, "resolving root.path in %s", path)
	}

	cfg := &Config{
		Args:     append([]string(nil), spec.Process.Args...),
		RootPath: rootPath,
		Raw:      &spec,
	}

	if spec.Linux != nil {
		for _, ns := range spec.Linux.Namespaces {
			cfg.Namespaces = append(cfg.Namespaces, NamespaceSpec{Type: ns.Type, Path: ns.Path})
		}
		if spec.Linux.Resources != nil {
			cfg.OOMScoreAdj = spec.Linux.Resources.OOMScoreAdj
		}
	}

	return cfg, nil
}

// HasNamespace reports whether typ is requested, and if so whether it joins
// an existing namespace (path != "").
func (c *Config) HasNamespace(typ specs.LinuxNamespaceType) (ns NamespaceSpec, ok bool) {
	for _, n := range c.Namespaces {
		if n.Type == typ {
			return n, true
		}
	}
	return NamespaceSpec{}, false
}
