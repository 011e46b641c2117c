package nsrun

import (
	"encoding/json"
	"io"
	"os"

	"github.com/nestybox/ocirun/internal/runcerr"
	"github.com/nestybox/ocirun/internal/specload"
)

// BootstrapConfig is the data a re-exec'd stage needs but cannot inherit
// from Go heap state, since exec() replaces the process image. It travels
// down a dedicated pipe, one per stage, as JSON.
type BootstrapConfig struct {
	Args          []string                 `json:"args"`
	RootPath      string                   `json:"rootPath"`
	ContainerRoot string                   `json:"containerRoot"`
	ContainerID   string                   `json:"containerId"`
	Namespaces    []specload.NamespaceSpec `json:"namespaces"`
	OOMScoreAdj   *int                     `json:"oomScoreAdj,omitempty"`
	ConsoleSocket string                   `json:"consoleSocket,omitempty"`
	BootstrapID   string                   `json:"bootstrapId"`
}

func writeBootstrap(w *os.File, cfg *BootstrapConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		w.Close()
		return runcerr.Wrap(runcerr.Io, err, "encoding bootstrap config")
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return runcerr.Wrap(runcerr.Io, err, "writing bootstrap config")
	}
	return w.Close()
}

func readBootstrap(r *os.File) (*BootstrapConfig, error) {
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, runcerr.Wrap(runcerr.Io, err, "reading bootstrap config")
	}
	var cfg BootstrapConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, runcerr.Wrap(runcerr.Io, err, "decoding bootstrap config")
	}
	return &cfg, nil
}
