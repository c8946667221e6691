package manifest

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrManifest = errors.New("invalid manifest")

// Default manifest file name, looked up in the working directory.
const DefaultFile = "shipwright.yaml"

// Project configuration for the orchestrator.
//
// All fields are optional; [Default] provides a working configuration for a
// cargo/tauri project, and a manifest file overrides only what it declares.
type Manifest struct {
	// Product name stamped into artifact file names.
	Product string `yaml:"product"`

	// Version pinned by the project. Overridden by --version; when both are
	// absent the resolver falls back to git tags.
	Version string `yaml:"version"`

	// Directory that receives built binaries, artifacts, and run reports.
	Output string `yaml:"output"`

	// Workflow tool command lines, keyed by command name (dev, check, fmt,
	// lint, test).
	Tools map[string][]string `yaml:"tools"`

	// Build tool invocation, run once per target.
	Build Build `yaml:"build"`

	// Packaging tool command lines, keyed by package format.
	Packagers map[string][]string `yaml:"packagers"`

	// Code-signing configuration for macos/windows targets.
	Signing Signing `yaml:"signing"`

	// Publish destinations, tried independently per artifact.
	Publish []Destination `yaml:"publish"`

	// Maximum number of targets processed in parallel.
	Concurrency int `yaml:"concurrency"`

	// Per-stage timeouts. Zero means no timeout.
	Timeouts Timeouts `yaml:"timeouts"`
}

// External build tool invocation.
type Build struct {
	Command []string          `yaml:"command"`
	Env     map[string]string `yaml:"env"`
}

// Code-signing collaborator configuration.
//
// IdentityEnv names the environment variable holding the signing identity.
// Only its presence is ever checked; the value is passed through to the
// signing tool and never logged.
type Signing struct {
	Command     []string `yaml:"command"`
	IdentityEnv string   `yaml:"identity_env"`
	Optional    bool     `yaml:"optional"`
}

// One publish destination.
//
// Type selects the collaborator: "dir" copies into Path, "s3" uploads to
// Bucket/Prefix, "command" runs Command with the artifact path appended.
type Destination struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Path    string   `yaml:"path"`
	Bucket  string   `yaml:"bucket"`
	Prefix  string   `yaml:"prefix"`
	Region  string   `yaml:"region"`
	Command []string `yaml:"command"`
}

// Per-stage timeouts.
type Timeouts struct {
	Build   Duration `yaml:"build"`
	Package Duration `yaml:"package"`
	Sign    Duration `yaml:"sign"`
	Publish Duration `yaml:"publish"`
}

// Duration parses from YAML as a Go duration string (e.g. "30m").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("%w: %w", ErrManifest, err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: bad duration %q: %w", ErrManifest, s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Returns the baseline configuration for a cargo/tauri desktop project.
func Default() *Manifest {
	return &Manifest{
		Product: "product",
		Output:  "dist",
		Tools: map[string][]string{
			"dev":   {"cargo", "tauri", "dev"},
			"check": {"cargo", "check", "--all"},
			"fmt":   {"cargo", "fmt", "--all"},
			"lint":  {"cargo", "clippy", "--all", "--", "-D", "warnings"},
			"test":  {"cargo", "test", "--all"},
		},
		Build: Build{
			Command: []string{"cargo", "tauri", "build"},
			Env:     map[string]string{"TAURI_SKIP_WEBVIEW_DOWNLOAD": "false"},
		},
		Packagers: map[string][]string{
			"deb":     {"shipwright-pack", "--format=deb"},
			"rpm":     {"shipwright-pack", "--format=rpm"},
			"dmg":     {"shipwright-pack", "--format=dmg"},
			"msi":     {"shipwright-pack", "--format=msi"},
			"exe":     {"shipwright-pack", "--format=exe"},
			"tarball": {"shipwright-pack", "--format=tarball"},
		},
		Signing: Signing{
			Command:     []string{"shipwright-sign"},
			IdentityEnv: "SHIPWRIGHT_SIGNING_IDENTITY",
		},
		Concurrency: 4,
	}
}

// Loads the manifest at path, overlaying it on the defaults.
//
// An empty path means [DefaultFile] in the working directory; a missing
// default file is not an error and yields the defaults unchanged. An
// explicitly named file must exist.
func Load(path string) (*Manifest, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	m := Default()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrManifest, path, err)
	}
	if m.Concurrency < 1 {
		m.Concurrency = 1
	}
	return m, nil
}
