package target

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTarget = errors.New("invalid target")

// Operating system an artifact is built for.
type Platform string

const (
	Linux   Platform = "linux"
	MacOS   Platform = "macos"
	Windows Platform = "windows"
)

// CPU architecture an artifact is built for.
type Arch string

const (
	X8664   Arch = "x86_64"
	Aarch64 Arch = "aarch64"
)

// Installer package format.
type Format string

const (
	Deb     Format = "deb"
	RPM     Format = "rpm"
	DMG     Format = "dmg"
	MSI     Format = "msi"
	Exe     Format = "exe"
	Tarball Format = "tarball"
)

// Platforms in their canonical (alphabetical) order.
var platforms = []Platform{Linux, MacOS, Windows}

// Architectures in their canonical (alphabetical) order.
var arches = []Arch{Aarch64, X8664}

// Formats produced for each platform when no explicit format is requested.
// Order within a platform is fixed so resolved matrices are stable.
var defaultFormats = map[Platform][]Format{
	Linux:   {Deb, RPM, Tarball},
	MacOS:   {DMG, Tarball},
	Windows: {Exe, MSI},
}

// Formats that are valid for each platform. A superset of the defaults:
// tarball is accepted everywhere.
var validFormats = map[Platform]map[Format]bool{
	Linux:   {Deb: true, RPM: true, Tarball: true},
	MacOS:   {DMG: true, Tarball: true},
	Windows: {Exe: true, MSI: true, Tarball: true},
}

// One (platform, architecture, package format) combination to build for.
// Immutable once constructed through [New].
type Target struct {
	Platform Platform `json:"platform"`
	Arch     Arch     `json:"arch"`
	Format   Format   `json:"format"`
}

// Constructs a target, rejecting unknown components and platform/format
// mismatches with [ErrInvalidTarget].
func New(platform Platform, arch Arch, format Format) (Target, error) {
	if _, ok := validFormats[platform]; !ok {
		return Target{}, fmt.Errorf("%w: unknown platform %q", ErrInvalidTarget, platform)
	}
	if arch != X8664 && arch != Aarch64 {
		return Target{}, fmt.Errorf("%w: unknown architecture %q", ErrInvalidTarget, arch)
	}
	if !validFormats[platform][format] {
		return Target{}, fmt.Errorf("%w: format %q is not valid for platform %q", ErrInvalidTarget, format, platform)
	}
	return Target{Platform: platform, Arch: arch, Format: format}, nil
}

// Returns the "<platform>-<arch>.<format>" identifier used in logs and
// report output.
func (t Target) String() string {
	return fmt.Sprintf("%s-%s.%s", t.Platform, t.Arch, t.Format)
}

// Whether artifacts for this target's platform require code signing.
func (t Target) Signable() bool {
	return t.Platform == MacOS || t.Platform == Windows
}

// Parses a "<platform>-<arch>" selector as passed to --target.
func ParseSelector(s string) (Platform, Arch, error) {
	platform, arch, ok := strings.Cut(s, "-")
	if !ok {
		return "", "", fmt.Errorf("%w: selector %q is not <platform>-<arch>", ErrInvalidTarget, s)
	}
	p := Platform(platform)
	if _, ok := validFormats[p]; !ok {
		return "", "", fmt.Errorf("%w: unknown platform %q", ErrInvalidTarget, platform)
	}
	a := Arch(arch)
	if a != X8664 && a != Aarch64 {
		return "", "", fmt.Errorf("%w: unknown architecture %q", ErrInvalidTarget, arch)
	}
	return p, a, nil
}
