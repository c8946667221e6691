package target

import (
	"fmt"
	"sort"
)

// Ordered sequence of unique targets for one pipeline run.
//
// The order is deterministic: platform, then architecture, then format,
// each alphabetical. Report output and artifact listings therefore stay
// diff-friendly across runs.
type Matrix []Target

// Narrows the matrix produced by [Resolve].
//
// Selectors restrict the platform/architecture pairs; Format restricts the
// package format. Zero values leave the corresponding dimension unfiltered.
type Filter struct {
	Selectors []Selector
	Format    Format
}

// One requested platform/architecture pair, as parsed from --target.
type Selector struct {
	Platform Platform
	Arch     Arch
}

// Expands the requested targets into a validated, deterministically ordered
// matrix.
//
// Explicit targets are validated and ordered as-is after de-duplication
// checks. With no explicit targets the full cross-product of platforms,
// architectures, and per-platform default formats is generated, then the
// filter is applied. An empty result, a duplicate tuple, or any
// platform/format mismatch fails with [ErrInvalidTarget].
func Resolve(explicit []Target, filter Filter) (Matrix, error) {
	var m Matrix
	if len(explicit) > 0 {
		for _, t := range explicit {
			validated, err := New(t.Platform, t.Arch, t.Format)
			if err != nil {
				return nil, err
			}
			m = append(m, validated)
		}
	} else {
		m = expand(filter)
	}

	sort.Slice(m, func(i, j int) bool {
		if m[i].Platform != m[j].Platform {
			return m[i].Platform < m[j].Platform
		}
		if m[i].Arch != m[j].Arch {
			return m[i].Arch < m[j].Arch
		}
		return m[i].Format < m[j].Format
	})

	seen := make(map[Target]bool, len(m))
	for _, t := range m {
		if seen[t] {
			return nil, fmt.Errorf("%w: duplicate target %s", ErrInvalidTarget, t)
		}
		seen[t] = true
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("%w: no targets match the requested filters", ErrInvalidTarget)
	}
	return m, nil
}

// Generates the filtered cross-product of known platforms, architectures,
// and their default formats.
func expand(filter Filter) Matrix {
	var m Matrix
	for _, platform := range platforms {
		for _, arch := range arches {
			if !filter.matches(platform, arch) {
				continue
			}
			for _, format := range defaultFormats[platform] {
				if filter.Format != "" && format != filter.Format {
					continue
				}
				m = append(m, Target{Platform: platform, Arch: arch, Format: format})
			}
		}
	}
	return m
}

// Whether a platform/architecture pair passes the selector list. An empty
// selector list matches everything.
func (f Filter) matches(platform Platform, arch Arch) bool {
	if len(f.Selectors) == 0 {
		return true
	}
	for _, s := range f.Selectors {
		if s.Platform == platform && s.Arch == arch {
			return true
		}
	}
	return false
}
