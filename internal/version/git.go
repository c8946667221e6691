package version

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Returns the highest semantic-version tag reachable in the repository
// enclosing dir.
//
// Tags that do not parse as semantic versions (release branches, CI
// markers) are ignored. An error is returned when no repository is found
// or no tag parses.
func highestTag(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("no git repository at %q: %w", dir, err)
	}

	tags, err := repo.Tags()
	if err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}

	var highest *semver.Version
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		v, err := semver.NewVersion(ref.Name().Short())
		if err != nil {
			return nil // Not a version tag.
		}
		if highest == nil || v.GreaterThan(highest) {
			highest = v
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}

	if highest == nil {
		return "", errors.New("repository has no semantic-version tags")
	}
	return highest.Original(), nil
}
