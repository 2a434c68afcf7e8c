package github

import (
	"strings"

	"github.com/matzehuels/repometa/pkg/errors"
)

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := errors.ValidateOwner(owner); err != nil {
		return err
	}
	return errors.ValidateRepoName(repo)
}

// ParseRepoRef parses an "owner/repo" string and validates both parts.
// Returns owner, repo, and any validation error.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "invalid repo %q: use owner/repo", ref)
	}
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}
