package cache

import (
	"strings"

	"github.com/matzehuels/repometa/pkg/errors"
)

// Separator joins owner and repository name in a cache key.
const Separator = "__"

// Key derives the cache key for owner/name.
//
// Owners follow the GitHub owner grammar, which has no underscores, so the
// first Separator in a key always ends the owner. Repository names may
// contain the separator without making two keys collide.
func Key(owner, name string) (string, error) {
	if err := errors.ValidateOwner(owner); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidKey, err, "cache key owner")
	}
	if err := errors.ValidateRepoName(name); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidKey, err, "cache key repo")
	}
	return owner + Separator + name, nil
}

// SplitKey is the inverse of [Key]. It reports false for anything [Key]
// could not have produced.
func SplitKey(key string) (owner, name string, ok bool) {
	owner, name, ok = strings.Cut(key, Separator)
	if !ok {
		return "", "", false
	}
	if _, err := Key(owner, name); err != nil {
		return "", "", false
	}
	return owner, name, true
}
