package errors

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen.
	// Underscores are never valid, which cache keys rely on.
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner validates a GitHub user or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return New(ErrCodeInvalidInput, "owner is required")
	}
	if !validOwner.MatchString(owner) {
		return New(ErrCodeInvalidInput, "invalid owner %q: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen", owner)
	}
	return nil
}

// ValidateRepoName validates a GitHub repository name.
func ValidateRepoName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "repo is required")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "invalid repo %q", name)
	}
	if !validRepo.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid repo %q: must be 1-100 alphanumeric characters, hyphens, underscores, or dots", name)
	}
	return nil
}

// ValidateDocumentName validates a documentation filename requested from a
// repository. It must be a simple relative path without traversal.
func ValidateDocumentName(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}
	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid characters")
		}
	}
	if strings.HasPrefix(filename, "/") {
		return New(ErrCodeInvalidInput, "filename must be relative (cannot start with /)")
	}
	if strings.Contains(filename, "..") || strings.Contains(filename, "\\") {
		return New(ErrCodeInvalidInput, "filename cannot contain path traversal sequences")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
