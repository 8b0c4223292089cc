package gitutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var repoURLRegex = regexp.MustCompile(`github\.com/([^/]+)/([^/]+?)(?:\.git)?$`)

// ParseRepoURL extracts the owner and repository name from a GitHub remote URL.
// Supported format: https://github.com/{owner}/{repo}[.git]
func ParseRepoURL(repoURL string) (owner, name string, err error) {
	repoURL = strings.TrimSuffix(repoURL, "/")

	matches := repoURLRegex.FindStringSubmatch(repoURL)
	if len(matches) != 3 {
		return "", "", fmt.Errorf("invalid repository URL format: %s", repoURL)
	}
	return matches[1], matches[2], nil
}

// AuthenticatedURL embeds a credential into an HTTPS remote URL as userinfo.
// The returned URL must not be logged.
func AuthenticatedURL(repoURL, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("source-control token is not configured")
	}

	if !strings.HasPrefix(repoURL, "https://") && !strings.HasPrefix(repoURL, "http://") {
		return "", fmt.Errorf("invalid repository URL: %s", repoURL)
	}

	parsedURL, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse repository URL '%s': %w", repoURL, err)
	}
	parsedURL.User = url.UserPassword("x-access-token", token)
	return parsedURL.String(), nil
}
