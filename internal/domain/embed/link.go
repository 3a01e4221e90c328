package embed

import (
	"fmt"
	"net/url"
	"strings"
)

const linkFragment = "bordered=true&titled=true"

// NormalizeSiteHost strips a scheme and trailing slashes from a configured
// Metabase site so it can be placed after "https://".
func NormalizeSiteHost(site string) string {
	site = strings.TrimSpace(site)
	site = strings.TrimPrefix(site, "https://")
	site = strings.TrimPrefix(site, "http://")
	return strings.TrimRight(site, "/")
}

// FormatLink builds the iframe URL for a signed dashboard token.
func FormatLink(host, token string) (string, error) {
	if host == "" || token == "" {
		return "", fmt.Errorf("%w: empty host or token", ErrResponseConstruction)
	}

	link := fmt.Sprintf("https://%s/embed/dashboard/%s#%s", host, token, linkFragment)
	if _, err := url.Parse(link); err != nil {
		return "", fmt.Errorf("%w: %w", ErrResponseConstruction, err)
	}

	return link, nil
}
