package workspace

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lcpu-club/openvscode-farm/internal/config"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
)

// BuildRedirectURL substitutes every {port} and {token} in template
// literally and parses the result as an absolute URL.
func BuildRedirectURL(template, port, secret string) (*url.URL, error) {
	raw := strings.ReplaceAll(template, config.PortPlaceholder, port)
	raw = strings.ReplaceAll(raw, config.TokenPlaceholder, secret)

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.URLBuildFailed(err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.URLBuildFailed(fmt.Errorf("not an absolute url: %q", raw))
	}
	return u, nil
}
