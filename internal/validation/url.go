package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// APIURLValidator checks the base URL the media API client is pointed at.
type APIURLValidator struct {
	// AllowInsecure permits plain http for hosts other than loopback.
	AllowInsecure bool
	// AllowPrivateIPs permits RFC1918 and link-local addresses.
	AllowPrivateIPs bool
	MaxLength       int
}

// NewAPIURLValidator returns a validator that requires https for remote
// hosts. Loopback hosts are always allowed so local proxies and test
// servers work without extra configuration.
func NewAPIURLValidator() *APIURLValidator {
	return &APIURLValidator{
		AllowInsecure:   false,
		AllowPrivateIPs: false,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize validates a base URL and returns it without a
// trailing slash, ready for endpoint paths to be appended.
func (v *APIURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return "", fmt.Errorf("base URL must not carry a query or fragment")
	}
	if strings.Contains(parsedURL.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	hostname := parsedURL.Hostname()
	loopback := isLoopback(hostname)

	if parsedURL.Scheme == "http" && !loopback && !v.AllowInsecure {
		return "", fmt.Errorf("plain http is only allowed for loopback hosts")
	}

	if !v.AllowPrivateIPs && !loopback {
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return "", fmt.Errorf("private IP addresses are not permitted")
		}
	}

	parsedURL.Path = strings.TrimRight(parsedURL.Path, "/")
	return parsedURL.String(), nil
}

func isLoopback(hostname string) bool {
	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return true
	}
	ip := net.ParseIP(hostname)
	return ip != nil && ip.IsLoopback()
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
