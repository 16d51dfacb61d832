// Package discord provides Discord webhook validation, payload building,
// and notification delivery.
package discord

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidWebhook is returned when a candidate webhook URL is not a
// legitimate Discord webhook target. Validation runs before any network
// call to prevent server-side request forgery.
var ErrInvalidWebhook = errors.New("invalid Discord webhook URL")

// webhookPathPrefix is the canonical Discord webhook path.
const webhookPathPrefix = "/api/webhooks/"

// webhookDomains are the canonical Discord domains. Subdomains are accepted.
var webhookDomains = []string{"discord.com", "discordapp.com"}

// ValidateWebhookURL accepts a URL only if it uses HTTPS, targets the
// canonical webhook path, and points at a Discord domain or subdomain.
func ValidateWebhookURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	if parsed.Scheme != "https" {
		return fmt.Errorf("%w: must use HTTPS", ErrInvalidWebhook)
	}

	if !strings.HasPrefix(parsed.Path, webhookPathPrefix) {
		return fmt.Errorf("%w: path must start with %s", ErrInvalidWebhook, webhookPathPrefix)
	}

	host := parsed.Hostname()
	for _, domain := range webhookDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}
	return fmt.Errorf("%w: host must be a Discord domain", ErrInvalidWebhook)
}
