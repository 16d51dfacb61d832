// Package alert defines the inbound alert record and its validation rules.
package alert

import "fmt"

// Field size limits. MaxMessageSize bounds disk usage per archived alert.
const (
	MaxMessageSize     = 10 * 1024 * 1024 // 10 MiB
	MaxTitleLength     = 256
	MaxSeverityLength  = 50
	MaxDescriptionLen  = 4096
	MaxMentionIDLength = 32
)

// DefaultSeverity is applied when the request omits a severity tag.
const DefaultSeverity = "info"

// Record is one inbound alert notification. It is immutable after Validate.
type Record struct {
	// WebhookURL optionally overrides the configured default Discord webhook.
	WebhookURL string `json:"discord_webhook,omitempty"`
	// Message is the raw alert text that gets archived verbatim.
	Message string `json:"message,omitempty"`
	Title   string `json:"title,omitempty"`
	// Severity selects the embed accent color. Defaults to "info".
	Severity    string `json:"severity,omitempty"`
	Description string `json:"discord_description,omitempty"`
	// MentionUserID is a Discord user ID to mention in the message content.
	MentionUserID string `json:"mention_user_id,omitempty"`
}

// Validate checks field size limits and applies the severity default.
func (r *Record) Validate() error {
	if len(r.Message) > MaxMessageSize {
		return fmt.Errorf("message exceeds maximum size of %d bytes", MaxMessageSize)
	}
	if len(r.Title) > MaxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d", MaxTitleLength)
	}
	if len(r.Severity) > MaxSeverityLength {
		return fmt.Errorf("severity exceeds maximum length of %d", MaxSeverityLength)
	}
	if len(r.Description) > MaxDescriptionLen {
		return fmt.Errorf("description exceeds maximum length of %d", MaxDescriptionLen)
	}
	if len(r.MentionUserID) > MaxMentionIDLength {
		return fmt.Errorf("mention user ID exceeds maximum length of %d", MaxMentionIDLength)
	}
	if r.Severity == "" {
		r.Severity = DefaultSeverity
	}
	return nil
}
