package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/red-maple-labs/proxherald/internal/alert"
)

// Embed accent colors by severity.
const (
	colorCritical = 0xE74C3C // red
	colorWarning  = 0xE67E22 // orange
	colorInfo     = 0x5865F2 // blurple
)

// Default embed text when the alert omits it.
const (
	defaultTitle       = "Proxmox Alert"
	defaultDescription = "A new alert was received from Proxmox."
)

// Message is the Discord webhook payload.
type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds"`
}

// Embed is a Discord rich embed.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedField is a name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// BuildMessage maps a validated alert record and the archived log's retrieval
// URL into the Discord message schema. It is deterministic given its inputs
// and cannot fail: missing optional fields fall back to defaults, and the
// embed timestamp comes from the caller's clock.
func BuildMessage(record *alert.Record, logURL string, now time.Time) Message {
	title := record.Title
	if title == "" {
		title = defaultTitle
	}

	description := record.Description
	if description == "" {
		description = defaultDescription
	}

	embed := Embed{
		Title:       title,
		Description: description,
		Color:       severityColor(record.Severity),
		Timestamp:   now.UTC().Format(time.RFC3339),
		Fields: []EmbedField{
			{Name: "Severity", Value: severityLabel(record.Severity), Inline: true},
			{Name: "Full Log", Value: logURL},
		},
	}

	msg := Message{Embeds: []Embed{embed}}
	if record.MentionUserID != "" {
		msg.Content = fmt.Sprintf("<@%s>", record.MentionUserID)
	}
	return msg
}

// severityColor returns the embed accent color for a severity tag.
func severityColor(severity string) int {
	switch strings.ToLower(severity) {
	case "critical", "error", "fatal":
		return colorCritical
	case "warning", "warn":
		return colorWarning
	default:
		return colorInfo
	}
}

func severityLabel(severity string) string {
	if severity == "" {
		return strings.ToUpper(alert.DefaultSeverity)
	}
	return strings.ToUpper(severity)
}
