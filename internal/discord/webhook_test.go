package discord

import (
	"errors"
	"testing"
)

func TestValidateWebhookURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name: "canonical discord.com webhook",
			url:  "https://discord.com/api/webhooks/123456/token",
		},
		{
			name: "canonical discordapp.com webhook",
			url:  "https://discordapp.com/api/webhooks/123456/token",
		},
		{
			name: "discord subdomain",
			url:  "https://ptb.discord.com/api/webhooks/123456/token",
		},
		{
			name: "discordapp subdomain",
			url:  "https://canary.discordapp.com/api/webhooks/123456/token",
		},
		{
			name:    "plain http rejected",
			url:     "http://discord.com/api/webhooks/x",
			wantErr: true,
		},
		{
			name:    "wrong host rejected",
			url:     "https://evil.com/api/webhooks/x",
			wantErr: true,
		},
		{
			name:    "host suffix trick rejected",
			url:     "https://evildiscord.com/api/webhooks/x",
			wantErr: true,
		},
		{
			name:    "wrong path rejected",
			url:     "https://discord.com/api/other/x",
			wantErr: true,
		},
		{
			name:    "discord host in path rejected",
			url:     "https://evil.com/discord.com/api/webhooks/x",
			wantErr: true,
		},
		{
			name:    "empty URL rejected",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWebhookURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateWebhookURL(%q) = nil, want error", tt.url)
				}
				if !errors.Is(err, ErrInvalidWebhook) {
					t.Errorf("error = %v, want ErrInvalidWebhook", err)
				}
			} else if err != nil {
				t.Errorf("ValidateWebhookURL(%q) = %v, want nil", tt.url, err)
			}
		})
	}
}
