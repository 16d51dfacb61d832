package alert

import (
	"strings"
	"testing"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr bool
		errMsg  string
	}{
		{
			name:   "empty record",
			record: Record{},
		},
		{
			name: "all fields at limits",
			record: Record{
				Message:       strings.Repeat("a", MaxMessageSize),
				Title:         strings.Repeat("t", MaxTitleLength),
				Severity:      strings.Repeat("s", MaxSeverityLength),
				Description:   strings.Repeat("d", MaxDescriptionLen),
				MentionUserID: strings.Repeat("1", MaxMentionIDLength),
			},
		},
		{
			name:    "oversized message",
			record:  Record{Message: strings.Repeat("a", MaxMessageSize+1)},
			wantErr: true,
			errMsg:  "message exceeds",
		},
		{
			name:    "oversized title",
			record:  Record{Title: strings.Repeat("t", MaxTitleLength+1)},
			wantErr: true,
			errMsg:  "title exceeds",
		},
		{
			name:    "oversized severity",
			record:  Record{Severity: strings.Repeat("s", MaxSeverityLength+1)},
			wantErr: true,
			errMsg:  "severity exceeds",
		},
		{
			name:    "oversized description",
			record:  Record{Description: strings.Repeat("d", MaxDescriptionLen+1)},
			wantErr: true,
			errMsg:  "description exceeds",
		},
		{
			name:    "oversized mention",
			record:  Record{MentionUserID: strings.Repeat("1", MaxMentionIDLength+1)},
			wantErr: true,
			errMsg:  "mention user ID exceeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRecordValidateDefaultSeverity(t *testing.T) {
	rec := Record{Message: "disk full"}
	if err := rec.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Severity != DefaultSeverity {
		t.Errorf("Severity = %q, want %q", rec.Severity, DefaultSeverity)
	}

	rec = Record{Severity: "critical"}
	if err := rec.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Severity != "critical" {
		t.Errorf("Severity = %q, want unchanged", rec.Severity)
	}
}
