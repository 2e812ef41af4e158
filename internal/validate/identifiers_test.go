package validate

import (
	"strings"
	"testing"
)

func TestMACAddress(t *testing.T) {
	tests := []struct {
		input       string
		expectError bool
	}{
		{input: "aa:bb:cc:dd:ee:ff"},
		{input: "AA:BB:CC:DD:EE:FF"},
		{input: "aabbccddeeff"},
		{input: "aa-bb-cc-dd-ee-ff", expectError: true},
		{input: "aa:bb:cc:dd:ee", expectError: true},
		{input: "aa:bb:cc:dd:ee:ff:00:11", expectError: true},
		{input: "gg:bb:cc:dd:ee:ff", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := MACAddress("mac_addr", tt.input)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for '%s', got none", tt.input)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for '%s': %v", tt.input, err)
			}
		})
	}
}

func TestTimezone(t *testing.T) {
	valid := []string{"UTC", "Europe/Paris", "America/New_York", "Asia/Kolkata"}
	for _, tz := range valid {
		if err := Timezone(tz); err != nil {
			t.Errorf("Unexpected error for '%s': %v", tz, err)
		}
	}

	invalid := []string{"", "Mars/Olympus", "Local", "europe/paris2"}
	for _, tz := range invalid {
		if err := Timezone(tz); err == nil {
			t.Errorf("Expected error for '%s', got none", tz)
		}
	}
}

func TestEmail(t *testing.T) {
	if err := Email("ops@example.com"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	for _, bad := range []string{"", "ops", "ops@", "@example.com", "ops example@com"} {
		if err := Email(bad); err == nil {
			t.Errorf("Expected error for '%s', got none", bad)
		}
	}
	if got := EmailDomain("ops@example.com"); got != "example.com" {
		t.Errorf("Expected domain 'example.com', got '%s'", got)
	}
}

func TestAgePublicKey(t *testing.T) {
	good := "age1" + strings.Repeat("q", 58)
	if err := AgePublicKey(good); err != nil {
		t.Errorf("Unexpected error for well-formed key: %v", err)
	}

	tests := []string{
		"age2xyz",
		"age1" + strings.Repeat("q", 57),
		"age1" + strings.Repeat("Q", 58),
		"",
	}
	for _, key := range tests {
		err := AgePublicKey(key)
		if err == nil {
			t.Errorf("Expected error for '%s', got none", key)
			continue
		}
		if key != "" && strings.Contains(err.Error(), key) {
			t.Errorf("Error message leaks key material: %s", err.Error())
		}
	}
}

func TestWebhookToken(t *testing.T) {
	if err := WebhookToken("abc123XYZ"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	secret := "s3cr3t-with-dash"
	err := WebhookToken(secret)
	if err == nil {
		t.Fatal("Expected error for token with punctuation, got none")
	}
	if strings.Contains(err.Error(), secret) {
		t.Errorf("Error message leaks token: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "***") {
		t.Errorf("Expected redacted value in message, got: %s", err.Error())
	}
}

func TestSchematicID(t *testing.T) {
	if err := SchematicID("schematic_id", strings.Repeat("ab", 32)); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	for _, bad := range []string{strings.Repeat("ab", 31), strings.Repeat("AB", 32), ""} {
		if err := SchematicID("schematic_id", bad); err == nil {
			t.Errorf("Expected error for '%s', got none", bad)
		}
	}
}
