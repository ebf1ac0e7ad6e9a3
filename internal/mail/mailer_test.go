package mail

import "testing"

func TestNew_DevModeWithoutCredentials(t *testing.T) {
	t.Parallel()

	m := New(Config{Host: "smtp.example.com", Port: "587"})
	if !m.devMode {
		t.Fatalf("expected dev mode when no credentials are configured")
	}
	// Dev mode never dials out, so sending must succeed.
	if err := m.SendPasswordResetOTP("meera@example.com", "123456"); err != nil {
		t.Fatalf("dev-mode send: %v", err)
	}
}

func TestNew_FromFallsBackToUsername(t *testing.T) {
	t.Parallel()

	m := New(Config{Username: "sender@example.com", Password: "pw"})
	if m.cfg.From != "sender@example.com" {
		t.Fatalf("from fallback: got %q", m.cfg.From)
	}
	if m.devMode {
		t.Fatalf("credentials configured, dev mode should be off")
	}
}
