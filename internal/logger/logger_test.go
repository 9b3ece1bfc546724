package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"userId", "u1", "jwtSecret", "abc", "Authorization", "Bearer x", "dangling"})
	if len(got) != 7 {
		t.Fatalf("len: want=7 got=%d", len(got))
	}
	if got[1] != "u1" {
		t.Fatalf("userId: want=%q got=%v", "u1", got[1])
	}
	if got[3] != "[REDACTED]" {
		t.Fatalf("jwtSecret: want=[REDACTED] got=%v", got[3])
	}
	if got[5] != "[REDACTED]" {
		t.Fatalf("Authorization: want=[REDACTED] got=%v", got[5])
	}
	if got[6] != "dangling" {
		t.Fatalf("trailing key: want=%q got=%v", "dangling", got[6])
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("development", "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	l, err := New("production", "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.With("component", "test").Info("discarded at warn level")
}
