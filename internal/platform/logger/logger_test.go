package logger

import "testing"

func TestSanitizeKVs_HashesSessionID(t *testing.T) {
	out := sanitizeKVs([]interface{}{"session_id", "abc", "chunks", 3, "dangling"})
	if len(out) != 5 {
		t.Fatalf("unexpected length %d", len(out))
	}
	if out[1] == "abc" || out[1] != hashValue("abc") {
		t.Errorf("session id not hashed: %v", out[1])
	}
	if out[3] != 3 || out[4] != "dangling" {
		t.Errorf("other values changed: %v", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop().With("session_id", "x")
	l.Info("ignored", "k", "v")
	l.Sync()
}
