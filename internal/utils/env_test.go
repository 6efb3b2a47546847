package utils

import (
	"os"
	"testing"
	"time"
)

func TestSafeEnv(t *testing.T) {
	const key = "_NB_TEST_SAFEENV"
	os.Unsetenv(key)
	if got := SafeEnv(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv(key, "value")
	if got := SafeEnv(key, "fallback"); got != "value" {
		t.Fatalf("expected 'value', got %q", got)
	}
}

func TestEnvParsers(t *testing.T) {
	t.Setenv("_NB_TEST_INT", "42")
	t.Setenv("_NB_TEST_BAD_INT", "forty")
	t.Setenv("_NB_TEST_DUR", "90m")
	t.Setenv("_NB_TEST_LIST", "a:9092, ,b:9092")

	if got := EnvInt("_NB_TEST_INT", 1); got != 42 {
		t.Fatalf("EnvInt=%d", got)
	}
	if got := EnvInt("_NB_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("EnvInt fallback=%d", got)
	}
	if got := EnvDuration("_NB_TEST_DUR", time.Second); got != 90*time.Minute {
		t.Fatalf("EnvDuration=%v", got)
	}
	got := EnvList("_NB_TEST_LIST")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("EnvList=%v", got)
	}
	if EnvList("_NB_TEST_UNSET_LIST") != nil {
		t.Fatalf("expected nil for unset list")
	}
}
