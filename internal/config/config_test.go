package config

import "testing"

func TestGetEnvInt(t *testing.T) {
	t.Setenv("EXAMHALL_TEST_INT", "42")
	if got := getEnvInt("EXAMHALL_TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}
	if got := getEnvInt("EXAMHALL_TEST_MISSING", 7); got != 7 {
		t.Errorf("getEnvInt fallback = %d, want 7", got)
	}
	t.Setenv("EXAMHALL_TEST_INT", "not-a-number")
	if got := getEnvInt("EXAMHALL_TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt malformed = %d, want fallback 7", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("EXAMHALL_TEST_BOOL", "true")
	if !getEnvBool("EXAMHALL_TEST_BOOL", false) {
		t.Error("getEnvBool(true) = false")
	}
	if getEnvBool("EXAMHALL_TEST_MISSING", false) {
		t.Error("getEnvBool fallback = true, want false")
	}
	t.Setenv("EXAMHALL_TEST_BOOL", "banana")
	if getEnvBool("EXAMHALL_TEST_BOOL", false) {
		t.Error("getEnvBool malformed = true, want fallback false")
	}
}

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); got != nil {
		t.Errorf("parseOrigins(\"\") = %v, want nil", got)
	}

	got := parseOrigins(" https://a.example , https://b.example,,")
	want := []string{"https://a.example", "https://b.example"}
	if len(got) != len(want) {
		t.Fatalf("parseOrigins = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseOrigins[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
