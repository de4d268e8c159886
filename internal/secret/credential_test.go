package secret

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFromToken_Resolve(t *testing.T) {
	c := FromToken("sk-live-123")

	v, err := c.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "sk-live-123" {
		t.Errorf("expected sk-live-123, got %q", v)
	}
}

func TestFromEnvVar_FirstNonEmptyWins(t *testing.T) {
	t.Setenv("VALYU_TEST_A", "")
	t.Setenv("VALYU_TEST_B", "from-b")

	v, err := FromEnvVar("VALYU_TEST_A", "VALYU_TEST_B").Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "from-b" {
		t.Errorf("expected from-b, got %q", v)
	}
}

func TestFromEnvVar_Missing(t *testing.T) {
	t.Setenv("VALYU_TEST_MISSING", "")

	_, err := FromEnvVar("VALYU_TEST_MISSING").Resolve()
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}

	var zero Credential
	if _, err := zero.Resolve(); !errors.Is(err, ErrMissing) {
		t.Errorf("zero credential: expected ErrMissing, got %v", err)
	}
	if !zero.IsZero() || FromEnvVar().IsZero() || FromToken("x").IsZero() {
		t.Error("IsZero should hold only for the zero credential")
	}
}

func TestFromEnvVar_DefaultName(t *testing.T) {
	c := FromEnvVar()
	if got := c.EnvVars(); len(got) != 1 || got[0] != DefaultEnvVar {
		t.Errorf("expected [%s], got %v", DefaultEnvVar, got)
	}
}

func TestCredential_NeverPrinted(t *testing.T) {
	c := FromToken("sk-live-123")

	outputs := []string{
		c.String(),
		fmt.Sprintf("%v", c),
		fmt.Sprintf("%+v", c),
		fmt.Sprintf("%#v", c),
	}
	for _, out := range outputs {
		if strings.Contains(out, "sk-live-123") {
			t.Errorf("credential leaked in %q", out)
		}
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal json: %v", err)
	}
	if strings.Contains(string(data), "sk-live-123") {
		t.Errorf("credential leaked in json %s", data)
	}

	y, err := yaml.Marshal(struct {
		Key Credential `yaml:"key"`
	}{c})
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	if strings.Contains(string(y), "sk-live-123") {
		t.Errorf("credential leaked in yaml %s", y)
	}
}

func TestCredential_Redact(t *testing.T) {
	c := FromToken("sk-live-123")

	got := c.Redact(`401: key sk-live-123 rejected`)
	if got != "401: key *** rejected" {
		t.Errorf("unexpected redaction: %q", got)
	}
}

func TestCredential_EnvRoundTrip(t *testing.T) {
	c := FromEnvVar("VALYU_API_KEY", "VALYU_KEY_FALLBACK")

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"type":"env_var","env_vars":["VALYU_API_KEY","VALYU_KEY_FALLBACK"]}` {
		t.Errorf("unexpected json: %s", data)
	}

	var back Credential
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != c.String() {
		t.Errorf("expected %s, got %s", c, back)
	}
}

func TestCredential_TokenNotDeserialized(t *testing.T) {
	var c Credential
	if err := json.Unmarshal([]byte(`{"type":"token"}`), &c); err == nil {
		t.Error("expected error deserializing a token credential")
	}
}
