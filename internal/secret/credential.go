// Package secret wraps API credentials so their values never reach logs,
// error messages or serialized configuration.
package secret

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultEnvVar is consulted when no explicit token is configured.
const DefaultEnvVar = "VALYU_API_KEY"

const redacted = "***"

// ErrMissing is wrapped by the error Resolve returns when no value is available.
var ErrMissing = errors.New("credential not set")

type kind int

const (
	kindUnset kind = iota
	kindToken
	kindEnvVar
)

// Credential is an opaque secret resolved from an explicit token or from
// environment variables. The zero value resolves to ErrMissing; adapter config
// validation replaces it with FromEnvVar(DefaultEnvVar).
type Credential struct {
	kind    kind
	token   string
	envVars []string
}

// FromToken wraps an explicit value.
func FromToken(token string) Credential {
	return Credential{kind: kindToken, token: token}
}

// FromEnvVar reads the first non-empty variable among names at resolve time.
func FromEnvVar(names ...string) Credential {
	if len(names) == 0 {
		names = []string{DefaultEnvVar}
	}
	return Credential{kind: kindEnvVar, envVars: append([]string(nil), names...)}
}

// EnvVars returns the variable names an env credential reads from.
func (c Credential) EnvVars() []string {
	return append([]string(nil), c.envVars...)
}

// IsZero reports whether no token or variable was configured.
func (c Credential) IsZero() bool {
	return c.kind == kindUnset
}

// Resolve returns the secret value.
func (c Credential) Resolve() (string, error) {
	switch c.kind {
	case kindToken:
		if strings.TrimSpace(c.token) == "" {
			return "", fmt.Errorf("empty token: %w", ErrMissing)
		}
		return c.token, nil
	case kindEnvVar:
		for _, name := range c.envVars {
			if v := os.Getenv(name); strings.TrimSpace(v) != "" {
				return v, nil
			}
		}
		return "", fmt.Errorf("none of the environment variables %s is set: %w", strings.Join(c.envVars, ", "), ErrMissing)
	default:
		return "", ErrMissing
	}
}

// Redact replaces every occurrence of the resolved value in text.
func (c Credential) Redact(text string) string {
	v, err := c.Resolve()
	if err != nil || v == "" {
		return text
	}
	return strings.ReplaceAll(text, v, redacted)
}

func (c Credential) String() string {
	switch c.kind {
	case kindToken:
		return "token(" + redacted + ")"
	case kindEnvVar:
		return "env(" + strings.Join(c.envVars, ",") + ")"
	default:
		return "unset"
	}
}

func (c Credential) GoString() string {
	return "secret.Credential{" + c.String() + "}"
}

// serialized is the value-free form written by MarshalJSON and MarshalYAML.
type serialized struct {
	Type    string   `json:"type" yaml:"type"`
	EnvVars []string `json:"env_vars,omitempty" yaml:"env_vars,omitempty"`
}

func (c Credential) serialize() serialized {
	switch c.kind {
	case kindToken:
		return serialized{Type: "token"}
	case kindEnvVar:
		return serialized{Type: "env_var", EnvVars: c.envVars}
	default:
		return serialized{Type: "unset"}
	}
}

func (c Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.serialize())
}

func (c Credential) MarshalYAML() (any, error) {
	return c.serialize(), nil
}

// UnmarshalJSON accepts the env_var form only; tokens are never read back from serialized data.
func (c *Credential) UnmarshalJSON(data []byte) error {
	var s serialized
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return c.restore(s)
}

func (c *Credential) UnmarshalYAML(value *yaml.Node) error {
	var s serialized
	if err := value.Decode(&s); err != nil {
		return err
	}
	return c.restore(s)
}

func (c *Credential) restore(s serialized) error {
	switch s.Type {
	case "env_var":
		*c = FromEnvVar(s.EnvVars...)
		return nil
	case "unset", "":
		*c = Credential{}
		return nil
	default:
		return fmt.Errorf("cannot deserialize %q credential", s.Type)
	}
}
