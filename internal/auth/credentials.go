// Package auth checks dashboard credentials and manages the explicit
// per-visitor session.
package auth

import (
	"os"

	"arbodash/internal/errors"

	"gopkg.in/yaml.v3"
)

// credentialsFile mirrors the secrets file layout:
//
//	auth:
//	  analyst: s3cret
type credentialsFile struct {
	Auth map[string]string `yaml:"auth"`
}

// Credentials is an in-memory username → password map
type Credentials struct {
	users map[string]string
}

// NewCredentials wraps an existing map
func NewCredentials(users map[string]string) *Credentials {
	copied := make(map[string]string, len(users))
	for u, p := range users {
		copied[u] = p
	}
	return &Credentials{users: copied}
}

// LoadCredentials reads the YAML credential file at path
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(path)
		}
		return nil, errors.Wrapf(err, "failed to read credentials %s", path)
	}

	var file credentialsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "invalid credentials file"))
	}
	if len(file.Auth) == 0 {
		return nil, errors.ConfigInvalid("credentials file has no auth entries")
	}
	return NewCredentials(file.Auth), nil
}

// Verify compares the stored password for username with password. Unknown
// users never verify.
func (c *Credentials) Verify(username, password string) bool {
	stored, ok := c.users[username]
	return ok && stored == password
}

// Len returns the number of configured users
func (c *Credentials) Len() int {
	return len(c.users)
}
