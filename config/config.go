// Package config holds the per-process trading configuration: the active
// account and the cached api key. It is an explicit object passed into the
// client rather than package-global state, and is write-once per key.
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

const (
	// TestAccount is the well-known practice account.
	TestAccount = "EXB123456"
	// DefaultKeyFile is where the api key lives unless overridden.
	DefaultKeyFile = "~/.stockfighter/keys.json"

	accountKey = "account"
	apiKeyKey  = "api_key"
)

// Config is a write-once key/value store. Keys can be read any number of
// times but set only once; the account is the one exception, managed
// through Reinit/Reset. Not safe for concurrent use.
type Config struct {
	values map[string]string
}

// New builds a Config with the given account (empty means TestAccount)
// and caches the api key from keyFile (empty means DefaultKeyFile). The
// key file is a JSON document with an api_key string field.
func New(account, keyFile string) (*Config, error) {
	c := &Config{values: map[string]string{}}
	if account == "" {
		account = TestAccount
	}
	c.values[accountKey] = account

	if keyFile == "" {
		keyFile = DefaultKeyFile
	}
	buf, err := ioutil.ReadFile(expand(keyFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read key file")
	}
	key, err := jsonparser.GetString(buf, apiKeyKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse api_key from %v", keyFile)
	}
	c.values[apiKeyKey] = key
	return c, nil
}

func expand(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(os.Getenv("HOME"), path[2:])
	}
	return path
}

// Reinit switches the active account, keeping the cached api key. The
// key file is only ever read once per process.
func (c *Config) Reinit(account string) {
	c.values[accountKey] = account
}

// Reset restores the test account, leaving the cached key untouched.
func (c *Config) Reset() {
	c.values[accountKey] = TestAccount
}

func (c *Config) Get(key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", errors.Errorf("key %v not found in config", key)
	}
	return v, nil
}

// Set adds a new key. Keys are write-once: setting a key that already
// exists is an error.
func (c *Config) Set(key, value string) error {
	if _, ok := c.values[key]; ok {
		return errors.Errorf("key %v already in config", key)
	}
	c.values[key] = value
	return nil
}

// Account returns the active account. Always present.
func (c *Config) Account() string {
	return c.values[accountKey]
}

// APIKey returns the cached api key. Always present after New.
func (c *Config) APIKey() string {
	return c.values[apiKeyKey]
}
