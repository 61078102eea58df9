// Package config builds the validated RunConfig consumed by the lifecycle,
// merging command-line flags, HCP_* environment variables and an optional
// YAML file.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public healthchecks.io ping endpoint.
const DefaultBaseURL = "https://hc-ping.com"

// RunConfig is everything one hcp run needs. It is not modified after Load.
type RunConfig struct {
	ID         Identifier
	BaseURL    string
	IgnoreCode bool
	Tee        bool
	Command    []string // argv; empty means no command was given
	Env        []string // child environment, control variables removed
}

// HasCommand reports whether a child command was supplied.
func (c *RunConfig) HasCommand() bool {
	return len(c.Command) > 0
}

// Flags holds the command-line values. The *Set fields record whether a
// flag was given explicitly so it can take precedence over the environment.
type Flags struct {
	ID            string
	URL           string
	ConfigPath    string
	Tee           bool
	TeeSet        bool
	IgnoreCode    bool
	IgnoreCodeSet bool
}

// Load resolves flags, environment and config file into a RunConfig.
// Precedence is flag, then environment, then file, then default.
func Load(flags Flags, env EnvGetter, command []string) (*RunConfig, error) {
	if env == nil {
		env = &RealEnvGetter{}
	}

	file := &File{}
	if path := firstNonEmpty(flags.ConfigPath, lookup(env, EnvConfig)); path != "" {
		f, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		file = f
	}

	id, err := ParseIdentifier(firstNonEmpty(flags.ID, lookup(env, EnvID), file.ID))
	if err != nil {
		return nil, err
	}

	baseURL := firstNonEmpty(flags.URL, lookup(env, EnvURL), file.URL, DefaultBaseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if err := validateURL(baseURL); err != nil {
		return nil, err
	}

	return &RunConfig{
		ID:         id,
		BaseURL:    baseURL,
		Tee:        resolveBool(flags.Tee, flags.TeeSet, env, EnvTee, file.Tee),
		IgnoreCode: resolveBool(flags.IgnoreCode, flags.IgnoreCodeSet, env, EnvIgnoreCode, file.IgnoreCode),
		Command:    append([]string(nil), command...),
		Env:        FilterEnv(env.Environ()),
	}, nil
}

// resolveBool applies precedence to a presence-only switch.
func resolveBool(flag, flagSet bool, env EnvGetter, key string, file *bool) bool {
	if flagSet {
		return flag
	}
	if _, ok := env.LookupEnv(key); ok {
		return true
	}
	if file != nil {
		return *file
	}
	return false
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid healthcheck url: %s", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid healthcheck url scheme %q: must be http or https", u.Scheme)
	}
	return nil
}

func lookup(env EnvGetter, key string) string {
	v, _ := env.LookupEnv(key)
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
