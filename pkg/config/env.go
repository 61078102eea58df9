package config

import (
	"os"
	"strings"
)

// Control variables read by hcp and hidden from the child.
const (
	EnvID         = "HCP_ID"
	EnvTee        = "HCP_TEE"
	EnvIgnoreCode = "HCP_IGNORE_CODE"
	EnvURL        = "HCP_URL"
	EnvConfig     = "HCP_CONFIG"
)

// ControlVars lists every variable FilterEnv removes.
var ControlVars = []string{EnvID, EnvTee, EnvIgnoreCode, EnvURL, EnvConfig}

// EnvGetter abstracts environment access for testability.
type EnvGetter interface {
	LookupEnv(key string) (string, bool)
	Environ() []string
}

// RealEnvGetter reads the process environment.
type RealEnvGetter struct{}

func (r *RealEnvGetter) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (r *RealEnvGetter) Environ() []string {
	return os.Environ()
}

// FilterEnv returns env without the control variables.
func FilterEnv(env []string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		if isControlVar(name) {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func isControlVar(name string) bool {
	for _, v := range ControlVars {
		if name == v {
			return true
		}
	}
	return false
}
