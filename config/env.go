package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable a2po reads.
const EnvPrefix = "A2PO_"

// Env holds overrides read from A2PO_* environment variables. They apply
// on top of .a2po.yaml; command-line flags still win.
type Env struct {
	Android   string   `env:"ANDROID"`
	Gettext   string   `env:"GETTEXT"`
	Languages []string `env:"LANGUAGES" envSeparator:","`
}

// LoadEnv reads the overrides from the process environment.
func LoadEnv() (Env, error) {
	return loadEnv(nil)
}

func loadEnv(environ map[string]string) (Env, error) {
	var e Env
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&e, opts); err != nil {
		return Env{}, fmt.Errorf("reading environment: %w", err)
	}
	return e, nil
}

// Apply copies the set overrides into af.
func (e Env) Apply(af *A2poFile) {
	if e.Android != "" {
		af.Android = e.Android
	}
	if e.Gettext != "" {
		af.Gettext = e.Gettext
	}
	if len(e.Languages) > 0 {
		af.Languages = e.Languages
	}
}
