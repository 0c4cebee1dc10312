package dirbuild

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/eval"
)

const (
	EnvEnv = "JAML_CONTEXT"
)

// LoadEnv reads a default render context given as YAML or JSON in
// $JAML_CONTEXT.
func LoadEnv() (map[string]any, error) {
	envEnv := os.Getenv(EnvEnv)
	if envEnv == "" {
		return nil, nil
	}
	var envAny any
	if err := yaml.Unmarshal([]byte(envEnv), &envAny); err != nil {
		return nil, fmt.Errorf("error decoding env $%s: %w", EnvEnv, err)
	}
	theEnvEnv, ok := eval.Normalize(envAny).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error decoding env $%s: wrong type %T", EnvEnv, envAny)
	}
	if debug.LoadEnv() {
		debug.Logf("\nloaded env from env: %s\n", debug.JSON{V: theEnvEnv})
	}
	return theEnvEnv, nil
}
