package main

import (
	"strings"

	"github.com/spf13/viper"
)

// Config keys double as flag names. Environment variables use the MORTY_
// prefix with dashes turned into underscores, e.g. MORTY_MAX_INCLUDE_DEPTH.
const (
	keyTarget          = "target"
	keyMaxIncludeDepth = "max-include-depth"
	keyDisasm          = "disasm"

	defaultTarget = "out.rk"
	envPrefix     = "MORTY"
)

// Config is the resolved configuration of one run.
// Precedence: flag > environment > config file > default.
type Config struct {
	Target          string
	MaxIncludeDepth int
	Disasm          bool
}

func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyTarget, defaultTarget)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	return Config{
		Target:          v.GetString(keyTarget),
		MaxIncludeDepth: v.GetInt(keyMaxIncludeDepth),
		Disasm:          v.GetBool(keyDisasm),
	}, nil
}
