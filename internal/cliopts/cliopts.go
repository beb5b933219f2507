// Package cliopts resolves mqttui's global connection options from cobra
// flags with environment-variable fallbacks, following a flag > env >
// default priority chain (spec §6 "Global options").
//
// Grounded on github.com/getmockd/mockd's internal/cliconfig: its
// LoadEnvConfig/MergeConfig pair establishes "only apply a source's value
// when the higher-priority source didn't set it, and record which source
// won" as a Sources map. cliopts keeps that shape but collapses the
// three-layer flag/file/env/default merge down to the two layers mqttui
// actually has (flag, env), since mqttui has no config file.
package cliopts

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

// Environment variable names, per spec §6.
const (
	EnvBroker           = "MQTTUI_BROKER"
	EnvUsername         = "MQTTUI_USERNAME"
	EnvPassword         = "MQTTUI_PASSWORD"
	EnvClientCert       = "MQTTUI_CLIENT_CERT"
	EnvClientKey        = "MQTTUI_CLIENT_KEY"
	EnvInsecure         = "MQTTUI_INSECURE"
	EnvPayloadSizeLimit = "MQTTUI_PAYLOAD_SIZE_LIMIT"
)

// DefaultBroker is used when neither the flag nor the environment variable
// is set.
const DefaultBroker = "mqtt://localhost:1883"

// DefaultPayloadSizeLimit bounds stored payload bytes before truncation
// when no flag or environment value is given. Resolve rejects a limit of
// 0 or less; there is no "unlimited" setting.
const DefaultPayloadSizeLimit = 1 << 20 // 1 MiB

// Options holds the fully resolved global connection options.
type Options struct {
	Broker           string
	Username         string
	Password         string
	ClientCert       string
	ClientKey        string
	Insecure         bool
	PayloadSizeLimit int

	// Sources records, per field name, which layer supplied its value:
	// "flag", "env", or "default". Useful for diagnostics and tests.
	Sources map[string]string
}

// Resolve reads flags (already parsed by cobra) and applies the
// flag > env > default priority chain for every global option.
func Resolve(flags *pflag.FlagSet) (Options, error) {
	opts := Options{Sources: map[string]string{}}

	opts.Broker = resolveString(flags, "broker", EnvBroker, DefaultBroker, opts.Sources)
	opts.Username = resolveString(flags, "username", EnvUsername, "", opts.Sources)
	opts.Password = resolveString(flags, "password", EnvPassword, "", opts.Sources)
	opts.ClientCert = resolveString(flags, "client-cert", EnvClientCert, "", opts.Sources)
	opts.ClientKey = resolveString(flags, "client-key", EnvClientKey, "", opts.Sources)
	opts.Insecure = resolveBool(flags, "insecure", EnvInsecure, false, opts.Sources)

	limit, err := resolveInt(flags, "payload-size-limit", EnvPayloadSizeLimit, DefaultPayloadSizeLimit, opts.Sources)
	if err != nil {
		return Options{}, err
	}
	opts.PayloadSizeLimit = limit

	if err := validateBrokerURL(opts.Broker); err != nil {
		return Options{}, err
	}
	if opts.PayloadSizeLimit <= 0 {
		return Options{}, fmt.Errorf("--payload-size-limit must be positive, got %d", opts.PayloadSizeLimit)
	}

	return opts, nil
}

func resolveString(flags *pflag.FlagSet, flagName, envVar, def string, sources map[string]string) string {
	if flags.Changed(flagName) {
		v, _ := flags.GetString(flagName)
		sources[flagName] = "flag"
		return v
	}
	if v := os.Getenv(envVar); v != "" {
		sources[flagName] = "env"
		return v
	}
	if v, err := flags.GetString(flagName); err == nil && v != "" {
		sources[flagName] = "default"
		return v
	}
	sources[flagName] = "default"
	return def
}

func resolveBool(flags *pflag.FlagSet, flagName, envVar string, def bool, sources map[string]string) bool {
	if flags.Changed(flagName) {
		v, _ := flags.GetBool(flagName)
		sources[flagName] = "flag"
		return v
	}
	if v := os.Getenv(envVar); v != "" {
		sources[flagName] = "env"
		return v == "true" || v == "1" || v == "yes"
	}
	sources[flagName] = "default"
	return def
}

func resolveInt(flags *pflag.FlagSet, flagName, envVar string, def int, sources map[string]string) (int, error) {
	if flags.Changed(flagName) {
		v, _ := flags.GetInt(flagName)
		sources[flagName] = "flag"
		return v, nil
	}
	if v := os.Getenv(envVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s=%q: %w", envVar, v, err)
		}
		sources[flagName] = "env"
		return n, nil
	}
	sources[flagName] = "default"
	return def, nil
}

var validSchemes = map[string]bool{
	"mqtt":  true,
	"mqtts": true,
	"ws":    true,
	"wss":   true,
}

// validateBrokerURL enforces the scheme set from spec §6.
func validateBrokerURL(broker string) error {
	u, err := url.Parse(broker)
	if err != nil {
		return fmt.Errorf("invalid broker URL %q: %w", broker, err)
	}
	if !validSchemes[u.Scheme] {
		return fmt.Errorf("unsupported broker scheme %q: must be one of mqtt, mqtts, ws, wss", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("broker URL %q is missing a host", broker)
	}
	return nil
}
