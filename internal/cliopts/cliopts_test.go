package cliopts

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("broker", DefaultBroker, "")
	fs.String("username", "", "")
	fs.String("password", "", "")
	fs.String("client-cert", "", "")
	fs.String("client-key", "", "")
	fs.Bool("insecure", false, "")
	fs.Int("payload-size-limit", DefaultPayloadSizeLimit, "")
	return fs
}

func TestResolveDefaults(t *testing.T) {
	opts, err := Resolve(newFlags())
	require.NoError(t, err)
	assert.Equal(t, DefaultBroker, opts.Broker)
	assert.Equal(t, DefaultPayloadSizeLimit, opts.PayloadSizeLimit)
	assert.False(t, opts.Insecure)
	assert.Equal(t, "default", opts.Sources["broker"])
}

func TestResolveFlagOverridesEnv(t *testing.T) {
	t.Setenv(EnvBroker, "mqtt://from-env:1883")
	fs := newFlags()
	require.NoError(t, fs.Set("broker", "mqtts://from-flag:8883"))

	opts, err := Resolve(fs)
	require.NoError(t, err)
	assert.Equal(t, "mqtts://from-flag:8883", opts.Broker)
	assert.Equal(t, "flag", opts.Sources["broker"])
}

func TestResolveEnvUsedWhenFlagUnset(t *testing.T) {
	t.Setenv(EnvBroker, "ws://from-env:8080")
	opts, err := Resolve(newFlags())
	require.NoError(t, err)
	assert.Equal(t, "ws://from-env:8080", opts.Broker)
	assert.Equal(t, "env", opts.Sources["broker"])
}

func TestResolveRejectsBadScheme(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Set("broker", "http://localhost:1883"))
	_, err := Resolve(fs)
	assert.Error(t, err)
}

func TestResolveRejectsMissingHost(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Set("broker", "mqtt://"))
	_, err := Resolve(fs)
	assert.Error(t, err)
}

func TestResolveRejectsNonPositivePayloadLimit(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Set("payload-size-limit", "0"))
	_, err := Resolve(fs)
	assert.Error(t, err)
}

func TestResolveInsecureFromEnv(t *testing.T) {
	t.Setenv(EnvInsecure, "true")
	opts, err := Resolve(newFlags())
	require.NoError(t, err)
	assert.True(t, opts.Insecure)
}

func TestResolvePasswordNeverDefaultedButResolvable(t *testing.T) {
	t.Setenv(EnvPassword, "hunter2")
	opts, err := Resolve(newFlags())
	require.NoError(t, err)
	assert.Equal(t, "hunter2", opts.Password)
}
