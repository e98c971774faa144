package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsBadParameters(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"one lp", func(c *Config) { c.Number = 1 }},
		{"zero minimum", func(c *Config) { c.Minimum = 0 }},
		{"negative minimum", func(c *Config) { c.Minimum = -1 }},
		{"zero average", func(c *Config) { c.Average = 0 }},
		{"zero stop", func(c *Config) { c.Stop = 0 }},
		{"zero events", func(c *Config) { c.Events = 0 }},
		{"remote below range", func(c *Config) { c.Remote = -0.1 }},
		{"remote above range", func(c *Config) { c.Remote = 1.1 }},
		{"negative buffer", func(c *Config) { c.BufferBytes = -1 }},
		{"zero partitions", func(c *Config) { c.Partitions = 0 }},
		{"more partitions than lps", func(c *Config) { c.Partitions = 3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.ErrorIs(t, err, ErrConfigInvalid)
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestDerivedQuantities(t *testing.T) {
	cfg := DefaultConfig() // minimum 1, average 9, stop 10, 2 LPs, 1 event
	require.InDelta(t, 0.9, cfg.DutyFactor(), 1e-12)
	require.InDelta(t, 2.0, cfg.ExpectedEvents(), 1e-12)
	// ceil(10 / 0.9)
	require.Equal(t, 12, cfg.MinEvents())

	cfg.Average = 1
	require.InDelta(t, 0.5, cfg.DutyFactor(), 1e-12)
	require.Equal(t, 20, cfg.MinEvents())
}

func TestTimeConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Minimum = 1e-6
	cfg.Stop = 1e-3
	require.EqualValues(t, 1000, cfg.MinimumTime())
	require.EqualValues(t, 1000000, cfg.StopTime())
}

func TestExitCodes(t *testing.T) {
	require.Equal(t, ExitOK, ExitCode(nil))
	cfg := DefaultConfig()
	cfg.Number = 0
	require.Equal(t, ExitConfig, ExitCode(cfg.Validate()))
	require.Equal(t, ExitCausality, ExitCode(&CausalityError{Partition: 1}))
	require.Equal(t, ExitCollective, ExitCode(&CollectiveError{LP: 1}))
	require.Equal(t, ExitConfig, ExitCode(ErrNoLiveEvent))
}
