package main

import (
	"fmt"
	"math"

	"github.com/pdbj/sst-phold/core"
)

// Config is the immutable parameter record for one run. Times are in
// seconds; the core converts to virtual nanoseconds on construction.
type Config struct {
	// Remote is the probability that a generated event targets an LP
	// other than the sender.
	Remote float64 `yaml:"remote"`
	// Minimum is the lookahead: the smallest delay added to every
	// event, in seconds.
	Minimum float64 `yaml:"minimum"`
	// Average is the mean of the exponential delay component added on
	// top of Minimum, in seconds.
	Average float64 `yaml:"average"`
	// Stop is the virtual time at which the simulation ends, in
	// seconds.
	Stop float64 `yaml:"stop"`
	// Number is the LP count.
	Number int `yaml:"number"`
	// Events is the initial event count per LP.
	Events int `yaml:"events"`
	// BufferBytes is the opaque payload size carried by each workload
	// event.
	BufferBytes int `yaml:"buffer_bytes"`
	// DelaysOut enables the per-LP delay histogram.
	DelaysOut bool `yaml:"delays_out"`
	// Fixed skips the exponential draw and uses the mean delay for
	// every event, for debugging runs.
	Fixed bool `yaml:"fixed"`
	// Verbosity selects the log level, see LevelForVerbosity.
	Verbosity int `yaml:"verbosity"`
	// Partitions is the number of scheduler workers; LPs are split
	// into contiguous blocks by id.
	Partitions int `yaml:"partitions"`
}

// DefaultConfig mirrors the benchmark's historical defaults.
func DefaultConfig() Config {
	return Config{
		Remote:     0.9,
		Minimum:    1,
		Average:    9,
		Stop:       10,
		Number:     2,
		Events:     1,
		Partitions: 1,
	}
}

// Validate checks parameter ranges. All failures wrap
// ErrConfigInvalid.
func (c *Config) Validate() error {
	if c.Number < 2 {
		return fmt.Errorf("%w: number=%d, need at least 2 LPs", ErrConfigInvalid, c.Number)
	}
	if !(c.Minimum > 0) {
		return fmt.Errorf("%w: minimum=%g, must be > 0", ErrConfigInvalid, c.Minimum)
	}
	if !(c.Average > 0) {
		return fmt.Errorf("%w: average=%g, must be > 0", ErrConfigInvalid, c.Average)
	}
	if !(c.Stop > 0) {
		return fmt.Errorf("%w: stop=%g, must be > 0", ErrConfigInvalid, c.Stop)
	}
	if c.Events < 1 {
		return fmt.Errorf("%w: events=%d, need at least 1", ErrConfigInvalid, c.Events)
	}
	if c.Remote < 0 || c.Remote > 1 {
		return fmt.Errorf("%w: remote=%g, must be in [0,1]", ErrConfigInvalid, c.Remote)
	}
	if c.BufferBytes < 0 {
		return fmt.Errorf("%w: buffer_bytes=%d, must be >= 0", ErrConfigInvalid, c.BufferBytes)
	}
	if c.Partitions < 1 || c.Partitions > c.Number {
		return fmt.Errorf("%w: partitions=%d, must be in [1, number]", ErrConfigInvalid, c.Partitions)
	}
	return nil
}

// DutyFactor is the fraction of each inter-event delay contributed by
// the exponential component.
func (c *Config) DutyFactor() float64 {
	return c.Average / (c.Minimum + c.Average)
}

// ExpectedEvents estimates the total number of events processed over
// the run.
func (c *Config) ExpectedEvents() float64 {
	return float64(c.Number) * float64(c.Events) * c.Stop / (c.Minimum + c.Average)
}

// MinEvents is the suggested initial event count per LP when the
// configured count is too small to keep the synchronization windows
// busy.
func (c *Config) MinEvents() int {
	return int(math.Ceil(10 / c.DutyFactor()))
}

// MinimumTime returns the lookahead as virtual time.
func (c *Config) MinimumTime() core.Time {
	return core.TimeFromSeconds(c.Minimum)
}

// StopTime returns the stop time as virtual time.
func (c *Config) StopTime() core.Time {
	return core.TimeFromSeconds(c.Stop)
}

// Echo logs the effective configuration and derived quantities.
func (c *Config) Echo(log *Logger) {
	log.Infof("Remote LP fraction:                   %g", c.Remote)
	log.Infof("Minimum inter-event delay:            %g s", c.Minimum)
	log.Infof("Additional exponential average delay: %g s", c.Average)
	log.Infof("Stop time:                            %g s", c.Stop)
	log.Infof("Number of LPs:                        %d", c.Number)
	log.Infof("Number of initial events per LP:      %d", c.Events)
	log.Infof("Event payload bytes:                  %d", c.BufferBytes)
	log.Infof("Scheduler partitions:                 %d", c.Partitions)
	log.Infof("Duty factor:                          %.3f", c.DutyFactor())
	log.Infof("Expected total events:                %.0f", c.ExpectedEvents())
	if perWindow := float64(c.Events) * c.DutyFactor(); perWindow < 10 {
		log.Warnf("events per window %.2f is low, suggest events=%d", perWindow, c.MinEvents())
	}
}
