package config

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/screa/vanity-miner/internal/crypto"
	"github.com/screa/vanity-miner/pkg/types"
)

// Errors
var (
	ErrInvalidWorkers     = errors.New("workers must be at least 1")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidPattern     = errors.New("pattern must be hexadecimal")
	ErrPatternTooLong     = errors.New("pattern longer than an address")
	ErrConflictingPattern = errors.New("prefix and suffix overlap with different characters")
	ErrInvalidLogInterval = errors.New("log interval must be at least 1 second")
)

// Config holds the application configuration
type Config struct {
	Workers     int
	Quantity    int
	Prefix      string
	Suffix      string
	Verbose     bool
	LogFile     string
	LogInterval int // Logging interval in seconds
	Timeout     time.Duration
	Checksum    bool
	NoProgress  bool
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:     DefaultWorkers(),
		Quantity:    1,
		LogInterval: 5,
	}
}

// DefaultWorkers returns the number of logical CPUs
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Workers)
	}
	if c.Quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, c.Quantity)
	}
	if c.LogInterval < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLogInterval, c.LogInterval)
	}

	criteria := c.Criteria()
	for _, p := range []struct{ name, value string }{
		{"prefix", criteria.Prefix},
		{"suffix", criteria.Suffix},
	} {
		if !crypto.IsHex(p.value) {
			return fmt.Errorf("%w: %s %q", ErrInvalidPattern, p.name, p.value)
		}
		if len(p.value) > types.AddressHexLen {
			return fmt.Errorf("%w: %s has %d chars, max %d", ErrPatternTooLong, p.name, len(p.value), types.AddressHexLen)
		}
	}

	// Both patterns fit but share characters: the shared part must agree
	overlap := len(criteria.Prefix) + len(criteria.Suffix) - types.AddressHexLen
	if overlap > 0 {
		tail := criteria.Prefix[len(criteria.Prefix)-overlap:]
		head := criteria.Suffix[:overlap]
		if tail != head {
			return fmt.Errorf("%w: %q vs %q", ErrConflictingPattern, tail, head)
		}
	}
	return nil
}

// Criteria returns the normalized search criteria: 0x stripped, lowercase
func (c *Config) Criteria() types.Criteria {
	return types.Criteria{
		Prefix: strings.ToLower(crypto.StripHexPrefix(c.Prefix)),
		Suffix: strings.ToLower(crypto.StripHexPrefix(c.Suffix)),
	}
}

// GetTargetDescription returns a human-readable description of the target
func (c *Config) GetTargetDescription() string {
	criteria := c.Criteria()
	switch {
	case criteria.Prefix != "" && criteria.Suffix != "":
		return "prefix: " + criteria.Prefix + ", suffix: " + criteria.Suffix
	case criteria.Prefix != "":
		return "prefix: " + criteria.Prefix
	case criteria.Suffix != "":
		return "suffix: " + criteria.Suffix
	}
	return "any address"
}

// ExpectedAttempts returns the mean number of attempts per match
func (c *Config) ExpectedAttempts() float64 {
	criteria := c.Criteria()
	n := len(criteria.Prefix) + len(criteria.Suffix)
	if n > types.AddressHexLen {
		n = types.AddressHexLen
	}
	return math.Pow(16, float64(n))
}
