package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/screa/vanity-miner/internal/config"
	logpkg "github.com/screa/vanity-miner/internal/logger"
	minerpkg "github.com/screa/vanity-miner/pkg/miner"
	"github.com/screa/vanity-miner/pkg/types"
)

func testResult() *types.Result {
	kp := types.KeyPair{Address: "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}
	kp.PrivateKey[31] = 1
	return &types.Result{
		KeyPairs: []types.KeyPair{kp},
		Attempts: 12345,
		Duration: 2 * time.Second,
	}
}

func TestPrintResult(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name     string
		checksum bool
		address  string
	}{
		{"lowercase", false, "Address: 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		{"checksum", true, "Address: 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printResult(&buf, testResult(), tt.checksum)
			out := buf.String()

			assert.Contains(t, out, "Found 1 matching address(es)!")
			assert.Contains(t, out, "Private Key: 0000000000000000000000000000000000000000000000000000000000000001")
			assert.Contains(t, out, tt.address)
			assert.Contains(t, out, "Time taken: 2.00 seconds")
			assert.Contains(t, out, "Total attempts: 12,345")
			assert.Contains(t, out, "Average speed: 6,172.5 keys/s")
		})
	}
}

func TestDescribeProgress(t *testing.T) {
	s := types.Snapshot{Attempts: 3000, Found: 1, Target: 4, Elapsed: time.Second}
	assert.Equal(t, "3,000 keys/s | Found: 1/4", describeProgress(s))
}

func TestRunError(t *testing.T) {
	entropyErr := errors.New("worker 0: read entropy: closed")

	tests := []struct {
		name    string
		result  *types.Result
		err     error
		wantErr string
		wantLog string
	}{
		{name: "success", result: testResult()},
		{
			name:    "stopped",
			result:  &types.Result{},
			err:     minerpkg.ErrStopped,
			wantLog: "Search stopped by user.",
		},
		{
			name:    "interrupted",
			result:  &types.Result{Attempts: 10},
			err:     context.Canceled,
			wantLog: "Search stopped by user.",
		},
		{
			name:    "timeout",
			result:  &types.Result{Attempts: 1500},
			err:     fmt.Errorf("search: %w", context.DeadlineExceeded),
			wantErr: "timed out after 2s with 0/3 addresses (1,500 attempts)",
		},
		{
			name:    "entropy failure",
			result:  &types.Result{},
			err:     entropyErr,
			wantErr: entropyErr.Error(),
		},
		{
			name:    "invalid config",
			err:     config.ErrInvalidWorkers,
			wantErr: config.ErrInvalidWorkers.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logpkg.NewWriter(&buf)
			log.SetFlags(0)

			cfg := config.NewConfig()
			cfg.Quantity = 3
			cfg.Timeout = 2 * time.Second

			err := runError(log, cfg, tt.result, tt.err)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
			if tt.wantLog != "" {
				assert.Contains(t, buf.String(), tt.wantLog)
			}
		})
	}
}
