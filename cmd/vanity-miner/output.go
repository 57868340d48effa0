package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/screa/vanity-miner/internal/config"
	"github.com/screa/vanity-miner/internal/crypto"
	logpkg "github.com/screa/vanity-miner/internal/logger"
	minerpkg "github.com/screa/vanity-miner/pkg/miner"
	"github.com/screa/vanity-miner/pkg/types"
)

var (
	headerColor  = color.New(color.FgGreen, color.Bold)
	labelColor   = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow, color.Bold)
)

// describeProgress is the spinner text for a snapshot
func describeProgress(s types.Snapshot) string {
	return fmt.Sprintf("%s keys/s | Found: %d/%d",
		humanize.CommafWithDigits(s.Rate(), 2), s.Found, s.Target)
}

// printResult writes the found keypairs and run statistics
func printResult(w io.Writer, result *types.Result, checksum bool) {
	headerColor.Fprintf(w, "\nFound %d matching address(es)!\n", len(result.KeyPairs))

	for i, kp := range result.KeyPairs {
		address := kp.AddressHex()
		if checksum {
			address = crypto.ChecksumAddress(kp.Address)
		}
		fmt.Fprintf(w, "\nAddress #%d\n", i+1)
		labelColor.Fprint(w, "Private Key: ")
		fmt.Fprintln(w, kp.PrivateKeyHex())
		labelColor.Fprint(w, "Address: ")
		fmt.Fprintln(w, address)
	}

	fmt.Fprintln(w, "\nStats:")
	fmt.Fprintf(w, "Time taken: %.2f seconds\n", result.Duration.Seconds())
	fmt.Fprintf(w, "Total attempts: %s\n", humanize.Comma(int64(result.Attempts)))
	fmt.Fprintf(w, "Average speed: %s keys/s\n", humanize.CommafWithDigits(result.Rate(), 2))

	warningColor.Fprintln(w, "\nIMPORTANT: Store your private key securely and never share it with anyone!")
}

// runError maps the outcome of a search to the command's exit error.
// A user interrupt is a clean exit; a timeout is reported with progress.
func runError(log *logpkg.Logger, cfg *config.Config, result *types.Result, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, minerpkg.ErrStopped), errors.Is(err, context.Canceled):
		log.Println("Search stopped by user.")
		return nil
	case errors.Is(err, context.DeadlineExceeded) && result != nil:
		return fmt.Errorf("timed out after %v with %d/%d addresses (%s attempts)",
			cfg.Timeout, len(result.KeyPairs), cfg.Quantity, humanize.Comma(int64(result.Attempts)))
	}
	return err
}
