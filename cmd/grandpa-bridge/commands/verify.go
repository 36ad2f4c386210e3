// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ChainSafe/grandpa-bridge/config"
	"github.com/ChainSafe/grandpa-bridge/dot/types"
	"github.com/ChainSafe/grandpa-bridge/internal/metrics"
	"github.com/ChainSafe/grandpa-bridge/lib/common"
	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"
	"github.com/ChainSafe/grandpa-bridge/pkg/header-chain/justification"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// optimizedSuffix is appended to the path of a justification to write its
// optimized form to.
const optimizedSuffix = ".optimized"

type headerJustification = justification.Justification[common.Hash, types.BlockNumber, types.Header]

type target = grandpa.HashNumber[common.Hash, types.BlockNumber]

func newVerifyCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <justification files...>",
		Short: "Verify justifications finalize a header",
		Long: `verify decodes each file as a 0x prefixed hex encoded justification and
verifies it finalizes the given header with the configured authority set.
Justifications are verified in parallel. The command fails if any
justification is rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execVerify(cmd, v, args)
		},
	}

	cmd.Flags().String("header-hash", "", "Hash of the header the justifications finalize")
	cmd.Flags().Uint32("header-number", 0, "Number of the header the justifications finalize")
	cmd.Flags().Bool("optimize", false,
		"Strip unneeded precommits and ancestries and write the result next to each input")
	cmd.Flags().String("metrics-file", "", "Write verification metrics in the Prometheus text format to this file")
	return cmd
}

// verdict is the outcome of verifying one justification file.
type verdict struct {
	path string
	err  error
	// set when the justification was accepted only after optimization
	optimization *optimization
}

// optimization counts what optimizing a justification removed.
type optimization struct {
	precommits, removedPrecommits int
	ancestries, removedAncestries int
}

func (o optimization) removedAny() bool {
	return o.removedPrecommits > 0 || o.removedAncestries > 0
}

func (v verdict) String() string {
	switch {
	case v.err != nil:
		return fmt.Sprintf("%s: rejected (%s): %s", v.path, metrics.Reason(v.err), v.err)
	case v.optimization != nil && v.optimization.removedAny():
		return fmt.Sprintf("%s: accepted after optimization (removed %d of %d precommits and %d of %d votes ancestries)",
			v.path, v.optimization.removedPrecommits, v.optimization.precommits,
			v.optimization.removedAncestries, v.optimization.ancestries)
	default:
		return v.path + ": accepted"
	}
}

func execVerify(cmd *cobra.Command, v *viper.Viper, paths []string) error {
	cfg, err := loadConfig(cmd, v)
	if err != nil {
		return err
	}

	finalized, err := parseTarget(cmd)
	if err != nil {
		return err
	}
	optimize, err := cmd.Flags().GetBool("optimize")
	if err != nil {
		return fmt.Errorf("failed to get --optimize: %s", err)
	}
	metricsFile, err := cmd.Flags().GetString("metrics-file")
	if err != nil {
		return fmt.Errorf("failed to get --metrics-file: %s", err)
	}

	verificationContext, err := cfg.VerificationContext()
	if err != nil {
		return fmt.Errorf("building verification context: %w", err)
	}

	voters := verificationContext.VoterSet
	logger.Infof("verifying %d justifications of block %s #%d with authority set %d: "+
		"%d authorities, total weight %d, threshold %d",
		len(paths), finalized.Hash, finalized.Number, verificationContext.AuthoritySetID,
		voters.Len(), voters.TotalWeight(), voters.Threshold())

	verifications := metrics.NewVerifications()
	verdicts := verifyFiles(cmd.Context(), cfg, verificationContext, finalized, paths, optimize, verifications)

	rejected := 0
	for _, verdict := range verdicts {
		if verdict.err != nil {
			rejected++
		}
		fmt.Fprintln(cmd.OutOrStdout(), verdict)
	}

	if metricsFile != "" {
		var buffer bytes.Buffer
		err = verifications.WriteText(&buffer)
		if err != nil {
			return err
		}
		err = os.WriteFile(metricsFile, buffer.Bytes(), 0600)
		if err != nil {
			return fmt.Errorf("writing metrics file: %w", err)
		}
	}

	if rejected > 0 {
		return fmt.Errorf("%d of %d justifications rejected", rejected, len(paths))
	}
	return nil
}

// verifyFiles verifies the justification files with at most the configured
// number of workers and returns a verdict per file, in order.
func verifyFiles(ctx context.Context, cfg *config.Config, verificationContext justification.VerificationContext,
	finalized target, paths []string, optimize bool, verifications *metrics.Verifications) []verdict {
	verdicts := make([]verdict, len(paths))
	if ctx == nil {
		ctx = context.Background()
	}
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.Verifier.Workers)

	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			verdicts[i].path = path
			err := ctx.Err()
			if err != nil {
				verdicts[i].err = err
				return nil
			}

			verdicts[i].optimization, verdicts[i].err = verifyFile(
				cfg, verificationContext, finalized, path, optimize, verifications)
			switch {
			case verdicts[i].err != nil:
				logger.Warnf("justification %s rejected: %s", path, verdicts[i].err)
			case verdicts[i].optimization != nil && verdicts[i].optimization.removedAny():
				logger.Infof("justification %s finalizes block %s #%d once %d precommits and %d votes ancestries are removed",
					path, finalized.Hash, finalized.Number,
					verdicts[i].optimization.removedPrecommits, verdicts[i].optimization.removedAncestries)
			default:
				logger.Infof("justification %s finalizes block %s #%d", path, finalized.Hash, finalized.Number)
			}
			return nil
		})
	}
	// workers never return errors, verdicts carry them
	_ = group.Wait()
	return verdicts
}

// verifyFile verifies the justification file. With optimize, the optimized
// justification is written next to it and what was removed is returned.
func verifyFile(cfg *config.Config, verificationContext justification.VerificationContext,
	finalized target, path string, optimize bool, verifications *metrics.Verifications) (*optimization, error) {
	decoded, err := readJustification(path, cfg.Verifier.MaxJustificationSize)
	if err != nil {
		verifications.ObserveVerification(err, 0)
		return nil, err
	}

	if !optimize {
		start := time.Now()
		err = justification.VerifyJustification(finalized, verificationContext, decoded)
		verifications.ObserveVerification(err, time.Since(start))
		return nil, err
	}

	result := &optimization{
		precommits: len(decoded.Commit.Precommits),
		ancestries: len(decoded.VotesAncestries),
	}
	start := time.Now()
	err = justification.VerifyAndOptimizeJustification(finalized, verificationContext, &decoded)
	verifications.ObserveVerification(err, time.Since(start))
	if err != nil {
		return nil, err
	}
	result.removedPrecommits = result.precommits - len(decoded.Commit.Precommits)
	result.removedAncestries = result.ancestries - len(decoded.VotesAncestries)

	err = writeJustification(path+optimizedSuffix, decoded)
	if err != nil {
		return nil, err
	}
	verifications.ObserveOptimization()
	return result, nil
}

func readJustification(path string, maxSize int) (headerJustification, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return headerJustification{}, fmt.Errorf("reading justification: %w", err)
	}
	// hex encoding doubles the size, the prefix and surrounding space are ignored
	if len(raw) > 2*maxSize+64 {
		return headerJustification{}, fmt.Errorf("%w: file of %d bytes",
			justification.ErrJustificationTooLarge, len(raw))
	}

	encoded, err := common.HexToBytes(string(bytes.TrimSpace(raw)))
	if err != nil {
		return headerJustification{}, fmt.Errorf("decoding hex: %w", err)
	}
	return justification.DecodeJustification[common.Hash, types.BlockNumber, types.Header](encoded, maxSize)
}

func writeJustification(path string, j headerJustification) error {
	encoded, err := justification.EncodeJustification(j)
	if err != nil {
		return err
	}
	err = os.WriteFile(path, []byte(common.BytesToHex(encoded)+"\n"), 0600)
	if err != nil {
		return fmt.Errorf("writing justification: %w", err)
	}
	return nil
}

func parseTarget(cmd *cobra.Command) (target, error) {
	hash, err := cmd.Flags().GetString("header-hash")
	if err != nil {
		return target{}, fmt.Errorf("failed to get --header-hash: %s", err)
	}
	if hash == "" {
		return target{}, fmt.Errorf("--header-hash cannot be empty")
	}
	number, err := cmd.Flags().GetUint32("header-number")
	if err != nil {
		return target{}, fmt.Errorf("failed to get --header-number: %s", err)
	}

	parsed, err := common.HexToHash(hash)
	if err != nil {
		return target{}, fmt.Errorf("failed to parse --header-hash: %w", err)
	}
	return target{Hash: parsed, Number: number}, nil
}
