package models

// Constants mirrored from the deployed oracle program. MaxPublishers shapes
// the fixed publisher slab inside every price feed account, so it is
// load-bearing for decoding; the slash and quorum bounds are enforced
// locally before a proposal is submitted. The remaining values are
// informational, since the program enforces them on-chain.
const (
	// MaxPublishers is the capacity of a price feed's publisher slab.
	MaxPublishers = 100

	// MaxSlashPercentage bounds the stake share a slash proposal may burn.
	MaxSlashPercentage = 100

	// MaxQuorumPercentage bounds the quorum share governance may require.
	MaxQuorumPercentage = 100

	// MinInitialStake is the smallest stake (in token base units) the
	// program accepts when registering a publisher.
	MinInitialStake = 10_000_000_000

	// StalenessThresholdSeconds is how old a publisher observation may be
	// before aggregation stops counting it.
	StalenessThresholdSeconds = 30

	// HaltedThresholdSeconds is how long a feed may go without any fresh
	// observation before its aggregate is marked halted.
	HaltedThresholdSeconds = 60

	// UnbondingPeriodSeconds is the delay between unstaking tokens and
	// being able to withdraw them.
	UnbondingPeriodSeconds = 604_800

	// ProgramVersion is the on-chain program version this gateway tracks.
	ProgramVersion = 1
)
