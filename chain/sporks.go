package chain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/phoenixkonsole/papara/consensus"
)

// ErrUnknownSpork is returned for a spork name or ID that does not control a
// reward parameter.
var ErrUnknownSpork = errors.New("unknown spork")

// A SporkID identifies a vote-activated reward parameter.
type SporkID uint8

// Reward-schedule sporks.
const (
	SporkRewardHalvingStart SporkID = iota + 1
	SporkRewardHalvingPeriod
	SporkSuperblockStart
	SporkSuperblockPeriod
)

var sporkNames = map[SporkID]string{
	SporkRewardHalvingStart:  "SPORK_20_REWARD_HALVING_START",
	SporkRewardHalvingPeriod: "SPORK_20_REWARD_HALVING_PERIOD",
	SporkSuperblockStart:     "SPORK_21_SUPERBLOCK_START",
	SporkSuperblockPeriod:    "SPORK_21_SUPERBLOCK_PERIOD",
}

// String implements fmt.Stringer.
func (id SporkID) String() string {
	if name, ok := sporkNames[id]; ok {
		return name
	}
	return fmt.Sprintf("SporkID(%d)", uint8(id))
}

// ParseSporkID parses a spork name, e.g. "SPORK_21_SUPERBLOCK_START".
func ParseSporkID(name string) (SporkID, error) {
	for id, n := range sporkNames {
		if n == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownSpork, name)
}

// SporkValue returns the current value of a spork in n. An unset halving
// start reports the superblock start it follows.
func SporkValue(n *consensus.Network, id SporkID) (uint64, error) {
	switch id {
	case SporkRewardHalvingStart:
		return n.HalvingStart(), nil
	case SporkRewardHalvingPeriod:
		return n.HardforkHalving.Period, nil
	case SporkSuperblockStart:
		return n.HardforkSuperblock.Height, nil
	case SporkSuperblockPeriod:
		return n.HardforkSuperblock.Period, nil
	default:
		return 0, fmt.Errorf("%w %v", ErrUnknownSpork, id)
	}
}

// sortedSporks returns the IDs in values in ascending order, so that spork
// application never depends on map iteration order.
func sortedSporks(values map[SporkID]uint64) []SporkID {
	ids := make([]SporkID, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ApplySporks returns a new network snapshot derived from base with the given
// spork values applied. base is never modified. The result is validated; an
// invalid combination of values is rejected as a whole. Unless
// SporkRewardHalvingStart is among the values (or already set in base), the
// halving keeps following the superblock start.
func ApplySporks(base *consensus.Network, values map[SporkID]uint64) (*consensus.Network, error) {
	if base == nil {
		return nil, consensus.ErrNilNetwork
	}
	n := base.Clone()
	for _, id := range sortedSporks(values) {
		v := values[id]
		switch id {
		case SporkRewardHalvingStart:
			n.HardforkHalving.Height = v
		case SporkRewardHalvingPeriod:
			n.HardforkHalving.Period = v
		case SporkSuperblockStart:
			n.HardforkSuperblock.Height = v
		case SporkSuperblockPeriod:
			n.HardforkSuperblock.Period = v
		default:
			return nil, fmt.Errorf("%w %v", ErrUnknownSpork, id)
		}
	}
	next, err := consensus.NewNetwork(n)
	if err != nil {
		return nil, fmt.Errorf("failed to apply sporks: %w", err)
	}
	return next, nil
}
