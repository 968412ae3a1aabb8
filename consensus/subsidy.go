package consensus

import (
	"fmt"
	"math/bits"

	"github.com/phoenixkonsole/papara/types"
)

// CheckHeight converts a signed height supplied by a caller into a block
// height. Negative heights are rejected, never clamped.
func CheckHeight(height int64) (uint64, error) {
	if height < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeHeight, height)
	}
	return uint64(height), nil
}

// FixedReward returns the legacy era reward for height. It reports false if
// height is at or beyond the tier activation height, or if no era covers it.
func FixedReward(n *Network, height uint64) (types.Currency, bool) {
	if n == nil || height >= n.HardforkTiers.Height {
		return types.ZeroCurrency, false
	}
	for _, e := range n.Eras {
		if e.Start <= height && height <= e.End {
			return e.Reward, true
		}
	}
	return types.ZeroCurrency, false
}

// HalvingReward applies harmonic decay to base: after p full periods have
// elapsed since activation, the reward is base/(p+1). Despite the name, the
// reward after four periods is base/5, not base/16.
//
// HalvingReward panics if period is zero.
func HalvingReward(height uint64, base types.Currency, activation, period uint64) types.Currency {
	if period == 0 {
		panic("consensus: zero halving period")
	} else if height < activation {
		return base
	}
	return base.Div64((height-activation)/period + 1)
}

// nextBoundary returns the first multiple of period strictly greater than h.
// It reports false if that multiple does not fit in a uint64.
func nextBoundary(h, period uint64) (uint64, bool) {
	hi, lo := bits.Mul64(h/period+1, period)
	return lo, hi == 0
}

// superblockPeriods returns the number of halving periods that count as
// elapsed for a superblock at height. Period k is counted once height reaches
// the first superblock boundary strictly after activation + k*halvingPeriod,
// so every superblock within one halving period pays the same reward.
func superblockPeriods(height, activation, superblockPeriod, halvingPeriod uint64) uint64 {
	if height < activation {
		return 0
	}
	k := (height - activation) / halvingPeriod
	for k > 0 {
		b, ok := nextBoundary(activation+k*halvingPeriod, superblockPeriod)
		if ok && b <= height {
			break
		}
		k--
	}
	return k
}

// SuperblockReward returns the reward of the superblock at height. The same
// harmonic law as HalvingReward applies, but evaluated at superblock
// granularity: the first superblock after activation pays base, superblocks
// one halving period later pay base/2, four periods later base/5.
//
// SuperblockReward panics if either period is zero.
func SuperblockReward(height uint64, base types.Currency, activation, superblockPeriod, halvingPeriod uint64) types.Currency {
	if superblockPeriod == 0 || halvingPeriod == 0 {
		panic("consensus: zero superblock or halving period")
	}
	return base.Div64(superblockPeriods(height, activation, superblockPeriod, halvingPeriod) + 1)
}

// IsSuperblock reports whether height is a superblock under n.
func IsSuperblock(n *Network, height uint64) bool {
	return n != nil && height >= n.HardforkSuperblock.Height && height%n.HardforkSuperblock.Period == 0
}

// BlockValue returns the total subsidy of the block at height.
func BlockValue(n *Network, height uint64) (types.Currency, error) {
	if n == nil {
		return types.ZeroCurrency, ErrNilNetwork
	}
	switch {
	case height < n.HardforkTiers.Height:
		r, ok := FixedReward(n, height)
		if !ok {
			return types.ZeroCurrency, fmt.Errorf("no reward era covers height %d", height)
		}
		return r, nil
	case height < n.HardforkSecondTier.Height:
		return n.HardforkTiers.Reward, nil
	case height < n.HardforkSuperblock.Height:
		return n.HardforkSecondTier.Reward, nil
	case IsSuperblock(n, height):
		sb := n.HardforkSuperblock
		return SuperblockReward(height, sb.Reward, sb.Height, sb.Period, n.HardforkHalving.Period), nil
	default:
		hv := n.HardforkHalving
		return HalvingReward(height, hv.Reward, n.HalvingStart(), hv.Period), nil
	}
}

// BlockValueAt is BlockValue for callers that hold a signed height.
func BlockValueAt(n *Network, height int64) (types.Currency, error) {
	h, err := CheckHeight(height)
	if err != nil {
		return types.ZeroCurrency, err
	}
	return BlockValue(n, h)
}
