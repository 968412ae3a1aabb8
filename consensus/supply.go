package consensus

import (
	"errors"
	"math"
	"math/bits"

	"github.com/phoenixkonsole/papara/types"
)

var errSupplyOverflow = errors.New("supply overflows currency representation")

// supplyAccumulator sums count*reward terms, remembering the first overflow.
type supplyAccumulator struct {
	sum      types.Currency
	overflow bool
}

func (sa *supplyAccumulator) add(count uint64, reward types.Currency) {
	if count == 0 || sa.overflow {
		return
	}
	v, overflow := reward.Mul64WithOverflow(count)
	if !overflow {
		sa.sum, overflow = sa.sum.AddWithOverflow(v)
	}
	sa.overflow = overflow
}

// addRange adds reward for every height in [lo, hi] that is also at or
// below limit.
func (sa *supplyAccumulator) addRange(lo, hi, limit uint64, reward types.Currency) {
	if lo > limit || lo > hi {
		return
	}
	sa.add(min(hi, limit)-lo+1, reward)
}

// multiples returns the number of multiples of p in [lo, hi]. lo must be
// positive.
func multiples(lo, hi, p uint64) uint64 {
	if lo > hi {
		return 0
	}
	return hi/p - (lo-1)/p
}

// periodStart returns base + k*period, reporting false on overflow.
func periodStart(base, k, period uint64) (uint64, bool) {
	hi, lo := bits.Mul64(k, period)
	s, carry := bits.Add64(base, lo, 0)
	return s, hi == 0 && carry == 0
}

// Supply returns the total subsidy issued by the blocks at heights 0 through
// height, inclusive. It is computed piecewise, one term per era, tier window
// and run of halving periods sharing a reward, and always equals the sum of
// BlockValue over the same range. Its cost does not grow with height.
func Supply(n *Network, height uint64) (types.Currency, error) {
	if n == nil {
		return types.ZeroCurrency, ErrNilNetwork
	}
	var sa supplyAccumulator

	for _, e := range n.Eras {
		sa.addRange(e.Start, e.End, height, e.Reward)
	}
	sa.addRange(n.HardforkTiers.Height, n.HardforkSecondTier.Height-1, height, n.HardforkTiers.Reward)
	sa.addRange(n.HardforkSecondTier.Height, n.HardforkSuperblock.Height-1, height, n.HardforkSecondTier.Reward)

	if height >= n.HardforkSuperblock.Height {
		sumStandardBlocks(&sa, n, height)
		sumSuperblocks(&sa, n, height)
	}
	if sa.overflow {
		return types.ZeroCurrency, errSupplyOverflow
	}
	return sa.sum, nil
}

// quotientRuns calls fn(qlo, qhi, r) for each maximal run of divisors q in
// [1, limit] over which r = base/q is constant and non-zero. There are at most
// about 2*sqrt(base) runs.
func quotientRuns(base types.Currency, limit uint64, fn func(qlo, qhi uint64, r types.Currency)) {
	for q := uint64(1); q <= limit; {
		r := base.Div64(q)
		if r.IsZero() {
			return
		}
		// the largest divisor sharing r is base/r; when r does not fit in a
		// uint64 the run is a single divisor
		qhi := q
		if r.Hi == 0 {
			if m := base.Div64(r.Lo); m.Hi == 0 {
				qhi = m.Lo
			} else {
				qhi = math.MaxUint64
			}
		}
		qhi = min(qhi, limit)
		fn(q, qhi, r)
		if qhi == math.MaxUint64 {
			return
		}
		q = qhi + 1
	}
}

// sumStandardBlocks adds the reward of every non-superblock in
// [HardforkSuperblock.Height, height].
func sumStandardBlocks(sa *supplyAccumulator, n *Network, height uint64) {
	sb, hv := n.HardforkSuperblock, n.HardforkHalving
	start := n.HalvingStart()
	addStandard := func(lo, hi uint64, reward types.Currency) {
		lo, hi = max(lo, sb.Height), min(hi, height)
		if lo > hi {
			return
		}
		sa.add(hi-lo+1-multiples(lo, hi, sb.Period), reward)
	}

	if start > sb.Height {
		// the halving has not started yet; the standard reward is undecayed
		addStandard(sb.Height, start-1, hv.Reward)
	}
	if height < start {
		return
	}
	// halving period k = q-1 pays hv.Reward/q
	quotientRuns(hv.Reward, (height-start)/hv.Period+1, func(qlo, qhi uint64, r types.Currency) {
		lo, _ := periodStart(start, qlo-1, hv.Period)
		hi := height
		if next, ok := periodStart(start, qhi, hv.Period); ok && next-1 < height {
			hi = next - 1
		}
		addStandard(lo, hi, r)
	})
}

// sumSuperblocks adds the reward of every superblock in
// [HardforkSuperblock.Height, height]. Group k holds the superblocks from the
// first boundary after HardforkSuperblock.Height + k*halvingPeriod up to the
// start of group k+1, and pays HardforkSuperblock.Reward/(k+1).
func sumSuperblocks(sa *supplyAccumulator, n *Network, height uint64) {
	sb, hvPeriod := n.HardforkSuperblock, n.HardforkHalving.Period
	groupStart := func(k uint64) (uint64, bool) {
		if k == 0 {
			return sb.Height, true
		}
		s, ok := periodStart(sb.Height, k, hvPeriod)
		if !ok {
			return 0, false
		}
		return nextBoundary(s, sb.Period)
	}
	quotientRuns(sb.Reward, (height-sb.Height)/hvPeriod+1, func(qlo, qhi uint64, r types.Currency) {
		lo, ok := groupStart(qlo - 1)
		if !ok || lo > height {
			return
		}
		hi := height
		if b, ok := groupStart(qhi); ok && b-1 < height {
			hi = b - 1
		}
		sa.add(multiples(lo, hi, sb.Period), r)
	})
}
