// Package consensus implements the papara block reward schedule.
package consensus

import (
	"errors"
	"fmt"

	"github.com/phoenixkonsole/papara/types"
)

// TierWindow is the width, in blocks, of each masternode tier rollout window.
const TierWindow = 101

var (
	// ErrNilNetwork is returned when a reward is requested without a set of
	// network parameters.
	ErrNilNetwork = errors.New("no network parameters supplied")

	// ErrNegativeHeight is returned when a caller supplies a negative block
	// height.
	ErrNegativeHeight = errors.New("block height cannot be negative")

	// ErrInvalidNetwork wraps every violation of the network parameter
	// invariants.
	ErrInvalidNetwork = errors.New("invalid network parameters")
)

// An Era assigns a fixed reward to the inclusive height range [Start, End].
type Era struct {
	Start  uint64         `json:"start"`
	End    uint64         `json:"end"`
	Reward types.Currency `json:"reward"`
}

// EncodeTo implements types.EncoderTo.
func (e Era) EncodeTo(enc *types.Encoder) {
	enc.WriteUint64(e.Start)
	enc.WriteUint64(e.End)
	e.Reward.EncodeTo(enc)
}

// DecodeFrom implements types.DecoderFrom.
func (e *Era) DecodeFrom(d *types.Decoder) {
	e.Start = d.ReadUint64()
	e.End = d.ReadUint64()
	e.Reward.DecodeFrom(d)
}

// A Network specifies the fixed parameters of a papara blockchain. A Network
// is a snapshot: once validated it must never be modified. Governance changes
// produce a new Network (see chain.ApplySporks).
type Network struct {
	Name string `json:"name"`

	// Eras is the legacy reward table. It must cover [0, HardforkTiers.Height)
	// with sorted, contiguous, non-overlapping ranges.
	Eras []Era `json:"eras"`

	// HardforkTiers activates the masternode tier system.
	HardforkTiers struct {
		Height uint64         `json:"height"`
		Reward types.Currency `json:"reward"`
	} `json:"hardforkTiers"`
	// HardforkSecondTier starts the standard reward.
	HardforkSecondTier struct {
		Height uint64         `json:"height"`
		Reward types.Currency `json:"reward"`
	} `json:"hardforkSecondTier"`
	// HardforkSuperblock is controlled by SPORK_21.
	HardforkSuperblock struct {
		Height uint64         `json:"height"`
		Period uint64         `json:"period"`
		Reward types.Currency `json:"reward"`
	} `json:"hardforkSuperblock"`
	// HardforkHalving is controlled by SPORK_20. A zero Height means the
	// halving starts together with the superblocks, wherever they start; see
	// HalvingStart.
	HardforkHalving struct {
		Height uint64         `json:"height"`
		Period uint64         `json:"period"`
		Reward types.Currency `json:"reward"`
	} `json:"hardforkHalving"`
}

// NewNetwork validates n and returns an independent copy of it. The returned
// Network shares no memory with n.
func NewNetwork(n Network) (*Network, error) {
	c := n.clone()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// HalvingStart returns the height at which the standard reward starts to
// decay.
func (n *Network) HalvingStart() uint64 {
	if n.HardforkHalving.Height == 0 {
		return n.HardforkSuperblock.Height
	}
	return n.HardforkHalving.Height
}

// Clone returns a deep copy of n. The copy is not validated; use NewNetwork
// to obtain a usable snapshot.
func (n *Network) Clone() Network {
	return *n.clone()
}

func (n *Network) clone() *Network {
	c := *n
	c.Eras = append([]Era(nil), n.Eras...)
	return &c
}

// Validate checks the network parameter invariants. Every error it returns
// wraps ErrInvalidNetwork.
func (n *Network) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidNetwork, fmt.Sprintf(format, args...))
	}
	switch {
	case n.HardforkSuperblock.Period == 0:
		return invalid("superblock period must be positive")
	case n.HardforkHalving.Period == 0:
		return invalid("halving period must be positive")
	case n.HardforkTiers.Height >= n.HardforkSecondTier.Height:
		return invalid("tier activation height (%d) must precede second tier height (%d)", n.HardforkTiers.Height, n.HardforkSecondTier.Height)
	case n.HardforkSecondTier.Height >= n.HardforkSuperblock.Height:
		return invalid("second tier height (%d) must precede superblock start (%d)", n.HardforkSecondTier.Height, n.HardforkSuperblock.Height)
	case len(n.Eras) == 0:
		return invalid("era table is empty")
	}

	var next uint64
	for i, e := range n.Eras {
		switch {
		case e.Start != next:
			if i == 0 {
				return invalid("era table must start at height 0, not %d", e.Start)
			} else if e.Start < next {
				return invalid("era %d [%d, %d] overlaps the previous era", i, e.Start, e.End)
			}
			return invalid("gap between height %d and era %d starting at %d", next, i, e.Start)
		case e.End < e.Start:
			return invalid("era %d ends (%d) before it starts (%d)", i, e.End, e.Start)
		}
		next = e.End + 1
	}
	if next != n.HardforkTiers.Height {
		return invalid("era table covers [0, %d), want [0, %d)", next, n.HardforkTiers.Height)
	}
	return nil
}

// EncodeTo implements types.EncoderTo. The encoding is canonical: two
// Networks with identical parameters always encode identically.
func (n *Network) EncodeTo(e *types.Encoder) {
	e.WriteUint8(1) // version
	e.WriteString(n.Name)
	types.EncodeSlice(e, n.Eras)
	e.WriteUint64(n.HardforkTiers.Height)
	n.HardforkTiers.Reward.EncodeTo(e)
	e.WriteUint64(n.HardforkSecondTier.Height)
	n.HardforkSecondTier.Reward.EncodeTo(e)
	e.WriteUint64(n.HardforkSuperblock.Height)
	e.WriteUint64(n.HardforkSuperblock.Period)
	n.HardforkSuperblock.Reward.EncodeTo(e)
	e.WriteUint64(n.HardforkHalving.Height)
	e.WriteUint64(n.HardforkHalving.Period)
	n.HardforkHalving.Reward.EncodeTo(e)
}

// DecodeFrom implements types.DecoderFrom.
func (n *Network) DecodeFrom(d *types.Decoder) {
	if v := d.ReadUint8(); v != 1 {
		d.SetErr(fmt.Errorf("incompatible network version (%d)", v))
		return
	}
	n.Name = d.ReadString()
	types.DecodeSlice(d, &n.Eras)
	n.HardforkTiers.Height = d.ReadUint64()
	n.HardforkTiers.Reward.DecodeFrom(d)
	n.HardforkSecondTier.Height = d.ReadUint64()
	n.HardforkSecondTier.Reward.DecodeFrom(d)
	n.HardforkSuperblock.Height = d.ReadUint64()
	n.HardforkSuperblock.Period = d.ReadUint64()
	n.HardforkSuperblock.Reward.DecodeFrom(d)
	n.HardforkHalving.Height = d.ReadUint64()
	n.HardforkHalving.Period = d.ReadUint64()
	n.HardforkHalving.Reward.DecodeFrom(d)
}

// ID returns a hash that uniquely identifies the parameter snapshot.
func (n *Network) ID() types.Hash256 {
	h := types.NewHasher()
	h.WriteDistinguisher("network")
	n.EncodeTo(h.E)
	return h.Sum()
}
