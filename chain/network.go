package chain

import (
	"errors"
	"fmt"

	"github.com/phoenixkonsole/papara/consensus"
	"github.com/phoenixkonsole/papara/types"
)

// ErrUnknownNetwork is returned by NetworkByName for an unrecognized name.
var ErrUnknownNetwork = errors.New("unknown network")

// Mainnet spork defaults. The halving start is left unset in Mainnet so that
// it follows SPORK_21 until SPORK_20 is voted.
const (
	SporkSuperblockStartDefault     = 1620600
	SporkSuperblockPeriodDefault    = 43800
	SporkRewardHalvingStartDefault  = SporkSuperblockStartDefault
	SporkRewardHalvingPeriodDefault = 525600
)

// tenthCoin is the 0.1 coin reward of the genesis era.
var tenthCoin = types.NewCurrency64(types.BaseUnitsPerCoin / 10)

func mustNetwork(n consensus.Network) *consensus.Network {
	v, err := consensus.NewNetwork(n)
	if err != nil {
		panic(err) // built-in parameters are always valid
	}
	return v
}

// Mainnet returns the network parameters of the papara mainnet.
func Mainnet() *consensus.Network {
	n := consensus.Network{
		Name: "mainnet",
		Eras: []consensus.Era{
			{Start: 0, End: 0, Reward: tenthCoin},
			{Start: 1, End: 1, Reward: types.Coins(3000000)}, // premine
			{Start: 2, End: 2, Reward: tenthCoin},
			{Start: 3, End: 291, Reward: types.Coins(3)},
			{Start: 292, End: 1728, Reward: types.Coins(2)},
			{Start: 1729, End: 4608, Reward: types.Coins(5)},
			{Start: 4609, End: 8928, Reward: types.Coins(10)},
			{Start: 8929, End: 11808, Reward: types.Coins(25)},
			{Start: 11809, End: 16128, Reward: types.Coins(70)},
			{Start: 16129, End: 19008, Reward: types.Coins(100)},
			{Start: 19009, End: 524500, Reward: types.Coins(200)},
		},
	}
	n.HardforkTiers.Height = 524501
	n.HardforkTiers.Reward = types.Coins(100)

	n.HardforkSecondTier.Height = 1578902
	n.HardforkSecondTier.Reward = types.Coins(25)

	n.HardforkSuperblock.Height = SporkSuperblockStartDefault
	n.HardforkSuperblock.Period = SporkSuperblockPeriodDefault
	n.HardforkSuperblock.Reward = types.Coins(300000)

	n.HardforkHalving.Period = SporkRewardHalvingPeriodDefault
	n.HardforkHalving.Reward = types.Coins(1000)

	return mustNetwork(n)
}

// Testnet returns the network parameters of the papara testnet.
func Testnet() *consensus.Network {
	n := consensus.Network{
		Name: "testnet",
		Eras: []consensus.Era{
			{Start: 0, End: 0, Reward: tenthCoin},
			{Start: 1, End: 1, Reward: types.Coins(3000000)},
			{Start: 2, End: 4999, Reward: types.Coins(200)},
		},
	}
	n.HardforkTiers.Height = 5000
	n.HardforkTiers.Reward = types.Coins(100)

	n.HardforkSecondTier.Height = 10000
	n.HardforkSecondTier.Reward = types.Coins(25)

	n.HardforkSuperblock.Height = 14400
	n.HardforkSuperblock.Period = 1440
	n.HardforkSuperblock.Reward = types.Coins(300000)

	n.HardforkHalving.Period = 17280
	n.HardforkHalving.Reward = types.Coins(1000)

	return mustNetwork(n)
}

// Regtest returns the network parameters used for local testing. Every
// schedule transition happens within the first thousand blocks.
func Regtest() *consensus.Network {
	n := consensus.Network{
		Name: "regtest",
		Eras: []consensus.Era{
			{Start: 0, End: 0, Reward: tenthCoin},
			{Start: 1, End: 1, Reward: types.Coins(3000000)},
			{Start: 2, End: 99, Reward: types.Coins(200)},
		},
	}
	n.HardforkTiers.Height = 100
	n.HardforkTiers.Reward = types.Coins(100)

	n.HardforkSecondTier.Height = 300
	n.HardforkSecondTier.Reward = types.Coins(25)

	n.HardforkSuperblock.Height = 400
	n.HardforkSuperblock.Period = 10
	n.HardforkSuperblock.Reward = types.Coins(300000)

	n.HardforkHalving.Period = 50
	n.HardforkHalving.Reward = types.Coins(1000)

	return mustNetwork(n)
}

// NetworkByName returns the built-in network with the given name.
func NetworkByName(name string) (*consensus.Network, error) {
	switch name {
	case "mainnet":
		return Mainnet(), nil
	case "testnet":
		return Testnet(), nil
	case "regtest":
		return Regtest(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownNetwork, name)
	}
}
