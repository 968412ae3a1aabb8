package app

import "consensus"

func edit(n *consensus.Network) {
	n.Name = "changed"            // want "in-place write to a consensus.Network snapshot"
	n.HardforkHalving.Height = 10 // want "in-place write to a consensus.Network snapshot"
	n.HardforkHalving.Period++    // want "in-place write to a consensus.Network snapshot"
	n.Eras[0] = consensus.Era{}   // want "in-place write to a consensus.Network snapshot"
	*n = consensus.Network{}      // want "in-place write to a consensus.Network snapshot"
}

func derive(n *consensus.Network) *consensus.Network {
	c := n.Clone()
	c.Name = "derived"
	c.HardforkHalving.Height = 10
	return consensus.NewNetwork(c)
}

func convert(f float64) uint64 {
	return uint64(f)
}
