package consensus

type Era struct {
	Start, End uint64
}

type Network struct {
	Name            string
	Eras            []Era
	HardforkHalving struct {
		Height uint64
		Period uint64
	}
}

func NewNetwork(n Network) *Network {
	c := n
	if c.HardforkHalving.Height == 0 {
		c.HardforkHalving.Height = 1
	}
	p := &c
	p.Name = "ok" // writes inside the consensus package are allowed
	return p
}

func (n *Network) Clone() Network { return *n }

func legacyReward(height uint64) uint64 {
	f := 50.0 / float64(height+1)
	return uint64(f) // want "float to integer conversion in consensus code"
}

func integerReward(height uint64) uint64 {
	return 50 / (height + 1)
}
