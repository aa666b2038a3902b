package params

import "fmt"

// NetworkConfig is the per-network parameters the Bootstrap Engine needs:
// which header id is the protocol's genesis, and what the fixed
// genesis box set's well-known timestamp is.
type NetworkConfig struct {
	Name             string
	GenesisHeaderID  string
	GenesisTimestamp int64 // ms since epoch
}

// MainnetConfig is the network config for the Ergo mainnet.
var MainnetConfig = &NetworkConfig{
	Name:             "mainnet",
	GenesisHeaderID:  MainnetGenesisHeaderID,
	GenesisTimestamp: MainnetGenesisTimestamp,
}

// TestnetConfig is the network config for the Ergo testnet.
var TestnetConfig = &NetworkConfig{
	Name:             "testnet",
	GenesisHeaderID:  TestnetGenesisHeaderID,
	GenesisTimestamp: TestnetGenesisTimestamp,
}

func NetworkByName(name string) (*NetworkConfig, error) {
	switch name {
	case "mainnet":
		return MainnetConfig, nil
	case "testnet":
		return TestnetConfig, nil
	default:
		return nil, fmt.Errorf("params: unknown network %q", name)
	}
}

// Description returns a human-readable summary of a NetworkConfig.
func (c *NetworkConfig) Description() string {
	return fmt.Sprintf("Network: %s (genesis %s)\n", c.Name, c.GenesisHeaderID)
}
