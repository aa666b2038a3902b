package params

const (
	// MainnetGenesisHeaderID is the well-known header id of Ergo mainnet's
	// height-zero, protocol-created genesis state. The node's REST API has no
	// endpoint that returns it directly, so the Bootstrap Engine records the
	// genesis header under this constant rather than asking the node for it.
	MainnetGenesisHeaderID = "0000000000000000000000000000000000000000000000000000000000000000"

	// TestnetGenesisHeaderID is the same well-known value for Ergo testnet.
	TestnetGenesisHeaderID = "0000000000000000000000000000000000000000000000000000000000000001"

	MainnetGenesisTimestamp = 1561978800000
	TestnetGenesisTimestamp = 1561978800000
)

const (
	// MigrationVersionSchema, MigrationVersionTier1 and MigrationVersionTier2
	// name the embedded migration groups the Database Gateway applies in order.
	MigrationVersionSchema = "schema"
	MigrationVersionTier1  = "tier1"
	MigrationVersionTier2  = "tier2"
)

const Version = "0.1.0"
