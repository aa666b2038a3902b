// Package flags groups this indexer's CLI flags into the cli/v2 categories
// shown in --help, the same way cmd/utils/flags.go assigns its flags to
// flags.EthCategory, flags.APICategory and friends.
package flags

const (
	NetworkCategory  = "NETWORK"
	NodeCategory     = "NODE CLIENT"
	DatabaseCategory = "DATABASE"
	SyncCategory     = "SYNC"
	LoggingCategory  = "LOGGING"
)
