package config

// Version is the countledger binary version.
// Set at build time via: -ldflags "-X github.com/countledger/countledger/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
