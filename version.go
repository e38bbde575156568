package kitchen

// Version is the release of the kitchen module. Overridden at build time with
// -ldflags "-X github.com/aretw0/kitchen.Version=...".
var Version = "0.3.0"
