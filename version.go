package gensyn

// Version is the engine release, overridable at build time with
// -ldflags "-X github.com/aretw0/gensyn.Version=...".
var Version = "0.4.0-dev"
