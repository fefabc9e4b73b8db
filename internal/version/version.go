package version

// Version is overridden at build time with
// -ldflags "-X github.com/Zachkp/quantum-portfolio/internal/version.Version=..."
var Version = "dev"
