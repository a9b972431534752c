// Package cli implements the mcpdash command-line interface.
//
// # Command Structure
//
// The root command runs the live dashboard. Subcommands cover the
// non-interactive paths:
//
//	mcpdash                     - Live TUI dashboard
//	mcpdash snapshot [--json]   - One pull, printed as tables or JSON
//	mcpdash init                - Create .mcpdash.yaml
//	mcpdash version             - Build information
//	mcpdash completion <shell>  - Shell completion script
//
// # Configuration Precedence
//
// Flags override environment variables (MCPDASH_*), which override the
// config file, which overrides built-in defaults. The config file is found
// with config.Find: --config, then .mcpdash.yaml walking up to the git root,
// then ~/.config/mcpdash/config.yaml.
//
// # Flag Handling
//
// Global flags (--config, --server) live on the root command and apply to
// every subcommand. DashboardFlags carries the dashboard-only overrides and
// is applied to the loaded config with Apply before validation.
package cli
