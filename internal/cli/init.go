package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atxtechbro/mcpdash/internal/config"
	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/ui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Server         string // Pre-specified backend URL
	Theme          string // Pre-specified theme
	Dir            string // Directory to write into; empty means the working directory
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use flags and defaults
}

func newInitCmd() *cobra.Command {
	var opts InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .mcpdash.yaml configuration",
		Long: `Create a .mcpdash.yaml file in the current directory.

Prompts for the backend URL and color theme unless --non-interactive is
set or stdin is not a terminal.

Examples:
  mcpdash init
  mcpdash init --server http://localhost:8080 --theme dark
  mcpdash init --force --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.NonInteractive && !term.IsTerminal(int(os.Stdin.Fd())) {
				opts.NonInteractive = true
			}
			if srv, _ := cmd.Flags().GetString("server"); srv != "" {
				opts.Server = srv
			}
			return Init(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Theme, "theme", "", "color theme: auto, light, or dark")
	cmd.Flags().BoolVarP(&opts.Overwrite, "force", "f", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false, "don't prompt; use flags and defaults")
	return cmd
}

// Init writes a new .mcpdash.yaml.
func Init(opts InitOptions, out io.Writer) error {
	configPath := filepath.Join(opts.Dir, config.ConfigFileName)
	if opts.Dir == "" {
		configPath = filepath.Join(".", config.ConfigFileName)
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	server := strings.TrimSpace(opts.Server)
	theme := strings.TrimSpace(opts.Theme)

	if !opts.NonInteractive {
		if server == "" {
			server = config.DefaultServer
		}
		if theme == "" {
			theme = config.DefaultTheme
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Backend URL").
					Description("Base URL of the telemetry server; /api/metrics and /ws live under it").
					Placeholder(config.DefaultServer).
					Value(&server).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("backend URL is required")
						}
						return nil
					}),
				huh.NewSelect[string]().
					Title("Color theme").
					Options(
						huh.NewOption("Match terminal", config.ThemeAuto),
						huh.NewOption("Light", config.ThemeLight),
						huh.NewOption("Dark", config.ThemeDark),
					).
					Value(&theme),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Pass --server and --non-interactive to skip the prompts")
		}
	}

	if server != "" {
		cfg.Server = strings.TrimSpace(server)
	}
	if theme != "" {
		cfg.Theme = theme
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  mcpdash            - Open the live dashboard")
	fmt.Fprintln(out, "  mcpdash snapshot   - Pull once and print the figures")
	return nil
}
