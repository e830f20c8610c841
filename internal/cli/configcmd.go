package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/gitpick/internal/config"
	"github.com/alexander-akhmetov/gitpick/internal/dirs"
)

func newConfigCmd(o *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gitpick configuration",
		Long:  `View and manage gitpick configuration.`,
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show resolved configuration with source annotations",
		Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/gitpick/config.yaml)
  3. Environment variables (GITPICK_*)
  4. Local config (.gitpick/config.yaml)
  5. CLI flags (highest precedence)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.ApplyCLIFlags(config.CLIFlags{Yes: o.yes, Repos: o.repos, LogLimit: o.logLimit})
			return printConfig(cmd.OutOrStdout(), cfg)
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default config.yaml to the global config directory",
		Long: `Write the default configuration, with comments, to the global config
directory. An existing config.yaml is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := dirs.ConfigDir()
			if err := config.InstallDefaults(dir); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n", filepath.Join(dir, "config.yaml"))
			return nil
		},
	})
	return configCmd
}

func printConfig(w io.Writer, cfg *config.Config) error {
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(w, format, args...) }

	p("# gitpick configuration\n\n")
	p("## Sources (in order of precedence)\n")
	for _, src := range cfg.Sources() {
		p("  - %s\n", src)
	}
	p("\n## Directories\n")
	p("  Global config: %s\n", cfg.ConfigDir())
	if cfg.LocalDir() != "" {
		p("  Local config:  %s\n", cfg.LocalDir())
	} else {
		p("  Local config:  (none detected)\n")
	}

	opts := cfg.DiscoverOptions()
	p("\n## Repositories\n")
	for _, dir := range opts.Dirs {
		p("  - %s\n", dir)
	}
	if len(opts.Roots) > 0 {
		p("  scan_roots: %s (depth %d)\n", strings.Join(opts.Roots, ", "), opts.Depth)
	}

	p("\n## Wizard Settings\n")
	p("  confirm:      %t\n", cfg.Confirm)
	p("  log_limit:    %d\n", cfg.LogLimit)
	p("  show_tags:    %t\n", cfg.ShowTags)
	p("  diff_context: %d\n", cfg.DiffContext)
	p("  theme:        %s\n", cfg.Theme)

	if custom := cfg.CustomDomains(); len(custom) > 0 {
		p("\n## Remote Domains\n")
		domains := make([]string, 0, len(custom))
		for d := range custom {
			domains = append(domains, d)
		}
		sort.Strings(domains)
		for _, d := range domains {
			p("  %s: %s\n", d, custom[d])
		}
	}

	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	p("\n## Effective YAML\n%s", out)
	return nil
}
