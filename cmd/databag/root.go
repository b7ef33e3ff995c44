package databag

import (
	"embed"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/provisio/databag/internal/version"
	"github.com/provisio/databag/pkg/cobrax/topics"
	"github.com/provisio/databag/pkg/config"
	"github.com/provisio/databag/pkg/logging"
	"github.com/provisio/databag/pkg/server"
)

//go:embed docs/topics
var docsFS embed.FS

// globalOpts holds the persistent flag values shared by all commands
type globalOpts struct {
	verbosity  int
	dryRun     bool
	configPath string
	serverURL  string
	bagPaths   []string
	solo       bool
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOpts{}

	rootCmd := &cobra.Command{
		Use:     "databag",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	pf.StringVar(&opts.configPath, "config", "", MsgFlagConfig)
	pf.StringVar(&opts.serverURL, "server-url", "", MsgFlagServerURL)
	pf.StringArrayVar(&opts.bagPaths, "data-bag-path", nil, MsgFlagDataBagPath)
	pf.BoolVar(&opts.solo, "solo", false, MsgFlagSolo)
	pf.StringVarP(&opts.format, "format", "F", "plain", MsgFlagFormat)

	rootCmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newCreateCmd(opts),
		newDeleteCmd(opts),
		newInitCmd(),
		newVersionCmd(),
	)

	// Disable the built-in help command; the topics manager installs a
	// topic-aware replacement.
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	if tm, err := topics.Load(docsFS, "docs/topics", topicRenderer()); err == nil {
		tm.Install(rootCmd)
	} else {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// resolveConfig layers command-line flags over the loaded configuration
func resolveConfig(opts *globalOpts) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if opts.serverURL != "" {
		cfg.ServerURL = opts.serverURL
		cfg.Mode = config.ModeServer
	}
	if opts.solo {
		cfg.Mode = config.ModeSolo
	}
	if len(opts.bagPaths) > 0 {
		cfg.DataBagPaths = opts.bagPaths
	}
	if opts.dryRun {
		cfg.DryRun = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newClient builds the server client for the resolved configuration
func newClient(cfg config.Config) *server.Client {
	return server.New(cfg.ServerURL, server.WithUserAgent("databag/"+version.Version))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("databag version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
