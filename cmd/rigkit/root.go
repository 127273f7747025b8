package rigkit

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/rigkit/internal/version"
	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/output"
	"github.com/arthur-debert/rigkit/pkg/topics"
)

// app holds the global flags and what PersistentPreRunE derives from them
type app struct {
	verbosity  int
	configPath string
	formatName string

	cfg    *config.Config
	format output.Format
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}
	rootCmd := &cobra.Command{
		Use:     "rigkit",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.formatName, "format", "", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "terminal", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "rig", Title: "RIG COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newResolveCmd(a))
	rootCmd.AddCommand(newTogglesCmd(a))
	rootCmd.AddCommand(newEvalCmd(a))
	rootCmd.AddCommand(newSetCmd(a))
	rootCmd.AddCommand(newFramesCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	mgr, err := topics.New(topics.Guide(), topics.Options{Renderer: topics.NewGlamourRenderer()})
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return rootCmd
	}
	rootCmd.AddCommand(newTopicsCmd(mgr))
	mgr.Install(rootCmd)
	return rootCmd
}

func newTopicsCmd(mgr *topics.Manager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics [topic]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return mgr.List(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				mgr.WriteIndex(cmd.OutOrStdout(), cmd.Root().Name())
				return nil
			}
			t, ok := mgr.Get(args[0])
			if !ok {
				return errors.Newf(errors.ErrNotFound, "no help topic %q", args[0])
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), mgr.Render(t))
			return err
		},
	}
}

// init loads the configuration and settles the output format
func (a *app) init() error {
	cfg, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to load configuration")
	}
	config.Initialize(cfg)
	a.cfg = cfg

	name := a.formatName
	if name == "" {
		name = cfg.Output.Format
	}
	if a.format, err = output.ParseFormat(name); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "invalid output format")
	}
	return nil
}

func (a *app) renderer(cmd *cobra.Command) (output.Renderer, error) {
	return output.NewRenderer(a.format, cmd.OutOrStdout())
}
