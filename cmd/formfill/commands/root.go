package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/internal/config"
	"github.com/goliatone/go-formfill/internal/logging"
	"github.com/goliatone/go-formfill/pkg/brasilapi"
	"github.com/goliatone/go-formfill/pkg/fill"
	"github.com/goliatone/go-formfill/pkg/tui"
)

type state struct {
	configPath string
	baseURL    string
	output     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	format tui.OutputFormat
}

// Execute runs the formfill command tree.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree with fresh flag state.
func NewRootCommand() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:           "formfill",
		Short:         "Mask and look up Brazilian CEP and CNPJ values",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if st.logger != nil {
				_ = st.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&st.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&st.baseURL, "base-url", "", "BrasilAPI base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVarP(&st.output, "output", "o", string(tui.OutputFormatJSON), "output format: json, yaml or pretty")

	root.AddCommand(
		formatCmd(),
		lookupCmd(st, fill.FieldCEP, "Look up a CEP and print the address fields"),
		lookupCmd(st, fill.FieldCNPJ, "Look up a CNPJ and print the company and address fields"),
		interactiveCmd(st),
	)
	return root
}

func (st *state) setup() error {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	if base := strings.TrimSpace(st.baseURL); base != "" {
		cfg.Lookup.BaseURL = base
	}
	st.cfg = cfg

	format, err := tui.ParseOutputFormat(st.output)
	if err != nil {
		return err
	}
	st.format = format

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development, st.verbose)
	if err != nil {
		return err
	}
	st.logger = logger.Named("formfill")
	st.logger.Debug("configuration loaded",
		zap.String("config", st.configPath),
		zap.String("base_url", cfg.Lookup.BaseURL),
		zap.Duration("timeout", cfg.Lookup.Timeout),
	)
	return nil
}

func (st *state) filler() (*fill.Filler, error) {
	if st.cfg == nil {
		return nil, errors.New("formfill: configuration not loaded")
	}
	client := brasilapi.NewClient(
		brasilapi.WithBaseURL(st.cfg.Lookup.BaseURL),
		brasilapi.WithTimeout(st.cfg.Lookup.Timeout),
	)
	f, err := fill.New(client,
		fill.WithLogger(st.logger),
		fill.WithChainPause(st.cfg.Lookup.ChainPause),
	)
	if err != nil {
		return nil, fmt.Errorf("formfill: %w", err)
	}
	return f, nil
}
