package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/m4xw311/gpterm/agent"
	"github.com/m4xw311/gpterm/agent/terminal"
	"github.com/m4xw311/gpterm/config"
	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/llm"
	"github.com/m4xw311/gpterm/transcript"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		llmFlag   string
		modelFlag string
		debugFlag bool
	)

	cmd := &cobra.Command{
		Use:   "gpterm [question...]",
		Short: "Chat with a language model from your terminal",
		Long: `gpterm keeps a conversation with a language model in your terminal.

Without arguments it starts an interactive session; type /help for the list of
commands. With arguments, the arguments are sent as a single question and the
reply is printed.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return errors.Wrapf(err, "error loading configuration")
			}
			if llmFlag != "" {
				cfg.LLMClient = llmFlag
			}
			if modelFlag != "" {
				cfg.Model = modelFlag
			}

			logger, closeLog, err := newLogger(cfg.LogFile, debugFlag)
			if err != nil {
				return err
			}
			defer closeLog()

			store, err := transcript.NewStore(cfg.ConversationsDir)
			if err != nil {
				return err
			}

			client, err := llm.NewClient(ctx, cfg.LLMClient, llm.Options{Model: cfg.Model, MaxTokens: cfg.MaxTokens})
			if err != nil {
				return errors.Wrapf(err, "error initializing %s client", cfg.LLMClient)
			}

			a, err := agent.New(cfg, store, client, logger)
			if err != nil {
				return errors.Wrapf(err, "error initializing agent")
			}
			a.Formatter.NoColor = color.NoColor
			logger.WithFields(logrus.Fields{"provider": cfg.LLMClient, "model": cfg.Model}).Debug("gpterm started")

			if len(args) > 0 {
				a.Output = cmd.OutOrStdout()
				return a.Ask(ctx, questionFromArgs(args))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "gpterm is ready. Type your message, or /help for the list of commands.")
			return terminal.New(a).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&llmFlag, "llm", "", "Provider to use: openai, anthropic, gemini, bedrock or mock")
	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model name, overriding the configuration")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "Write debug logs to the log file")
	return cmd
}

// questionFromArgs joins the arguments into one question. A single argument
// wrapped in matching quotes has them removed.
func questionFromArgs(args []string) string {
	if len(args) == 1 {
		arg := args[0]
		if len(arg) >= 2 && (arg[0] == '"' || arg[0] == '\'') && arg[len(arg)-1] == arg[0] {
			return arg[1 : len(arg)-1]
		}
	}
	return strings.Join(args, " ")
}

// newLogger returns a logger that writes to path, or discards everything when
// neither a path nor debug output was requested.
func newLogger(path string, debug bool) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		if path == "" {
			path = config.ExpandHome(filepath.Join("~", config.DirName, "gpterm.log"))
		}
	}
	if path == "" {
		return logger, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, errors.Wrapf(err, "could not create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not open log file %s", path)
	}
	logger.SetOutput(f)
	return logger, func() { f.Close() }, nil
}
