package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
	"xorkevin.dev/klog"
)

type (
	Cmd struct {
		rootCmd      *cobra.Command
		logger       klog.Logger
		log          *klog.LevelLogger
		rootFlags    rootFlags
		execFlags    execFlags
		historyFlags historyFlags
	}

	rootFlags struct {
		cfgFile   string
		debugMode bool
	}
)

func New() *Cmd {
	return &Cmd{}
}

func (c *Cmd) Execute() {
	rootCmd := &cobra.Command{
		Use:   "termsql",
		Short: "A terminal SQL client",
		Long: `A terminal SQL client with transaction-aware execution, multi-statement
buffers, destructive-query alerts, and query history.`,
		PersistentPreRun:  c.initLogger,
		DisableAutoGenTag: true,
	}
	rootCmd.PersistentFlags().StringVar(&c.rootFlags.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/.termsql.yaml)")
	rootCmd.PersistentFlags().BoolVar(&c.rootFlags.debugMode, "debug", false, "turn on debug output")
	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.getExecCmd())
	rootCmd.AddCommand(c.getHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}

func (c *Cmd) initLogger(cmd *cobra.Command, args []string) {
	level := klog.LevelInfo
	if c.rootFlags.debugMode {
		level = klog.LevelDebug
	}
	c.logger = klog.New(
		klog.OptMinLevel(level),
		klog.OptHandler(klog.NewTextSlogHandler(os.Stderr)),
	)
	c.log = klog.NewLevelLogger(c.logger)
}

func (c *Cmd) logFatal(err error) {
	c.log.Err(context.Background(), err)
	os.Exit(1)
}
