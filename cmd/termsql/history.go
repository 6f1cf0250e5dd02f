package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/termsql/termsql/config"
	"github.com/termsql/termsql/history"
	"xorkevin.dev/kerrors"
)

type historyFlags struct {
	connection string
	starred    bool
}

func (c *Cmd) getHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Manage query history",
	}
	historyCmd.PersistentFlags().StringVarP(&c.historyFlags.connection, "connection", "c", "", "name of the configured connection")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved queries",
		Run:   c.execHistoryList,
	}
	listCmd.Flags().BoolVar(&c.historyFlags.starred, "starred", false, "list starred queries instead")
	historyCmd.AddCommand(listCmd)

	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear history for a connection",
		Run:   c.execHistoryClear,
	})

	historyCmd.AddCommand(&cobra.Command{
		Use:   "star [query]",
		Short: "Toggle the star on a query",
		Args:  cobra.ExactArgs(1),
		Run:   c.execHistoryStar,
	})

	return historyCmd
}

func (c *Cmd) openHistoryStore() (*history.Store, error) {
	settings, err := config.Load(c.rootFlags.cfgFile)
	if err != nil {
		return nil, err
	}
	if settings.HistoryDir == "" {
		return nil, kerrors.WithMsg(nil, "history_dir is not configured")
	}
	return history.NewFileStore(settings.HistoryDir)
}

func (c *Cmd) execHistoryList(cmd *cobra.Command, args []string) {
	store, err := c.openHistoryStore()
	if err != nil {
		c.logFatal(err)
	}

	var entries []history.Entry
	switch {
	case c.historyFlags.starred:
		if c.historyFlags.connection == "" {
			c.logFatal(kerrors.WithMsg(nil, "--connection is required with --starred"))
		}
		entries, err = store.LoadStarred(c.historyFlags.connection)
	case c.historyFlags.connection != "":
		entries, err = store.LoadForConnection(c.historyFlags.connection)
	default:
		entries, err = store.LoadAll()
	}
	if err != nil {
		c.logFatal(err)
	}

	table := NewTable(os.Stdout)
	table.Header([]string{"connection", "executed", "query"})
	for _, entry := range entries {
		table.Row([]string{
			entry.Connection,
			entry.Timestamp.Format(time.RFC3339),
			entry.Query,
		})
	}
	table.Render()
}

func (c *Cmd) execHistoryClear(cmd *cobra.Command, args []string) {
	if c.historyFlags.connection == "" {
		c.logFatal(kerrors.WithMsg(nil, "--connection is required"))
	}
	store, err := c.openHistoryStore()
	if err != nil {
		c.logFatal(err)
	}
	count, err := store.ClearForConnection(c.historyFlags.connection)
	if err != nil {
		c.logFatal(err)
	}
	fmt.Fprintf(os.Stdout, "Cleared %d queries\n", count)
}

func (c *Cmd) execHistoryStar(cmd *cobra.Command, args []string) {
	if c.historyFlags.connection == "" {
		c.logFatal(kerrors.WithMsg(nil, "--connection is required"))
	}
	store, err := c.openHistoryStore()
	if err != nil {
		c.logFatal(err)
	}
	starred, err := store.ToggleStar(c.historyFlags.connection, args[0])
	if err != nil {
		c.logFatal(err)
	}
	if starred {
		fmt.Fprintln(os.Stdout, "Starred")
	} else {
		fmt.Fprintln(os.Stdout, "Unstarred")
	}
}
