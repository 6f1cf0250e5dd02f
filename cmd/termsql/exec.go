package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/termsql/termsql"
	"github.com/termsql/termsql/config"
	"github.com/termsql/termsql/db"
	"github.com/termsql/termsql/export"
	"github.com/termsql/termsql/history"
	"xorkevin.dev/kerrors"
)

type execFlags struct {
	connection string
	sql        string
	file       string
	atomic     bool
	maxRows    int
	out        string
	yes        bool
}

func (c *Cmd) getExecCmd() *cobra.Command {
	execCmd := &cobra.Command{
		Use:   "exec",
		Short: "Execute SQL on a configured connection",
		Long: `Executes a SQL buffer on a configured connection. The buffer may hold
multiple statements; they run in order, stopping at the first failure.
With --atomic the whole buffer runs in a single transaction and rolls
back when any statement fails.`,
		Run: c.execExec,
	}
	execCmd.PersistentFlags().StringVarP(&c.execFlags.connection, "connection", "c", "", "name of the configured connection")
	execCmd.MarkPersistentFlagRequired("connection")
	execCmd.PersistentFlags().StringVarP(&c.execFlags.sql, "sql", "s", "", "SQL to execute")
	execCmd.PersistentFlags().StringVarP(&c.execFlags.file, "file", "f", "", "path or URL of a SQL script to execute")
	execCmd.PersistentFlags().BoolVar(&c.execFlags.atomic, "atomic", false, "run the whole buffer in one transaction")
	execCmd.PersistentFlags().IntVar(&c.execFlags.maxRows, "max-rows", 0, "limit result rows (0 uses the configured limit)")
	execCmd.PersistentFlags().StringVarP(&c.execFlags.out, "out", "o", "", "export query results as CSV to a path or s3:// URL")
	execCmd.PersistentFlags().BoolVarP(&c.execFlags.yes, "yes", "y", false, "skip destructive-query confirmation")
	return execCmd
}

func (c *Cmd) execExec(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	sql, err := c.readBuffer(ctx)
	if err != nil {
		c.logFatal(err)
	}

	settings, err := config.Load(c.rootFlags.cfgFile)
	if err != nil {
		c.logFatal(err)
	}
	if c.execFlags.maxRows > 0 {
		settings.MaxRows = c.execFlags.maxRows
	}
	conn, err := settings.Connection(c.execFlags.connection)
	if err != nil {
		c.logFatal(err)
	}

	session, err := c.openSession(conn, settings)
	if err != nil {
		c.logFatal(err)
	}
	defer session.Close()

	if !c.execFlags.yes && session.NeedsConfirmation(sql) {
		ok, err := confirm(os.Stdin, os.Stdout, session.Classify(sql).String())
		if err != nil {
			c.logFatal(err)
		}
		if !ok {
			fmt.Fprintln(os.Stdout, "Cancelled")
			return
		}
	}

	if c.execFlags.atomic {
		res, err := session.ExecuteAtomic(sql)
		if err != nil {
			c.logFatal(err)
		}
		c.renderResult(ctx, res)
		return
	}

	res := session.ExecuteAll(sql)
	c.renderResult(ctx, res)
	if res.HasError() {
		os.Exit(1)
	}
}

// readBuffer resolves the SQL buffer from --sql or --file.
func (c *Cmd) readBuffer(ctx context.Context) (string, error) {
	if c.execFlags.sql != "" && c.execFlags.file != "" {
		return "", kerrors.WithMsg(nil, "Only one of --sql and --file may be set")
	}
	if c.execFlags.sql != "" {
		return c.execFlags.sql, nil
	}
	if c.execFlags.file != "" {
		return export.ReadScript(ctx, c.execFlags.file, export.S3Options{})
	}
	return "", kerrors.WithMsg(nil, "One of --sql and --file is required")
}

func (c *Cmd) openSession(conn *config.Connection, settings *config.Settings) (*termsql.Session, error) {
	var opts []termsql.SessionOpt
	if settings.HistoryDir != "" {
		store, err := history.NewFileStore(settings.HistoryDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, termsql.OptHistory(store))
	}
	return termsql.Open(conn, settings, c.logger, opts...)
}

// confirm prompts for a y/N answer before a destructive buffer runs.
func confirm(in io.Reader, out io.Writer, severity string) (bool, error) {
	fmt.Fprintf(out, "This buffer contains a %s statement. Run it? [y/N] ", strings.ToUpper(severity))
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, kerrors.WithMsg(err, "Failed to read confirmation")
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (c *Cmd) renderResult(ctx context.Context, res db.Result) {
	switch res := res.(type) {
	case db.QueryResult:
		c.renderQueryResult(ctx, res)
	case db.NonQueryResult:
		fmt.Fprintf(os.Stdout, "%d rows affected\n", res.RowsAffected)
	case db.MultiStatementResult:
		for _, stmt := range res.Results {
			if !stmt.Success {
				fmt.Fprintf(os.Stdout, "Error: %s\n", stmt.Err)
				continue
			}
			c.renderResult(ctx, stmt.Result)
		}
	}
}

func (c *Cmd) renderQueryResult(ctx context.Context, res db.QueryResult) {
	if c.execFlags.out != "" {
		w := export.NewCSVWriter(export.S3Options{})
		if err := w.WriteQueryResult(ctx, c.execFlags.out, res); err != nil {
			c.logFatal(err)
		}
		fmt.Fprintf(os.Stdout, "Exported %d rows to %s\n", res.RowCount, c.execFlags.out)
		return
	}

	table := NewTable(os.Stdout)
	table.Header(res.Columns)
	for _, row := range res.Rows {
		table.Row(formatRow(row))
	}
	table.Render()
	if res.Truncated {
		fmt.Fprintf(os.Stdout, "%d rows (truncated)\n", res.RowCount)
	} else {
		fmt.Fprintf(os.Stdout, "%d rows\n", res.RowCount)
	}
}
