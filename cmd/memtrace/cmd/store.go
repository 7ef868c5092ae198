package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	"github.com/msto63/memtrace/internal/render"
	"github.com/msto63/memtrace/internal/store"
)

func newStoreCmd(a *app) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the trace archive",
		Long: `Saves validated traces to a local SQLite archive and reads them back.

Examples:
  memtrace store save --name sb sb.trace
  memtrace store list --name sb
  memtrace store show --format table <id>
  memtrace store rm <id>
  memtrace store stats`,
	}

	storeCmd.AddCommand(
		newStoreSaveCmd(a),
		newStoreListCmd(a),
		newStoreShowCmd(a),
		newStoreRmCmd(a),
		newStoreStatsCmd(a),
	)
	return storeCmd
}

// openStore opens the configured archive
func (a *app) openStore() (*store.SQLiteTraceStore, error) {
	return store.NewSQLiteTraceStore(store.SQLiteTraceConfig{
		Path:        a.cfg.Store.Path,
		BusyTimeout: a.cfg.Store.BusyTimeout.Duration,
		Engine:      a.engine,
		Logger:      a.logger,
	})
}

// withStore runs fn against the archive and closes it afterwards
func (a *app) withStore(fn func(ctx context.Context, st store.TraceStore) error) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(context.Background(), st)
}

func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, mterror.Wrap(err, "invalid trace id").
			WithCode(mterror.CodeInvalidInput).
			WithDetail("id", arg)
	}
	return id, nil
}

func newStoreSaveCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <file|->",
		Short: "Validate a trace and archive it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			t, err := a.engine.Parse(source)
			if err != nil {
				return err
			}

			if name == "" {
				name = displayName(args[0])
			}
			rec := &store.Record{Name: name, Source: source, Trace: t}

			return a.withStore(func(ctx context.Context, st store.TraceStore) error {
				if err := st.Save(ctx, rec); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "record name (default: file name)")
	return cmd
}

func newStoreListCmd(a *app) *cobra.Command {
	var (
		filter store.Filter
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived traces, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(ctx context.Context, st store.TraceStore) error {
				entries, err := st.List(ctx, filter)
				if err != nil {
					return err
				}
				return writeEntries(cmd.OutOrStdout(), entries, format, a.renderOptions())
			})
		},
	}

	cmd.Flags().StringVar(&filter.Name, "name", "", "only names containing this text")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum number of entries")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "entries to skip")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml)")
	return cmd
}

func writeEntries(w io.Writer, entries []*store.Entry, format string, opts render.Options) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		return yaml.NewEncoder(w).Encode(entries)
	case "table":
	default:
		return fmt.Errorf("unknown list format %q (want table, json or yaml)", format)
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"ID", "Name", "Created", "Threads", "Instructions", "Version"})
	for _, e := range entries {
		tw.AppendRow(table.Row{e.ID, e.Name, e.CreatedAt.Local().Format(time.DateTime), e.Threads, e.Instructions, e.ToolVersion})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d traces", len(entries))})
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

func newStoreShowCmd(a *app) *cobra.Command {
	var (
		format string
		source bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an archived trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := a.outputFormat(format)
			if err != nil {
				return err
			}

			return a.withStore(func(ctx context.Context, st store.TraceStore) error {
				rec, err := st.Get(ctx, id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if source {
					_, err := io.WriteString(out, rec.Source)
					return err
				}
				return render.Write(out, rec.Trace, f, a.renderOptions())
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (text, table, json, yaml)")
	cmd.Flags().BoolVar(&source, "source", false, "print the archived source text")
	return cmd
}

func newStoreRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete archived traces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(ctx context.Context, st store.TraceStore) error {
				for _, arg := range args {
					id, err := parseID(arg)
					if err != nil {
						return err
					}
					if err := st.Delete(ctx, id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newStoreStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print archive statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(ctx context.Context, st store.TraceStore) error {
				stats, err := st.Stats(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "archive       %s\n", a.cfg.Store.Path)
				fmt.Fprintf(out, "traces        %d\n", stats.Traces)
				fmt.Fprintf(out, "instructions  %d\n", stats.Instructions)
				if stats.Traces > 0 {
					fmt.Fprintf(out, "oldest        %s\n", stats.Oldest.Local().Format(time.DateTime))
					fmt.Fprintf(out, "newest        %s\n", stats.Newest.Local().Format(time.DateTime))
				}
				return nil
			})
		},
	}
}
