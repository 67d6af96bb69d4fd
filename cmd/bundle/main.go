// Command bundle exports, imports and summarises site content directly
// against MongoDB, without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/folio/folio/backend/api/internal/database"
	"github.com/folio/folio/backend/api/internal/portability"
	"github.com/folio/folio/backend/api/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:           "bundle",
	Short:         "Move site content in and out of MongoDB as a JSON bundle",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(v.GetString("log-level"))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every collection to a bundle",
	Long: `Write every collection to a bundle.

With --frontend only public content is exported (active services, and
singletons fall back to their defaults when missing).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(ctx context.Context, svc *portability.Service) error {
			out, closeOut, err := output(v.GetString("out"))
			if err != nil {
				return err
			}
			defer closeOut()
			return runExport(ctx, svc, out, v.GetBool("frontend"))
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a bundle, reporting what succeeded and what failed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return withService(cmd.Context(), func(ctx context.Context, svc *portability.Service) error {
			return runImport(ctx, svc, f, cmd.OutOrStdout(), v.GetBool("clear"))
		})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print document counts per collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(ctx context.Context, svc *portability.Service) error {
			return runSummary(ctx, svc, cmd.OutOrStdout())
		})
	},
}

func init() {
	_ = godotenv.Load()
	v.AutomaticEnv()
	v.SetDefault("MONGODB_DATABASE", "portfolio")
	v.SetDefault("MONGODB_TIMEOUT", 10)

	pf := rootCmd.PersistentFlags()
	pf.String("mongo-uri", "", "MongoDB connection string (default $MONGODB_URI)")
	pf.String("database", "", "database name (default $MONGODB_DATABASE)")
	pf.String("log-level", "info", "debug|info|warn|error")
	_ = v.BindPFlag("log-level", pf.Lookup("log-level"))
	_ = v.BindPFlag("mongo-uri", pf.Lookup("mongo-uri"))
	_ = v.BindPFlag("database", pf.Lookup("database"))

	exportCmd.Flags().StringP("out", "o", "-", "output file, - for stdout")
	exportCmd.Flags().Bool("frontend", false, "export only public content")
	_ = v.BindPFlag("out", exportCmd.Flags().Lookup("out"))
	_ = v.BindPFlag("frontend", exportCmd.Flags().Lookup("frontend"))

	importCmd.Flags().Bool("clear", false, "delete existing content before importing")
	_ = v.BindPFlag("clear", importCmd.Flags().Lookup("clear"))

	rootCmd.AddCommand(exportCmd, importCmd, summaryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func withService(ctx context.Context, fn func(context.Context, *portability.Service) error) error {
	uri := firstNonEmpty(v.GetString("mongo-uri"), v.GetString("MONGODB_URI"))
	if uri == "" {
		return fmt.Errorf("no MongoDB URI: set --mongo-uri or MONGODB_URI")
	}
	dbName := firstNonEmpty(v.GetString("database"), v.GetString("MONGODB_DATABASE"))
	timeout := time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second

	client, err := database.ConnectWithRetry(ctx, uri, timeout, 3)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repos, err := database.MongoRepositories(ctx, client.Database(dbName))
	if err != nil {
		return err
	}
	return fn(ctx, portability.ForRepositories(repos))
}

func runExport(ctx context.Context, svc *portability.Service, w io.Writer, frontend bool) error {
	export := svc.Export
	if frontend {
		export = svc.ExportFrontend
	}
	b, err := export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// runImport prints the ledger and fails when any collection failed, so
// scripts can detect a partial import.
func runImport(ctx context.Context, svc *portability.Service, r io.Reader, w io.Writer, clearExisting bool) error {
	var b portability.IncomingBundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	if b.Data == nil {
		return fmt.Errorf("read bundle: missing data")
	}
	res := svc.Import(ctx, &b, clearExisting)
	for _, s := range res.Success {
		fmt.Fprintln(w, "ok   ", s)
	}
	for _, f := range res.Failed {
		fmt.Fprintln(w, "FAIL ", f)
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d collection(s) failed to import", len(res.Failed))
	}
	return nil
}

func runSummary(ctx context.Context, svc *portability.Service, w io.Writer) error {
	counts, err := svc.Summary(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%-16s %d\n", k, counts[k])
	}
	return nil
}

func output(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s != "" {
			return s
		}
	}
	return ""
}
