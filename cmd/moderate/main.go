package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banglish/backend/internal/app"
	"github.com/banglish/backend/internal/config"
	"github.com/banglish/backend/internal/logging"
	"github.com/banglish/backend/internal/models"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// env carries what every subcommand needs once config has been loaded.
type env struct {
	cfg    *config.Config
	stores *app.Stores
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	var (
		cfgFile string
		e       env
	)
	v := config.NewViper()

	root := &cobra.Command{
		Use:           "banglish-moderate",
		Short:         "Review user contributions and manage administrators",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Env)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			stores, err := app.OpenStores(ctx, cfg, logger)
			if err != nil {
				return err
			}
			e = env{cfg: cfg, stores: stores, logger: logger}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.stores == nil {
				return nil
			}
			defer e.logger.Sync()
			return e.stores.Close(context.Background())
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./banglish.yaml)")
	root.PersistentFlags().String("data-dir", "./data", "directory for file storage")
	root.PersistentFlags().String("storage", "file", "storage backend: file or mongo")
	v.BindPFlag("storage.data_dir", root.PersistentFlags().Lookup("data-dir"))
	v.BindPFlag("storage.backend", root.PersistentFlags().Lookup("storage"))

	root.AddCommand(
		newListCommand(&e),
		newShowCommand(&e),
		newDecisionCommand(&e, models.StatusApproved),
		newDecisionCommand(&e, models.StatusRejected),
		newCreateAdminCommand(&e),
	)
	return root
}

func newListCommand(e *env) *cobra.Command {
	var (
		status string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contributions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				list []models.Contribution
				err  error
			)
			st := models.ContributionStatus(strings.ToLower(status))
			switch {
			case st == "" || st == "all":
				list, err = e.stores.Contributions.ListRecent(cmd.Context(), limit)
			case st.Valid():
				list, err = e.stores.Contributions.ListByStatus(cmd.Context(), st, limit)
			default:
				return fmt.Errorf("unknown status %q", status)
			}
			if err != nil {
				return err
			}
			printContributions(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(models.StatusPending), "pending, approved, rejected or all")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of contributions to show")
	return cmd
}

func newShowCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one contribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.stores.Contributions.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printContribution(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func newDecisionCommand(e *env, decision models.ContributionStatus) *cobra.Command {
	var (
		reviewer string
		comment  string
	)
	verb := "approve"
	if decision == models.StatusRejected {
		verb = "reject"
	}
	cmd := &cobra.Command{
		Use:   verb + " <id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a pending contribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.stores.Contributions.Moderate(cmd.Context(), args[0], &models.ModerationRequest{
				Decision:   decision,
				ReviewerID: reviewer,
				Comment:    comment,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.ID, c.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&reviewer, "reviewer", "cli", "reviewer recorded on the contribution")
	cmd.Flags().StringVar(&comment, "comment", "", "optional reviewer comment")
	return cmd
}

func newCreateAdminCommand(e *env) *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.stores.Accounts.CreateAdmin(cmd.Context(), &req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.Username, "username", "", "admin username")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func printContributions(w io.Writer, list []models.Contribution) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no contributions")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSUBMITTED\tBANGLISH\tBENGALI")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Status, c.SubmittedAt.Format(time.RFC3339), clip(c.Banglish, 40), clip(c.Bengali, 40))
	}
	tw.Flush()
}

func printContribution(w io.Writer, c *models.Contribution) {
	fmt.Fprintf(w, "id:        %s\n", c.ID)
	fmt.Fprintf(w, "status:    %s\n", c.Status)
	fmt.Fprintf(w, "submitted: %s\n", c.SubmittedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "banglish:  %s\n", c.Banglish)
	fmt.Fprintf(w, "bengali:   %s\n", c.Bengali)
	if c.Feedback != "" {
		fmt.Fprintf(w, "feedback:  %s\n", c.Feedback)
	}
	if c.UserID != "" {
		fmt.Fprintf(w, "user:      %s\n", c.UserID)
	}
	if c.ReviewedAt != nil {
		fmt.Fprintf(w, "reviewed:  %s by %s\n", c.ReviewedAt.Format(time.RFC3339), c.ReviewerID)
		if c.ReviewerComment != "" {
			fmt.Fprintf(w, "comment:   %s\n", c.ReviewerComment)
		}
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
