package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/infrastructure/auth"
	"github.com/iho/feefines/internal/infrastructure/config"
	"github.com/iho/feefines/internal/infrastructure/logger"
	"github.com/iho/feefines/internal/infrastructure/postgres"
)

type actionFlags struct {
	amount          string
	paymentMethod   string
	transactionInfo string
	comments        string
	servicePointID  string
	userName        string
	notifyPatron    bool
}

func (f *actionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount, e.g. 12.50")
	cmd.Flags().StringVar(&f.paymentMethod, "method", "", "Payment method or transfer destination")
	cmd.Flags().StringVar(&f.transactionInfo, "info", "", "Transaction information")
	cmd.Flags().StringVar(&f.comments, "comments", "", "Staff comments")
	cmd.Flags().StringVar(&f.servicePointID, "service-point", "", "Service point ID")
	cmd.Flags().StringVar(&f.userName, "user-name", "", "Acting staff member")
	cmd.Flags().BoolVar(&f.notifyPatron, "notify", false, "Notify the patron")
}

func (f *actionFlags) body() map[string]any {
	return map[string]any{
		"amount":          f.amount,
		"paymentMethod":   f.paymentMethod,
		"transactionInfo": f.transactionInfo,
		"comments":        f.comments,
		"servicePointId":  f.servicePointID,
		"userName":        f.userName,
		"notifyPatron":    f.notifyPatron,
	}
}

func actionCmd(opts *options, action string) *cobra.Command {
	flags := &actionFlags{}

	cmd := &cobra.Command{
		Use:   action + " <fee-fine-id>",
		Short: "Apply " + action + " to one fee/fine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/" + action
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, path, flags.body(), &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	flags.register(cmd)

	return cmd
}

func bulkCmd(opts *options) *cobra.Command {
	flags := &actionFlags{}
	var ids []string

	cmd := &cobra.Command{
		Use:       "bulk <pay|waive|transfer|refund>",
		Short:     "Apply one action across several fees/fines",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pay", "waive", "transfer", "refund"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ids) == 0 {
				return fmt.Errorf("--ids is required")
			}
			body := flags.body()
			body["accountIds"] = ids

			var out map[string]any
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/accounts-bulk/"+args[0], body, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Comma-separated fee/fine IDs")

	return cmd
}

func checkCmd(opts *options) *cobra.Command {
	flags := &actionFlags{}
	var ids []string

	cmd := &cobra.Command{
		Use:   "check <pay|waive|transfer|refund> [fee-fine-id]",
		Short: "Validate an action without applying it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := flags.body()

			var path string
			switch {
			case len(args) == 2:
				path = "/api/v1/accounts/" + url.PathEscape(args[1]) + "/check-" + args[0]
			case len(ids) > 0:
				path = "/api/v1/accounts-bulk/check-" + args[0]
				body["accountIds"] = ids
			default:
				return fmt.Errorf("a fee/fine ID or --ids is required")
			}

			var out map[string]any
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, path, body, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Comma-separated fee/fine IDs for a bulk check")

	return cmd
}

func accountCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Fee/fine operations",
	}

	var create struct {
		userID, typeID, typeName, ownerID, ownerName, loanID, amount string
	}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Charge a patron",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"userId":       create.userID,
				"feeFineId":    create.typeID,
				"feeFineType":  create.typeName,
				"ownerId":      create.ownerID,
				"feeFineOwner": create.ownerName,
				"amount":       create.amount,
			}
			if create.loanID != "" {
				body["loanId"] = create.loanID
			}

			var out map[string]any
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/accounts", body, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	createCmd.Flags().StringVar(&create.userID, "user", "", "Patron ID")
	createCmd.Flags().StringVar(&create.typeID, "type-id", "", "Fee/fine type ID")
	createCmd.Flags().StringVar(&create.typeName, "type", "", "Fee/fine type name")
	createCmd.Flags().StringVar(&create.ownerID, "owner-id", "", "Owner ID")
	createCmd.Flags().StringVar(&create.ownerName, "owner", "", "Owner name")
	createCmd.Flags().StringVar(&create.loanID, "loan", "", "Loan ID")
	createCmd.Flags().StringVar(&create.amount, "amount", "", "Charged amount")

	getCmd := &cobra.Command{
		Use:   "get <fee-fine-id>",
		Short: "Show one fee/fine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/accounts/"+url.PathEscape(args[0]))
		},
	}

	var (
		listUser   string
		listLimit  int
		listOffset int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List fees/fines",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if listUser != "" {
				q.Set("userId", listUser)
			}
			q.Set("limit", strconv.Itoa(listLimit))
			q.Set("offset", strconv.Itoa(listOffset))
			return getAndPrint(cmd, opts, "/api/v1/accounts?"+q.Encode())
		},
	}
	listCmd.Flags().StringVar(&listUser, "user", "", "Only fees/fines of this patron")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Page size")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Page offset")

	actionsCmd := &cobra.Command{
		Use:   "actions <fee-fine-id>",
		Short: "Show the ledger of one fee/fine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/accounts/"+url.PathEscape(args[0])+"/actions")
		},
	}

	targetsCmd := &cobra.Command{
		Use:   "refund-targets <fee-fine-id>",
		Short: "Show where a refund of the fee/fine would go",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/accounts/"+url.PathEscape(args[0])+"/refund-targets")
		},
	}

	cmd.AddCommand(createCmd, getCmd, listCmd, actionsCmd, targetsCmd)
	return cmd
}

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [fee-fine-id]",
		Short: "Replay ledgers against stored balances",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return getAndPrint(cmd, opts, "/api/v1/accounts/"+url.PathEscape(args[0])+"/reconcile")
			}
			return getAndPrint(cmd, opts, "/api/v1/reconciliation")
		},
	}
}

func getAndPrint(cmd *cobra.Command, opts *options, path string) error {
	var out map[string]any
	if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &out); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func tokenCmd() *cobra.Command {
	var (
		secret   string
		userID   string
		userName string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a staff token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if secret == "" {
				secret = cfg.JWTSecret
			}
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}

			token, err := auth.NewJWTManager(secret, cfg.JWTExpiration).Generate(&domain.StaffUser{
				ID:       userID,
				UserName: userName,
				Role:     domain.Role(strings.ToLower(role)),
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVar(&userID, "user-id", "staff", "Staff member ID")
	cmd.Flags().StringVar(&userName, "user-name", "staff", "Staff member name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleOperator), "admin, operator or viewer")

	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrator := func(cmd *cobra.Command) (*postgres.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		log := logger.New(logger.Config{
			Level:   cfg.LogLevel,
			Format:  "console",
			Service: "feefines-cli",
			Output:  cmd.ErrOrStderr(),
		})
		return postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log), nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Down()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return err
		},
	}

	cmd.AddCommand(upCmd, downCmd, versionCmd)
	return cmd
}
