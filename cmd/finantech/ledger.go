package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/liviogabriel1/FinanTech-Dash/internal/database"
	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
	"github.com/liviogabriel1/FinanTech-Dash/internal/recurrence"
	"github.com/liviogabriel1/FinanTech-Dash/internal/repository"
	"github.com/liviogabriel1/FinanTech-Dash/internal/service"
)

func init() {
	rootCmd.AddCommand(userCmd, walletCmd, scheduleCmd)

	userCmd.AddCommand(userAddCmd)
	userAddCmd.Flags().String("name", "", "Display name")
	userAddCmd.Flags().String("email", "", "Email address (unique)")
	_ = userAddCmd.MarkFlagRequired("email")

	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletSummaryCmd, walletTransactionsCmd)
	walletTransactionsCmd.Flags().Int("page", 1, "Page number")
	walletTransactionsCmd.Flags().Int("limit", 5, "Transactions per page")
	walletCmd.PersistentFlags().StringP("user", "u", "", "Owner id or email")
	_ = walletCmd.MarkPersistentFlagRequired("user")

	scheduleCmd.AddCommand(scheduleAddCmd, scheduleListCmd, scheduleRemoveCmd)
	scheduleCmd.PersistentFlags().StringP("user", "u", "", "Owner id or email")
	_ = scheduleCmd.MarkPersistentFlagRequired("user")
	scheduleAddCmd.Flags().String("title", "", "Transaction title")
	scheduleAddCmd.Flags().String("amount", "", "Positive amount, e.g. 1500.00")
	scheduleAddCmd.Flags().String("category", "", "Category")
	scheduleAddCmd.Flags().String("type", string(models.TransactionTypeExpense), "INCOME or EXPENSE")
	scheduleAddCmd.Flags().String("frequency", string(models.FrequencyMonthly), "DAILY, WEEKLY or MONTHLY")
	scheduleAddCmd.Flags().String("start", "", "First run date in RFC 3339")
	scheduleAddCmd.Flags().Int("day-of-month", 0, "Day of month qualifier (MONTHLY)")
	scheduleAddCmd.Flags().Int("day-of-week", -1, "Day of week qualifier, 0 = Sunday (WEEKLY)")
	for _, f := range []string{"title", "amount", "start"} {
		_ = scheduleAddCmd.MarkFlagRequired(f)
	}
}

// ledger bundles the services used by the wallet and schedule commands.
type ledger struct {
	db           *database.DB
	users        *repository.UserRepository
	wallets      *service.WalletService
	transactions *service.TransactionService
	schedules    *service.ScheduleService
}

func openLedger(ctx context.Context) (*ledger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	wallets := repository.NewWalletRepository(db)
	transactions := repository.NewTransactionRepository(db)
	return &ledger{
		db:           db,
		users:        repository.NewUserRepository(db),
		wallets:      service.NewWalletService(wallets, transactions),
		transactions: service.NewTransactionService(wallets, transactions),
		schedules:    service.NewScheduleService(wallets, repository.NewScheduleRepository(db)),
	}, nil
}

// user resolves the --user flag, given as an id or an email address.
func (l *ledger) user(ctx context.Context, cmd *cobra.Command) (*models.User, error) {
	ref, _ := cmd.Flags().GetString("user")
	if id, err := uuid.Parse(ref); err == nil {
		return l.users.GetByID(ctx, id)
	}
	u, err := l.users.GetByEmail(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", ref, err)
	}
	return u, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", models.ErrInvalidInput, s)
	}
	return id, nil
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")

		l, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer l.db.Close()

		u := &models.User{Name: name, Email: strings.ToLower(strings.TrimSpace(email))}
		if err := l.users.Create(cmd.Context(), u); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), u.ID)
		return nil
	},
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		l, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer l.db.Close()

		u, err := l.user(ctx, cmd)
		if err != nil {
			return err
		}
		w, err := l.wallets.Create(ctx, u.ID, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), w.ID)
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		l, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer l.db.Close()

		u, err := l.user(ctx, cmd)
		if err != nil {
			return err
		}
		wallets, err := l.wallets.List(ctx, u.ID)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCREATED")
		for _, w := range wallets {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", w.ID, w.Name, w.CreatedAt.Format(time.DateOnly))
		}
		return tw.Flush()
	},
}

var walletSummaryCmd = &cobra.Command{
	Use:   "summary WALLET_ID",
	Short: "Show income, expenses and balance of a wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		walletID, err := parseID(args[0])
		if err != nil {
			return err
		}

		l, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer l.db.Close()

		u, err := l.user(ctx, cmd)
		if err != nil {
			return err
		}
		s, err := l.wallets.Summary(ctx, u.ID, walletID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Income:  %s\nExpense: %s\nBalance: %s\n",
			s.TotalIncome.StringFixed(2), s.TotalExpense.StringFixed(2), s.Balance.StringFixed(2))
		printCategories(cmd, "Expenses by category", s.ExpensesByCategory)
		printCategories(cmd, "Income by category", s.IncomesByCategory)
		return nil
	},
}

var walletTransactionsCmd = &cobra.Command{
	Use:   "transactions WALLET_ID",
	Short: "List a wallet's transactions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		walletID, err := parseID(args[0])
		if err != nil {
			return err
		}

		l, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer l.db.Close()

		u, err := l.user(ctx, cmd)
		if err != nil {
			return err
		}
		p, err := l.transactions.ListByWallet(ctx, u.ID, walletID, page, limit)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tTITLE\tCATEGORY\tTYPE\tAMOUNT")
		for _, tx := range p.Transactions {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				tx.Date.Format(time.DateOnly), tx.Title, tx.Category, tx.Type, tx.Amount.StringFixed(2))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d\n", p.CurrentPage, p.TotalPages)
		return nil
	},
}

func printCategories(cmd *cobra.Command, title string, totals []models.CategoryTotal) {
	if len(totals) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, ct := range totals {
		fmt.Fprintf(out, "  %-20s %s\n", ct.Name, ct.Value.StringFixed(2))
	}
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage scheduled transactions",
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add WALLET_ID",
	Short: "Create a scheduled transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleAdd,
}

func runScheduleAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	title, _ := flags.GetString("title")
	amountStr, _ := flags.GetString("amount")
	category, _ := flags.GetString("category")
	txType, _ := flags.GetString("type")
	frequency, _ := flags.GetString("frequency")
	startStr, _ := flags.GetString("start")
	dom, _ := flags.GetInt("day-of-month")
	dow, _ := flags.GetInt("day-of-week")

	walletID, err := parseID(args[0])
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("%w: invalid amount %q", models.ErrInvalidInput, amountStr)
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return fmt.Errorf("%w: invalid start %q", models.ErrInvalidInput, startStr)
	}

	in := service.ScheduleInput{
		Entry: service.Entry{
			Title:    title,
			Amount:   amount,
			Category: category,
			Type:     models.TransactionType(strings.ToUpper(txType)),
		},
		Frequency: models.Frequency(strings.ToUpper(frequency)),
		StartDate: start,
	}
	if dom > 0 {
		in.DayOfMonth = &dom
	}
	if dow >= 0 {
		in.DayOfWeek = &dow
	}

	l, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer l.db.Close()

	u, err := l.user(ctx, cmd)
	if err != nil {
		return err
	}
	s, err := l.schedules.Create(ctx, u.ID, walletID, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s.ID)
	return nil
}

var scheduleListCmd = &cobra.Command{
	Use:   "list WALLET_ID",
	Short: "List a wallet's scheduled transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		walletID, err := parseID(args[0])
		if err != nil {
			return err
		}

		l, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer l.db.Close()

		u, err := l.user(ctx, cmd)
		if err != nil {
			return err
		}
		schedules, err := l.schedules.ListByWallet(ctx, u.ID, walletID)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tAMOUNT\tTYPE\tRULE\tNEXT RUN")
		for _, s := range schedules {
			rule := string(s.Frequency)
			if r, err := recurrence.Rule(s); err == nil {
				rule = recurrence.Describe(r)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				s.ID, s.Title, s.Amount.StringFixed(2), s.Type, rule, s.NextRunDate.Format(time.RFC3339))
		}
		return tw.Flush()
	},
}

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove SCHEDULE_ID",
	Short: "Delete a scheduled transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		l, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer l.db.Close()

		u, err := l.user(ctx, cmd)
		if err != nil {
			return err
		}
		return l.schedules.Delete(ctx, u.ID, id)
	},
}
