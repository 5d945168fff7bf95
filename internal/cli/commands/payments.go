package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swiftstay/admin/internal/api"
)

func bookingTable(items []api.Booking) *table {
	t := &table{header: []string{"ID", "GUEST", "PROPERTY", "CHECK-IN", "AMOUNT", "STATUS", "PAID"}}
	for _, b := range items {
		guest, property := b.UserID, b.PropertyID
		if b.User != nil {
			guest = b.User.FullName
		}
		if b.Property != nil {
			property = b.Property.Name
		}
		t.add(b.ID, guest, property, b.CheckInDate, money(b.TotalAmount, b.Currency), b.Status, yesNo(b.IsPaid))
	}
	return t
}

// NewBookingsCmd creates the bookings command group
func NewBookingsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking"},
		Short:   "Manage guest bookings",
	}

	var filter api.BookingFilter
	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := unwrap(env.Client.ListBookings(cmd.Context(), filter))
			if err != nil {
				return err
			}
			if err := env.emit(list, bookingTable(list.Bookings)); err != nil {
				return err
			}
			pageFooter(env, list.Pagination)
			return nil
		},
	}
	listCmd.Flags().IntVar(&filter.Page, "page", 0, "Page number")
	listCmd.Flags().IntVar(&filter.Limit, "limit", 0, "Bookings per page")
	listCmd.Flags().StringVar(&filter.Status, "status", "", "pending, confirmed, cancelled or completed")
	listCmd.Flags().StringVar(&filter.PropertyID, "property", "", "Only bookings for this property")
	listCmd.Flags().StringVar(&filter.Search, "search", "", "Match guest name, email or payment reference")
	listCmd.Flags().StringVar(&filter.SortBy, "sort-by", "", "createdAt or totalAmount")
	listCmd.Flags().StringVar(&filter.SortOrder, "sort-order", "", "ASC or DESC")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := unwrap(env.Client.GetBooking(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return env.emit(b, bookingTable([]api.Booking{*b}))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show booking counters and revenue",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := unwrap(env.Client.BookingStats(cmd.Context()))
			if err != nil {
				return err
			}
			t := &table{header: []string{"TOTAL", "CONFIRMED", "PENDING", "CANCELLED", "REVENUE"}}
			t.add(count(s.TotalBookings), count(s.ConfirmedBookings), count(s.PendingBookings),
				count(s.CancelledBookings), money(s.TotalRevenue, ""))
			return env.emit(s, t)
		},
	})

	var notes string
	setStatus := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Move a booking to pending, confirmed, cancelled or completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := env.Client.UpdateBookingStatus(cmd.Context(), args[0], args[1], notes)
			b, err := unwrap(res, err)
			if err != nil {
				return err
			}
			if env.Output == OutputTable && res.Message != "" {
				fmt.Fprintf(env.Out, "✓ %s\n", res.Message)
			}
			return env.emit(b, bookingTable([]api.Booking{*b}))
		},
	}
	setStatus.Flags().StringVar(&notes, "notes", "", "Note stored with the status change")
	cmd.AddCommand(setStatus)

	return cmd
}

func transferTable(items []api.Transfer) *table {
	t := &table{header: []string{"ID", "RECIPIENT", "TYPE", "AMOUNT", "FEE", "TOTAL", "STATUS"}}
	for _, tr := range items {
		t.add(tr.ID, tr.RecipientName, tr.TransferType, money(tr.Amount, tr.Currency),
			money(tr.TransferFee, tr.Currency), money(tr.TotalAmount, tr.Currency), tr.Status)
	}
	return t
}

// NewTransfersCmd creates the transfers command group
func NewTransfersCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transfers",
		Aliases: []string{"transfer"},
		Short:   "Manage payouts",
	}

	var filter api.TransferFilter
	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List transfers",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := unwrap(env.Client.ListTransfers(cmd.Context(), filter))
			if err != nil {
				return err
			}
			if err := env.emit(list, transferTable(list.Transfers)); err != nil {
				return err
			}
			pageFooter(env, list.Pagination)
			return nil
		},
	}
	listCmd.Flags().IntVar(&filter.Page, "page", 0, "Page number")
	listCmd.Flags().IntVar(&filter.Limit, "limit", 0, "Transfers per page")
	listCmd.Flags().StringVar(&filter.Status, "status", "", "Only this status")
	listCmd.Flags().StringVar(&filter.TransferType, "type", "", "bank_account, mobile_money or paystack_account")
	listCmd.Flags().StringVar(&filter.Search, "search", "", "Match recipient name or email")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := unwrap(env.Client.GetTransfer(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return env.emit(tr, transferTable([]api.Transfer{*tr}))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show transfer counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := unwrap(env.Client.TransferStats(cmd.Context()))
			if err != nil {
				return err
			}
			t := &table{header: []string{"TOTAL", "SUCCESSFUL", "PENDING", "FAILED", "AMOUNT", "FEES"}}
			t.add(count(s.TotalTransfers), count(s.SuccessfulTransfers), count(s.PendingTransfers),
				count(s.FailedTransfers), money(s.TotalAmount, ""), money(s.TotalFees, ""))
			return env.emit(s, t)
		},
	})

	var file string
	var flags api.TransferInput
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Initiate a transfer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in api.TransferInput
			if file != "" {
				if err := readPayload(file, &in); err != nil {
					return err
				}
			}
			overlayTransfer(cmd, &in, flags)

			res, err := env.Client.CreateTransfer(cmd.Context(), in)
			tr, err := unwrap(res, err)
			if err != nil {
				return err
			}
			if env.Output == OutputTable {
				fmt.Fprintf(env.Out, "✓ %s\n", res.Message)
			}
			return env.emit(tr, transferTable([]api.Transfer{*tr}))
		},
	}
	f := createCmd.Flags()
	f.StringVarP(&file, "file", "f", "", "JSON or YAML file with the transfer")
	f.Float64Var(&flags.Amount, "amount", 0, "Amount to send")
	f.StringVar(&flags.Currency, "currency", "", "Currency (GHS when empty)")
	f.StringVar(&flags.TransferType, "type", "", "bank_account, mobile_money or paystack_account")
	f.StringVar(&flags.RecipientType, "recipient-type", "", "user or external")
	f.StringVar(&flags.RecipientUserID, "user", "", "Recipient user ID (recipient-type user)")
	f.StringVar(&flags.RecipientName, "name", "", "Recipient name")
	f.StringVar(&flags.RecipientEmail, "email", "", "Recipient email")
	f.StringVar(&flags.RecipientPhone, "phone", "", "Recipient phone")
	f.StringVar(&flags.BankCode, "bank-code", "", "Bank code (bank_account)")
	f.StringVar(&flags.AccountNumber, "account-number", "", "Account number (bank_account)")
	f.StringVar(&flags.MobileMoneyProvider, "momo-provider", "", "Mobile money provider (mobile_money)")
	f.StringVar(&flags.MobileMoneyNumber, "momo-number", "", "Mobile money number (mobile_money)")
	f.StringVar(&flags.Reason, "reason", "", "Reason shown to the recipient")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := env.Client.CancelTransfer(cmd.Context(), args[0])
			tr, err := unwrap(res, err)
			if err != nil {
				return err
			}
			if env.Output == OutputTable && res.Message != "" {
				fmt.Fprintf(env.Out, "✓ %s\n", res.Message)
			}
			return env.emit(tr, transferTable([]api.Transfer{*tr}))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "banks",
		Short: "List supported banks",
		RunE: func(cmd *cobra.Command, args []string) error {
			banks, err := unwrap(env.Client.ListBanks(cmd.Context()))
			if err != nil {
				return err
			}
			t := &table{header: []string{"CODE", "NAME"}}
			for _, b := range *banks {
				t.add(b.Code, b.Name)
			}
			return env.emit(banks, t)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "verify-bank <account-number> <bank-code>",
		Short: "Resolve the holder of a bank account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := unwrap(env.Client.VerifyBankAccount(cmd.Context(), args[0], args[1]))
			if err != nil {
				return err
			}
			var account struct {
				AccountNumber string `json:"accountNumber"`
				AccountName   string `json:"accountName"`
			}
			if err := json.Unmarshal(*raw, &account); err != nil {
				return fmt.Errorf("%w: %v", api.ErrMalformedResponse, err)
			}
			t := &table{header: []string{"ACCOUNT", "NAME"}}
			t.add(account.AccountNumber, account.AccountName)
			return env.emit(raw, t)
		},
	})

	return cmd
}

func overlayTransfer(cmd *cobra.Command, in *api.TransferInput, flags api.TransferInput) {
	set := cmd.Flags().Changed
	if set("amount") {
		in.Amount = flags.Amount
	}
	for name, pair := range map[string][2]*string{
		"currency":       {&in.Currency, &flags.Currency},
		"type":           {&in.TransferType, &flags.TransferType},
		"recipient-type": {&in.RecipientType, &flags.RecipientType},
		"user":           {&in.RecipientUserID, &flags.RecipientUserID},
		"name":           {&in.RecipientName, &flags.RecipientName},
		"email":          {&in.RecipientEmail, &flags.RecipientEmail},
		"phone":          {&in.RecipientPhone, &flags.RecipientPhone},
		"bank-code":      {&in.BankCode, &flags.BankCode},
		"account-number": {&in.AccountNumber, &flags.AccountNumber},
		"momo-provider":  {&in.MobileMoneyProvider, &flags.MobileMoneyProvider},
		"momo-number":    {&in.MobileMoneyNumber, &flags.MobileMoneyNumber},
		"reason":         {&in.Reason, &flags.Reason},
	} {
		if set(name) {
			*pair[0] = *pair[1]
		}
	}
}
