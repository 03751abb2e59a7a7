package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/mail"
	"github.com/andy/proinvoice/internal/render"
	"github.com/andy/proinvoice/internal/service"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, edit, render, send and track invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoices, err := appInstance.InvoiceService.List(ctx)
		if err != nil {
			return err
		}
		clients, err := appInstance.ClientService.List(ctx)
		if err != nil {
			return err
		}

		// Parse filters
		if cmd.Flags().Changed("status") {
			statusStr, _ := cmd.Flags().GetString("status")
			status, err := domain.ParseInvoiceStatus(statusStr)
			if err != nil {
				return err
			}
			invoices = filterInvoices(invoices, func(inv *domain.Invoice) bool { return inv.Status == status })
		}
		if cmd.Flags().Changed("client") {
			ref, _ := cmd.Flags().GetString("client")
			client, err := appInstance.ClientService.Find(ctx, ref)
			if err != nil {
				return err
			}
			invoices = filterInvoices(invoices, func(inv *domain.Invoice) bool { return inv.ClientID == client.ID })
		}

		if len(invoices) == 0 {
			fmt.Println("No invoices found")
			return nil
		}

		fmt.Printf("%-15s %-24s %-11s %-11s %-18s %-16s\n", "Number", "Client", "Date", "Due", "Total", "Status")
		fmt.Println("----------------------------------------------------------------------------------------------")

		for _, inv := range invoices {
			fmt.Printf("%-15s %-24s %-11s %-11s %-18s %-16s\n",
				inv.Number,
				truncate(domain.ClientName(clients, inv.ClientID), 24),
				inv.IssueDate.Format(dateLayout),
				inv.DueDate.Format(dateLayout),
				money(inv.Total()),
				inv.Status.Label(),
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesNextNumberCmd = &cobra.Command{
	Use:   "next-number",
	Short: "Print the number the next invoice will get",
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := appInstance.InvoiceService.NextNumber(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(number)
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create [client_id_or_name]",
	Short: "Create a new draft invoice",
	Long: `Create a new draft invoice. At least one line is required.

Examples:
  proinvoice invoices create Acme --item "Design:2:150"
  proinvoice invoices create Acme --service Audit:3 --tax 19.25 --due 2024-07-31`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now()

		client, err := appInstance.ClientService.Find(ctx, args[0])
		if err != nil {
			return err
		}

		input := service.NewInvoiceInput{ClientID: client.ID}
		input.Notes, _ = cmd.Flags().GetString("notes")

		if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
			if input.IssueDate, err = parseDate(dateStr, now); err != nil {
				return fmt.Errorf("invalid issue date: %w", err)
			}
		}
		if dueStr, _ := cmd.Flags().GetString("due"); dueStr != "" {
			if input.DueDate, err = parseDate(dueStr, now); err != nil {
				return fmt.Errorf("invalid due date: %w", err)
			}
		}
		if cmd.Flags().Changed("tax") {
			taxStr, _ := cmd.Flags().GetString("tax")
			rate, err := parseDecimal(taxStr)
			if err != nil {
				return err
			}
			input.TaxRate = &rate
		}

		specs, _ := cmd.Flags().GetStringArray("item")
		for _, spec := range specs {
			item, err := parseItemSpec(spec)
			if err != nil {
				return err
			}
			input.Items = append(input.Items, item)
		}

		serviceSpecs, _ := cmd.Flags().GetStringArray("service")
		for _, spec := range serviceSpecs {
			ref, qty, err := parseServiceSpec(spec)
			if err != nil {
				return err
			}
			svc, err := appInstance.CatalogService.Find(ctx, ref)
			if err != nil {
				return err
			}
			input.Items = append(input.Items, domain.ItemFromService(svc, qty))
		}

		inv, err := appInstance.InvoiceService.Create(ctx, input)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Draft invoice created: %s\n", inv.Number)
		fmt.Printf("  Client: %s\n", client.Name)
		fmt.Printf("  Due:    %s\n", inv.DueDate.Format(dateLayout))
		fmt.Printf("  Total:  %s\n", money(inv.Total()))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id_or_number]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(context.Background(), args[0])
		if err != nil {
			return err
		}
		return render.TextRenderer{}.Render(os.Stdout, doc)
	},
}

var invoicesRenderCmd = &cobra.Command{
	Use:   "render [id_or_number]",
	Short: "Render a printable invoice to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(context.Background(), args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		renderer, err := render.ByFormat(format)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "-" {
			return renderer.Render(os.Stdout, doc)
		}
		if output == "" {
			output = filepath.Join(appInstance.Config.Invoice.OutputDir, render.FileName(doc.Invoice, renderer))
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()

		if err := renderer.Render(f, doc); err != nil {
			return err
		}

		fmt.Printf("✓ Invoice %s written to %s\n", doc.Invoice.Number, output)
		return nil
	},
}

var invoicesAddItemCmd = &cobra.Command{
	Use:   "add-item [invoice] [description] [quantity] [unit_price]",
	Short: "Add a free-form line to an invoice",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}
		qty, err := parseDecimal(args[2])
		if err != nil {
			return err
		}
		price, err := parseDecimal(args[3])
		if err != nil {
			return err
		}

		inv, err = appInstance.InvoiceService.AddItem(ctx, inv.ID, args[1], qty, price)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Line added to %s\n", inv.Number)
		printTotals(inv)
		return nil
	},
}

var invoicesAddServiceCmd = &cobra.Command{
	Use:   "add-service [invoice] [service] [quantity]",
	Short: "Add a catalog service as a line",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}
		svc, err := appInstance.CatalogService.Find(ctx, args[1])
		if err != nil {
			return err
		}
		qtyStr := "1"
		if len(args) == 3 {
			qtyStr = args[2]
		}
		qty, err := parseDecimal(qtyStr)
		if err != nil {
			return err
		}

		inv, err = appInstance.InvoiceService.AddCatalogItem(ctx, inv.ID, svc.ID, qty)
		if err != nil {
			return err
		}

		fmt.Printf("✓ %s added to %s\n", svc.Name, inv.Number)
		printTotals(inv)
		return nil
	},
}

var invoicesUpdateItemCmd = &cobra.Command{
	Use:   "update-item [invoice] [line]",
	Short: "Edit a line of an invoice (lines are numbered from 1)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}
		item, err := itemAt(inv, args[1])
		if err != nil {
			return err
		}

		description, qty, price := item.Description, item.Quantity, item.UnitPrice
		if cmd.Flags().Changed("description") {
			description, _ = cmd.Flags().GetString("description")
		}
		if cmd.Flags().Changed("qty") {
			s, _ := cmd.Flags().GetString("qty")
			if qty, err = parseDecimal(s); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("price") {
			s, _ := cmd.Flags().GetString("price")
			if price, err = parseDecimal(s); err != nil {
				return err
			}
		}

		inv, err = appInstance.InvoiceService.UpdateItem(ctx, inv.ID, item.ID, description, qty, price)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Line %s of %s updated\n", args[1], inv.Number)
		printTotals(inv)
		return nil
	},
}

var invoicesRemoveItemCmd = &cobra.Command{
	Use:   "remove-item [invoice] [line]",
	Short: "Remove a line from an invoice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}
		item, err := itemAt(inv, args[1])
		if err != nil {
			return err
		}

		inv, err = appInstance.InvoiceService.RemoveItem(ctx, inv.ID, item.ID)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Removed %q from %s\n", item.Description, inv.Number)
		printTotals(inv)
		return nil
	},
}

var invoicesScheduleCmd = &cobra.Command{
	Use:   "schedule [invoice]",
	Short: "Change the issue or due date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now()

		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}

		issue, due := inv.IssueDate, inv.DueDate
		if cmd.Flags().Changed("date") {
			s, _ := cmd.Flags().GetString("date")
			if issue, err = parseDate(s, now); err != nil {
				return fmt.Errorf("invalid issue date: %w", err)
			}
		}
		if cmd.Flags().Changed("due") {
			s, _ := cmd.Flags().GetString("due")
			if due, err = parseDate(s, now); err != nil {
				return fmt.Errorf("invalid due date: %w", err)
			}
		}

		inv, err = appInstance.InvoiceService.UpdateSchedule(ctx, inv.ID, issue, due)
		if err != nil {
			return err
		}

		fmt.Printf("✓ %s dated %s, due %s\n", inv.Number, inv.IssueDate.Format(dateLayout), inv.DueDate.Format(dateLayout))
		return nil
	},
}

var invoicesBillingCmd = &cobra.Command{
	Use:   "billing [invoice]",
	Short: "Change the billed client or the tax rate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}

		clientID, rate := inv.ClientID, inv.TaxRate
		if cmd.Flags().Changed("client") {
			ref, _ := cmd.Flags().GetString("client")
			client, err := appInstance.ClientService.Find(ctx, ref)
			if err != nil {
				return err
			}
			clientID = client.ID
		}
		if cmd.Flags().Changed("tax") {
			s, _ := cmd.Flags().GetString("tax")
			if rate, err = parseDecimal(s); err != nil {
				return err
			}
		}

		inv, err = appInstance.InvoiceService.UpdateBilling(ctx, inv.ID, clientID, rate)
		if err != nil {
			return err
		}

		fmt.Printf("✓ %s billing updated (tax %s)\n", inv.Number, render.Rate(inv.TaxRate))
		printTotals(inv)
		return nil
	},
}

var invoicesNotesCmd = &cobra.Command{
	Use:   "notes [invoice] [text]",
	Short: "Replace the notes printed on an invoice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}
		if inv, err = appInstance.InvoiceService.UpdateNotes(ctx, inv.ID, args[1]); err != nil {
			return err
		}

		fmt.Printf("✓ Notes of %s updated\n", inv.Number)
		return nil
	},
}

var invoicesStatusCmd = &cobra.Command{
	Use:   "status [invoice] [status]",
	Short: "Set the status (draft, sent, pending, paid, late)",
	Long: `Set the status of an invoice. Paid invoices are locked and can no longer change.

Valid statuses: draft, sent, pending, paid, late`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		status, err := domain.ParseInvoiceStatus(args[1])
		if err != nil {
			return err
		}
		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}
		if inv, err = appInstance.InvoiceService.SetStatus(ctx, inv.ID, status); err != nil {
			return err
		}

		fmt.Printf("✓ %s is now %s\n", inv.Number, inv.Status.Label())
		return nil
	},
}

var invoicesSendCmd = &cobra.Command{
	Use:   "send [invoice]",
	Short: "Open an e-mail to the client; a draft becomes sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		via, _ := cmd.Flags().GetString("via")
		sender, err := mail.ByName(via, os.Stdout)
		if err != nil {
			return err
		}

		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}
		inv, msg, err := appInstance.InvoiceService.Dispatch(ctx, inv.ID, sender)
		if err != nil {
			return err
		}

		fmt.Printf("✓ %s handed to %s (%s)\n", inv.Number, msg.To, inv.Status.Label())
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [invoice]",
	Short: "Delete an invoice (paid invoices cannot be deleted)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(fmt.Sprintf("Delete invoice %s?", inv.Number)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.Delete(ctx, inv.ID); err != nil {
			return err
		}

		fmt.Printf("✓ Invoice deleted: %s\n", inv.Number)
		return nil
	},
}

func loadDocument(ctx context.Context, ref string) (render.Document, error) {
	inv, err := appInstance.InvoiceService.Find(ctx, ref)
	if err != nil {
		return render.Document{}, err
	}
	clients, err := appInstance.ClientService.List(ctx)
	if err != nil {
		return render.Document{}, err
	}
	company, err := appInstance.ProfileService.Get(ctx)
	if err != nil {
		return render.Document{}, err
	}
	return render.NewDocument(inv, clients, company, appInstance.Config.Invoice.Currency), nil
}

func printTotals(inv *domain.Invoice) {
	totals := inv.ComputeTotals()
	fmt.Printf("  Subtotal: %s\n", money(totals.Subtotal))
	if inv.TaxRate.IsPositive() {
		fmt.Printf("  Tax (%s): %s\n", render.Rate(inv.TaxRate), money(totals.TaxAmount))
	}
	fmt.Printf("  Total:    %s\n", money(totals.Total))
}

func filterInvoices(invoices []*domain.Invoice, keep func(*domain.Invoice) bool) []*domain.Invoice {
	out := invoices[:0]
	for _, inv := range invoices {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	return out
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesNextNumberCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesRenderCmd)
	invoicesCmd.AddCommand(invoicesAddItemCmd)
	invoicesCmd.AddCommand(invoicesAddServiceCmd)
	invoicesCmd.AddCommand(invoicesUpdateItemCmd)
	invoicesCmd.AddCommand(invoicesRemoveItemCmd)
	invoicesCmd.AddCommand(invoicesScheduleCmd)
	invoicesCmd.AddCommand(invoicesBillingCmd)
	invoicesCmd.AddCommand(invoicesNotesCmd)
	invoicesCmd.AddCommand(invoicesStatusCmd)
	invoicesCmd.AddCommand(invoicesSendCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)

	// List flags
	invoicesListCmd.Flags().String("client", "", "Filter by client ID or name")
	invoicesListCmd.Flags().String("status", "", "Filter by status ("+statusNames()+")")

	// Create flags
	invoicesCreateCmd.Flags().String("date", "", "Issue date (defaults to today)")
	invoicesCreateCmd.Flags().String("due", "", "Due date (defaults to the configured delay)")
	invoicesCreateCmd.Flags().String("tax", "", "Tax rate in percent, e.g. 19.25")
	invoicesCreateCmd.Flags().String("notes", "", "Notes printed on the invoice")
	invoicesCreateCmd.Flags().StringArray("item", nil, "Line as description:quantity:price (repeatable)")
	invoicesCreateCmd.Flags().StringArray("service", nil, "Catalog service as name[:quantity] (repeatable)")

	invoicesRenderCmd.Flags().String("format", "html", "Output format (text, html)")
	invoicesRenderCmd.Flags().StringP("output", "o", "", "Output file, '-' for stdout (defaults to the output directory)")

	invoicesUpdateItemCmd.Flags().String("description", "", "New description")
	invoicesUpdateItemCmd.Flags().String("qty", "", "New quantity")
	invoicesUpdateItemCmd.Flags().String("price", "", "New unit price")

	invoicesScheduleCmd.Flags().String("date", "", "New issue date")
	invoicesScheduleCmd.Flags().String("due", "", "New due date")

	invoicesBillingCmd.Flags().String("client", "", "Client ID or name")
	invoicesBillingCmd.Flags().String("tax", "", "Tax rate in percent")

	invoicesSendCmd.Flags().String("via", "open", "How to hand over the e-mail (open, print, clipboard)")

	invoicesDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}

func statusNames() string {
	names := make([]string, len(domain.InvoiceStatuses))
	for i, s := range domain.InvoiceStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
