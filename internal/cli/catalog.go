package cli

import (
	"context"
	"fmt"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"services"},
	Short:   "Manage the service catalog",
	Long:    `Add, list, edit, and delete the services you bill for.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog services",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		services, err := appInstance.CatalogService.List(ctx)
		if err != nil {
			return err
		}

		if len(services) == 0 {
			fmt.Println("No services found")
			return nil
		}

		fmt.Printf("%-10s %-28s %-18s %-10s %s\n", "ID", "Name", "Unit price", "Pricing", "Description")
		fmt.Println("------------------------------------------------------------------------------------------")

		for _, svc := range services {
			fmt.Printf("%-10s %-28s %-18s %-10s %s\n",
				shortID(svc.ID),
				truncate(svc.Name, 28),
				money(svc.UnitPrice),
				svc.Pricing.Label(),
				truncate(svc.Description, 30),
			)
		}

		fmt.Printf("\nTotal: %d service(s)\n", len(services))
		return nil
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a service to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		priceStr, _ := cmd.Flags().GetString("price")
		price, err := parseDecimal(priceStr)
		if err != nil {
			return err
		}

		pricingStr, _ := cmd.Flags().GetString("pricing")
		pricing, err := domain.ParsePricingType(pricingStr)
		if err != nil {
			return err
		}

		description, _ := cmd.Flags().GetString("description")

		svc, err := appInstance.CatalogService.Create(ctx, args[0], description, price, pricing)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Service created: %s at %s (%s)\n", svc.Name, money(svc.UnitPrice), svc.Pricing.Label())
		return nil
	},
}

var catalogEditCmd = &cobra.Command{
	Use:   "edit [id_or_name]",
	Short: "Edit a catalog service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		svc, err := appInstance.CatalogService.Find(ctx, args[0])
		if err != nil {
			return err
		}

		name, description := svc.Name, svc.Description
		if cmd.Flags().Changed("name") {
			name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("description") {
			description, _ = cmd.Flags().GetString("description")
		}
		price, pricing := svc.UnitPrice, svc.Pricing
		if cmd.Flags().Changed("price") {
			priceStr, _ := cmd.Flags().GetString("price")
			if price, err = parseDecimal(priceStr); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("pricing") {
			pricingStr, _ := cmd.Flags().GetString("pricing")
			if pricing, err = domain.ParsePricingType(pricingStr); err != nil {
				return err
			}
		}

		// reject the whole edit before the first save
		draft := *svc
		draft.Describe(name, description)
		draft.Reprice(price, pricing)
		if err := draft.Validate(); err != nil {
			return err
		}

		if cmd.Flags().Changed("name") || cmd.Flags().Changed("description") {
			if svc, err = appInstance.CatalogService.Describe(ctx, svc.ID, name, description); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("price") || cmd.Flags().Changed("pricing") {
			if svc, err = appInstance.CatalogService.Reprice(ctx, svc.ID, price, pricing); err != nil {
				return err
			}
		}

		fmt.Printf("✓ Service updated: %s at %s (%s)\n", svc.Name, money(svc.UnitPrice), svc.Pricing.Label())
		return nil
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete [id_or_name]",
	Short: "Delete a catalog service (invoice lines are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		svc, err := appInstance.CatalogService.Find(ctx, args[0])
		if err != nil {
			return err
		}

		if err := appInstance.CatalogService.Delete(ctx, svc.ID); err != nil {
			return err
		}

		fmt.Printf("✓ Service deleted: %s\n", svc.Name)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogEditCmd)
	catalogCmd.AddCommand(catalogDeleteCmd)

	catalogAddCmd.Flags().String("price", "", "Unit price (required)")
	catalogAddCmd.MarkFlagRequired("price")
	catalogAddCmd.Flags().String("pricing", string(domain.PricingFlat), "Pricing type (flat, hourly, daily)")
	catalogAddCmd.Flags().String("description", "", "Service description")

	catalogEditCmd.Flags().String("name", "", "New name")
	catalogEditCmd.Flags().String("description", "", "New description")
	catalogEditCmd.Flags().String("price", "", "New unit price")
	catalogEditCmd.Flags().String("pricing", "", "New pricing type")
}
