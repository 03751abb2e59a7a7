package cli

import (
	"context"
	"fmt"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/spf13/cobra"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage the company profile printed on invoices",
}

var companyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the company profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := appInstance.ProfileService.Get(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Name:      %s\n", p.Name)
		fmt.Printf("Email:     %s\n", p.Email)
		fmt.Printf("Phone:     %s\n", p.Phone)
		fmt.Printf("Address:   %s\n", p.Address)
		fmt.Printf("NIF/RCCM:  %s\n", p.RegistrationID)
		fmt.Printf("IBAN:      %s\n", p.IBAN)
		fmt.Printf("BIC:       %s\n", p.BIC)
		fmt.Printf("Footer:    %s\n", p.FooterText)
		logo := "none"
		if p.LogoDataURL != "" {
			logo = fmt.Sprintf("%d bytes", len(p.LogoDataURL))
		}
		fmt.Printf("Logo:      %s\n", logo)
		return nil
	},
}

var companySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update name and contact details",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		p, err := appInstance.ProfileService.Get(ctx)
		if err != nil {
			return err
		}

		id := domain.CompanyIdentity{Name: p.Name, Email: p.Email, Address: p.Address, Phone: p.Phone}
		for flag, field := range map[string]*string{
			"name":    &id.Name,
			"email":   &id.Email,
			"address": &id.Address,
			"phone":   &id.Phone,
		} {
			if cmd.Flags().Changed(flag) {
				*field, _ = cmd.Flags().GetString(flag)
			}
		}

		if p, err = appInstance.ProfileService.UpdateIdentity(ctx, id); err != nil {
			return err
		}

		fmt.Printf("✓ Company profile updated: %s\n", p.Name)
		return nil
	},
}

var companyBankingCmd = &cobra.Command{
	Use:   "banking",
	Short: "Update registration number and bank details",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		p, err := appInstance.ProfileService.Get(ctx)
		if err != nil {
			return err
		}

		b := domain.CompanyBanking{RegistrationID: p.RegistrationID, IBAN: p.IBAN, BIC: p.BIC}
		for flag, field := range map[string]*string{
			"siret": &b.RegistrationID,
			"iban":  &b.IBAN,
			"bic":   &b.BIC,
		} {
			if cmd.Flags().Changed(flag) {
				*field, _ = cmd.Flags().GetString(flag)
			}
		}

		if _, err := appInstance.ProfileService.UpdateBanking(ctx, b); err != nil {
			return err
		}

		fmt.Println("✓ Banking details updated")
		return nil
	},
}

var companyFooterCmd = &cobra.Command{
	Use:   "footer [text]",
	Short: "Set the footer text printed at the bottom of invoices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := appInstance.ProfileService.UpdateFooter(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("✓ Footer updated")
		return nil
	},
}

var companyLogoCmd = &cobra.Command{
	Use:   "logo [image_file]",
	Short: "Import a logo image, or remove it with --remove",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if remove, _ := cmd.Flags().GetBool("remove"); remove {
			if _, err := appInstance.ProfileService.RemoveLogo(ctx); err != nil {
				return err
			}
			fmt.Println("✓ Logo removed")
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("an image file is required unless --remove is given")
		}
		if _, err := appInstance.ProfileService.ImportLogo(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Logo imported from %s\n", args[0])
		return nil
	},
}

func init() {
	companyCmd.AddCommand(companyShowCmd)
	companyCmd.AddCommand(companySetCmd)
	companyCmd.AddCommand(companyBankingCmd)
	companyCmd.AddCommand(companyFooterCmd)
	companyCmd.AddCommand(companyLogoCmd)

	companySetCmd.Flags().String("name", "", "Company name")
	companySetCmd.Flags().String("email", "", "Contact email")
	companySetCmd.Flags().String("address", "", "Postal address")
	companySetCmd.Flags().String("phone", "", "Phone number")

	companyBankingCmd.Flags().String("siret", "", "Registration number (NIF/RCCM)")
	companyBankingCmd.Flags().String("iban", "", "IBAN")
	companyBankingCmd.Flags().String("bic", "", "BIC")

	companyLogoCmd.Flags().Bool("remove", false, "Remove the current logo")
}
