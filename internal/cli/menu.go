package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"foodapp/internal/api"
	"foodapp/internal/models"

	"github.com/spf13/cobra"
)

func newAddItemCmd(opts *rootOptions) *cobra.Command {
	var form models.FoodItemForm

	cmd := &cobra.Command{
		Use:   "add-item",
		Short: "Add a dish to the seller's menu",
		Long: `Upload a dish with its photo. Categories: ` + strings.Join(models.FoodCategories, ", ") + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			if !a.session.State().IsAuthenticated {
				return errNotLoggedIn
			}

			item, err := a.client.AddFoodItem(cmd.Context(), form)
			if err != nil {
				var apiErr *api.APIError
				if errors.As(err, &apiErr) {
					return errors.New(api.ErrorMessage(err))
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "dish name")
	cmd.Flags().StringVar(&form.Price, "price", "", "price")
	cmd.Flags().StringVar(&form.Category, "category", "", "menu category")
	cmd.Flags().StringVar(&form.Description, "description", "", "short description")
	cmd.Flags().BoolVar(&form.PickUp, "pickup", false, "offer pick up")
	cmd.Flags().BoolVar(&form.Delivery, "delivery", false, "offer delivery")
	cmd.Flags().StringSliceVar(&form.SelectedIngredients, "ingredient", nil, "ingredient id (repeatable)")
	cmd.Flags().StringVar(&form.Image, "image", "", "path or file:// URI of the dish photo")
	return cmd
}

func newMenuCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "List the seller's dishes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			if !a.session.State().IsAuthenticated {
				return errNotLoggedIn
			}

			items, err := a.client.Menu(cmd.Context())
			if err != nil {
				return errors.New(api.ErrorMessage(err))
			}
			printMenu(cmd.OutOrStdout(), items)
			return nil
		},
	}
}

func printMenu(out io.Writer, items []models.FoodItem) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No dishes yet")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tPRICE\tPICKUP\tDELIVERY")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%t\t%t\n", it.Name, it.Category, it.Price, it.PickUp, it.Delivery)
	}
	tw.Flush()
}
