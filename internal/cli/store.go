package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"woo-admin/internal/store"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func productsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List and edit products",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the most recent products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			return e.printProducts(ctrl.Snapshot().Products)
		},
	}

	var (
		id                                     int64
		file                                   string
		name, regular, sale, status, desc, sku string
		stock                                  int
	)
	save := &cobra.Command{
		Use:   "save",
		Short: "Create a product, or update one with --id",
		Long: `Create a product, or update one with --id.

Updates change only the given flags; everything else stays as stored.
--file reads a product as JSON and ignores the other flags; keys missing
from the file are likewise left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}

			var p store.ProductPatch
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("parsing %s: %w", file, err)
				}
			} else {
				p.ID = id
				flags := cmd.Flags()
				if flags.Changed("name") {
					p.Name = &name
				}
				if flags.Changed("regular-price") {
					p.RegularPrice = &regular
				}
				if flags.Changed("sale-price") {
					p.SalePrice = &sale
				}
				if flags.Changed("status") {
					p.Status = store.Ptr(store.ProductStatus(status))
				}
				if flags.Changed("description") {
					p.Description = &desc
				}
				if flags.Changed("sku") {
					p.SKU = &sku
				}
				if flags.Changed("stock") {
					p.ManageStock = store.Ptr(true)
					p.StockQuantity = &stock
				}
			}

			if p.ID != 0 {
				if err := ctrl.NavigateTo(store.ViewProductEdit, p.ID); err != nil {
					return err
				}
			}
			saved, err := ctrl.SaveProduct(cmd.Context(), p)
			if err != nil {
				return err
			}
			return e.printJSON(saved)
		},
	}
	save.Flags().Int64Var(&id, "id", 0, "product to update")
	save.Flags().StringVarP(&file, "file", "f", "", "product JSON file")
	save.Flags().StringVar(&name, "name", "", "product name")
	save.Flags().StringVar(&regular, "regular-price", "", "regular price, e.g. 19.99")
	save.Flags().StringVar(&sale, "sale-price", "", "sale price; empty removes the sale")
	save.Flags().StringVar(&status, "status", "", "publish, draft or private")
	save.Flags().StringVar(&desc, "description", "", "HTML description")
	save.Flags().StringVar(&sku, "sku", "", "stock keeping unit")
	save.Flags().IntVar(&stock, "stock", 0, "managed stock quantity")
	save.MarkFlagsMutuallyExclusive("file", "id")

	cmd.AddCommand(list, save)
	return cmd
}

func ordersCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders and change their status",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the most recent orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			return e.printOrders(ctrl.Snapshot().Orders)
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one order with its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			o, err := ctrl.OpenOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.printJSON(o)
		},
	}

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an order to a new status",
		Long: fmt.Sprintf(`Move an order to a new status.

Valid statuses: %v`, store.OrderStatuses()),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			o, err := ctrl.SetOrderStatus(cmd.Context(), id, store.OrderStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(e.opts.Out, "Order %d is now %s.\n", o.ID, o.Status)
			return nil
		},
	}

	cmd.AddCommand(list, show, status)
	return cmd
}

func couponsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coupons",
		Short: "Manage discount coupons",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List coupons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctrl.LoadCoupons(cmd.Context()); err != nil {
				return err
			}
			return e.printCoupons(ctrl.Snapshot().Coupons)
		},
	}

	var c store.Coupon
	var discountType, expires string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a coupon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			c.DiscountType = store.DiscountType(discountType)
			if expires != "" {
				c.ExpiresAt = &expires
			}
			created, err := ctrl.CreateCoupon(cmd.Context(), c)
			if err != nil {
				return err
			}
			return e.printJSON(created)
		},
	}
	create.Flags().StringVar(&c.Code, "code", "", "coupon code (required)")
	create.Flags().StringVar(&c.Amount, "amount", "", "discount amount")
	create.Flags().StringVar(&discountType, "type", string(store.DiscountFixedCart), "percent, fixed_cart or fixed_product")
	create.Flags().StringVar(&c.Description, "description", "", "internal note")
	create.Flags().StringVar(&c.MinimumAmount, "minimum", "", "minimum order amount")
	create.Flags().StringVar(&expires, "expires", "", "expiry date, YYYY-MM-DD")
	_ = create.MarkFlagRequired("code")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a coupon permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctrl.DeleteCoupon(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(e.opts.Out, "Coupon %d deleted.\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}
