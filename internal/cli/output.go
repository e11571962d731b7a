package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"woo-admin/internal/store"
)

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.opts.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes tab-separated rows aligned into columns.
func (e *env) table(header string, rows func(w io.Writer)) error {
	w := tabwriter.NewWriter(e.opts.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}

func (e *env) printProducts(products []store.Product) error {
	if e.asJSON {
		return e.printJSON(products)
	}
	return e.table("ID\tNAME\tSTATUS\tPRICE\tSTOCK", func(w io.Writer) {
		for _, p := range products {
			price := p.Price
			if p.OnSale {
				price = p.SalePrice + " (sale)"
			}
			stock := "-"
			if n, ok := p.Stock(); ok {
				stock = strconv.Itoa(n)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Status, price, stock)
		}
	})
}

func (e *env) printOrders(orders []store.Order) error {
	if e.asJSON {
		return e.printJSON(orders)
	}
	return e.table("ID\tDATE\tCUSTOMER\tSTATUS\tTOTAL", func(w io.Writer) {
		for _, o := range orders {
			customer := o.Billing.FirstName + " " + o.Billing.LastName
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s %s\n", o.ID, o.CreatedAt, customer, o.Status, o.Total, o.Currency)
		}
	})
}

func (e *env) printCoupons(coupons []store.Coupon) error {
	if e.asJSON {
		return e.printJSON(coupons)
	}
	return e.table("ID\tCODE\tTYPE\tAMOUNT\tUSED", func(w io.Writer) {
		for _, c := range coupons {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", c.ID, c.Code, c.DiscountType, c.Amount, c.UsageCount)
		}
	})
}
