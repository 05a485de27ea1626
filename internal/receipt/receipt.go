package receipt

import (
	"fmt"
	"strings"
	"time"

	"boutique/internal/model"
)

// Render produces an itemised plain-text receipt for a sale. PDF rendering
// is handled by a separate document service; this representation is what
// gets archived alongside the sale.
func Render(sale *model.Sale, at time.Time) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "Sale Receipt\n")
	fmt.Fprintf(&b, "Sale: %s\n", sale.Number)
	fmt.Fprintf(&b, "Date: %s\n", at.Format(time.RFC1123))

	if sale.Client != nil {
		fmt.Fprintf(&b, "Client: %s\n", sale.Client.Name)
		if sale.Client.Phone != "" {
			fmt.Fprintf(&b, "Phone: %s\n", sale.Client.Phone)
		}
		if sale.Client.Email != "" {
			fmt.Fprintf(&b, "Email: %s\n", sale.Client.Email)
		}
	}

	fmt.Fprintf(&b, "\n%-38s %8s %12s\n", "Item", "Qty", "Amount")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 60))

	var total float64
	for _, item := range sale.Items {
		fmt.Fprintf(&b, "%-38s %8d %12.2f\n", item.InventoryID.String()[:8], item.Quantity, item.Amount)
		total += item.Amount
	}

	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 60))
	fmt.Fprintf(&b, "%-47s %12.2f\n", "Total:", total)
	fmt.Fprintf(&b, "\nThank you for shopping with us!\n")

	return []byte(b.String())
}

// Key returns the storage key for a sale's receipt.
func Key(sale *model.Sale) string {
	return fmt.Sprintf("%s.txt", sale.Number)
}
