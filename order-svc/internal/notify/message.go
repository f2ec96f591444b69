package notify

import (
	"fmt"
	"strings"

	"quickbite/order-svc/internal/domain"
	"quickbite/order-svc/internal/pricing"
)

// OrderSummary is what the dispatcher needs to describe a new order. Items are the raw client items;
// totals are recomputed from them.
type OrderSummary struct {
	OrderID         string
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	RestaurantName  string
	PaymentMethod   string
	Persisted       bool
	Items           []domain.RawItem
}

type Message struct {
	Text      string
	Total     domain.Money
	ItemCount int
}

func BuildOrderMessage(calc *pricing.Calculator, summary OrderSummary) (Message, error) {
	priced, err := calc.Calculate(summary.Items)
	if err != nil {
		return Message{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New order #%s\n", summary.OrderID)
	if !summary.Persisted {
		b.WriteString("(not persisted: storage unavailable)\n")
	}
	fmt.Fprintf(&b, "Customer: %s\n", orDash(summary.CustomerName))
	fmt.Fprintf(&b, "Phone: %s\n", orDash(summary.CustomerPhone))
	fmt.Fprintf(&b, "Address: %s\n", orDash(summary.DeliveryAddress))
	fmt.Fprintf(&b, "Restaurant: %s\n", orDash(summary.RestaurantName))
	if summary.PaymentMethod != "" {
		fmt.Fprintf(&b, "Payment: %s\n", summary.PaymentMethod)
	}
	fmt.Fprintf(&b, "Items (%d):\n", priced.ItemCount)
	for _, line := range priced.Lines {
		fmt.Fprintf(&b, "• %s × %d — %s\n", orDash(line.Name), line.Quantity, line.Subtotal.String())
	}
	fmt.Fprintf(&b, "Total: %s", priced.Total.String())

	return Message{Text: b.String(), Total: priced.Total, ItemCount: priced.ItemCount}, nil
}

func BuildStatusMessage(order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%s is now %s\n", order.ID, order.Status)
	if order.RestaurantName != "" {
		fmt.Fprintf(&b, "Restaurant: %s\n", order.RestaurantName)
	}
	fmt.Fprintf(&b, "Total: %s", order.TotalAmount.String())
	return b.String()
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
