// Package pricing turns loosely-typed client line items into canonical lines and an authoritative total.
package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"quickbite/order-svc/internal/domain"
)

type Mode string

const (
	// ModeLenient prices unparseable values at zero so a formatting glitch never loses an order.
	ModeLenient Mode = "lenient"
	// ModeStrict rejects the whole order when any price cannot be parsed.
	ModeStrict Mode = "strict"
)

// Amounts are kept in cents; the bounds match the NUMERIC(10,2) line price and NUMERIC(12,2)
// order total columns.
var (
	MaxUnitPrice = decimal.RequireFromString("99999999.99")
	MaxTotal     = decimal.RequireFromString("9999999999.99")
)

func ParseMode(raw string) Mode {
	if strings.EqualFold(strings.TrimSpace(raw), string(ModeStrict)) {
		return ModeStrict
	}
	return ModeLenient
}

// Aliases is the single mapping from canonical field to the client field names accepted for it,
// in resolution order.
var Aliases = struct {
	DishID    []string
	Name      []string
	UnitPrice []string
	Quantity  []string
	Image     []string
}{
	DishID:    []string{"dish_id", "id"},
	Name:      []string{"dish_name", "name"},
	UnitPrice: []string{"dish_price", "price", "unit_price"},
	Quantity:  []string{"quantity", "qty"},
	Image:     []string{"dish_image", "image_url", "image"},
}

type Line struct {
	DishID    int64
	Name      string
	UnitPrice domain.Money
	Quantity  int
	ImageRef  string
	Subtotal  domain.Money
}

func (l Line) OrderItem() domain.OrderItem {
	return domain.OrderItem{
		DishID:    l.DishID,
		DishName:  l.Name,
		DishPrice: l.UnitPrice,
		Quantity:  l.Quantity,
		DishImage: l.ImageRef,
	}
}

type Result struct {
	Lines     []Line
	Total     domain.Money
	ItemCount int
}

func (r Result) OrderItems() []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(r.Lines))
	for _, line := range r.Lines {
		items = append(items, line.OrderItem())
	}
	return items
}

type Calculator struct {
	mode Mode
}

func NewCalculator(mode Mode) *Calculator {
	if mode == "" {
		mode = ModeLenient
	}
	return &Calculator{mode: mode}
}

func (c *Calculator) Mode() Mode {
	return c.mode
}

// Calculate never trusts a client-declared total; the total is always the sum of unit price × quantity.
func (c *Calculator) Calculate(items []domain.RawItem) (Result, error) {
	result := Result{Lines: make([]Line, 0, len(items))}
	for i, item := range items {
		line, err := c.normalize(item)
		if err != nil {
			return Result{}, fmt.Errorf("%w: item %d: %v", domain.ErrInvalidRequest, i, err)
		}
		result.Lines = append(result.Lines, line)
		result.Total = result.Total.Add(line.Subtotal)
		if result.Total.Abs().GreaterThan(MaxTotal) {
			return Result{}, fmt.Errorf("%w: order total exceeds %s", domain.ErrInvalidRequest, MaxTotal.StringFixed(2))
		}
		result.ItemCount += line.Quantity
	}
	return result, nil
}

func (c *Calculator) normalize(item domain.RawItem) (Line, error) {
	price, err := resolvePrice(item)
	if err != nil {
		if c.mode == ModeStrict {
			return Line{}, err
		}
		price = decimal.Zero
	}
	price = price.Round(2)
	if price.Abs().GreaterThan(MaxUnitPrice) {
		return Line{}, fmt.Errorf("unit price exceeds %s", MaxUnitPrice.StringFixed(2))
	}
	quantity := resolveQuantity(item)

	line := Line{
		DishID:    resolveID(item),
		Name:      resolveString(item, Aliases.Name),
		UnitPrice: domain.NewMoney(price),
		Quantity:  quantity,
		ImageRef:  resolveString(item, Aliases.Image),
	}
	line.Subtotal = line.UnitPrice.Mul(quantity)
	return line, nil
}

func lookup(item domain.RawItem, keys []string) (any, bool) {
	for _, key := range keys {
		if value, ok := item[key]; ok && value != nil {
			if text, isText := value.(string); isText && strings.TrimSpace(text) == "" {
				continue
			}
			return value, true
		}
	}
	return nil, false
}

func resolvePrice(item domain.RawItem) (decimal.Decimal, error) {
	value, ok := lookup(item, Aliases.UnitPrice)
	if !ok {
		return decimal.Zero, nil
	}
	switch v := value.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported price type %T", value)
	}
}

func resolveQuantity(item domain.RawItem) int {
	value, ok := lookup(item, Aliases.Quantity)
	if !ok {
		return 1
	}
	var quantity int64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 1
		}
		quantity = truncate(parsed)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 1
		}
		quantity = parsed
	case float64:
		quantity = truncate(v)
	case int:
		quantity = int64(v)
	case int64:
		quantity = v
	default:
		return 1
	}
	if quantity < 1 || quantity > math.MaxInt32 {
		return 1
	}
	return int(quantity)
}

func truncate(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

func resolveID(item domain.RawItem) int64 {
	value, ok := lookup(item, Aliases.DishID)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case json.Number:
		id, _ := v.Int64()
		return id
	case string:
		id, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return id
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func resolveString(item domain.RawItem, keys []string) string {
	value, ok := lookup(item, keys)
	if !ok {
		return ""
	}
	if text, isText := value.(string); isText {
		return strings.TrimSpace(text)
	}
	return fmt.Sprint(value)
}
