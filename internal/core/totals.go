package core

import (
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/models"
)

var hundred = decimal.NewFromInt(100)

// unitPrice applies a percentage discount to price, rounded to cents.
func unitPrice(price, discount float64) decimal.Decimal {
	p := decimal.NewFromFloat(price)
	d := decimal.NewFromFloat(discount)
	return p.Mul(hundred.Sub(d)).Div(hundred).Round(2)
}

// priceCart builds the priced view of cart. products maps product ids to
// their populated views; missing products are priced at zero.
func priceCart(cart *models.Cart, products map[string]*models.ProductView) *models.CartView {
	view := &models.CartView{
		ID:        cart.ID,
		Paid:      cart.Paid,
		Items:     make([]models.LineItemView, 0, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}

	total := decimal.Zero
	for _, item := range cart.Items {
		unit := decimal.Zero
		product := products[item.ProductID]
		if product != nil {
			unit = unitPrice(product.Price, product.Discount)
		}
		line := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)

		view.Items = append(view.Items, models.LineItemView{
			Product:   product,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unit.StringFixed(2),
			LineTotal: line.StringFixed(2),
		})
	}
	view.Total = total.StringFixed(2)
	return view
}
