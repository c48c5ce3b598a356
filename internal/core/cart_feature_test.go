package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/example/storefront/internal/models"
)

type cartFeatureContext struct {
	t        *testing.T
	env      *testEnv
	user     *models.User
	products map[string]string
	active   *models.CartView
	err      error
}

func (c *cartFeatureContext) reset() {
	c.env = newTestEnv(c.t)
	c.user = nil
	c.products = map[string]string{}
	c.active = nil
	c.err = nil
}

func (c *cartFeatureContext) aRegisteredUser(email string) error {
	c.user = c.env.seedUser(c.t, email, models.RoleUser)
	return nil
}

func (c *cartFeatureContext) aProductPricedWithDiscount(name string, price float64, discount int) error {
	product := c.env.seedProduct(c.t, name, price, float64(discount))
	c.products[name] = product.ID
	return nil
}

func (c *cartFeatureContext) theUserAddsToTheCart(quantity int, name string) error {
	id, ok := c.products[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	view, err := c.env.carts.AddToCart(context.Background(), c.user.ID, models.AddToCartRequest{
		Items: []models.CartItemRequest{{Product: id, Quantity: models.Quantity(strconv.Itoa(quantity))}},
	})
	c.err = err
	if err == nil {
		c.active = view
	}
	return nil
}

func (c *cartFeatureContext) theUserPaysTheActiveCart() error {
	if c.active == nil {
		return errors.New("no active cart")
	}
	_, c.err = c.env.carts.PayCart(context.Background(), c.user.ID, c.active.ID)
	return c.err
}

func (c *cartFeatureContext) theUserPaysACartThatDoesNotExist() error {
	_, c.err = c.env.carts.PayCart(context.Background(), c.user.ID, NewID())
	return nil
}

func (c *cartFeatureContext) theActiveCartTotalIs(total string) error {
	view, err := c.env.carts.GetActiveCart(context.Background(), c.user.ID)
	if err != nil {
		return err
	}
	if view == nil {
		return errors.New("expected an active cart")
	}
	if view.Total != total {
		return fmt.Errorf("expected total %s, got %s", total, view.Total)
	}
	return nil
}

func (c *cartFeatureContext) theUserHasCarts(n int) error {
	carts, err := c.env.carts.GetCarts(context.Background(), c.user.ID)
	if err != nil {
		return err
	}
	if len(carts) != n {
		return fmt.Errorf("expected %d carts, got %d", n, len(carts))
	}
	return nil
}

func (c *cartFeatureContext) cartPaidState(index int, paid bool) error {
	carts, err := c.env.carts.GetCarts(context.Background(), c.user.ID)
	if err != nil {
		return err
	}
	if index < 1 || index > len(carts) {
		return fmt.Errorf("cart %d out of range", index)
	}
	if carts[index-1].Paid != paid {
		return fmt.Errorf("expected cart %d paid=%t", index, paid)
	}
	return nil
}

func (c *cartFeatureContext) cartIsPaid(index int) error {
	return c.cartPaidState(index, true)
}

func (c *cartFeatureContext) cartIsNotPaid(index int) error {
	return c.cartPaidState(index, false)
}

func (c *cartFeatureContext) aReceiptWasQueuedFor(email string) error {
	for _, ev := range c.env.notifier.paid {
		if ev.Email == email {
			return nil
		}
	}
	return fmt.Errorf("no receipt queued for %s", email)
}

func (c *cartFeatureContext) theOperationFailsWith(substring string) error {
	if c.err == nil {
		return errors.New("expected the operation to fail")
	}
	if !strings.Contains(c.err.Error(), substring) {
		return fmt.Errorf("expected error containing %q, got %q", substring, c.err.Error())
	}
	return nil
}

func TestCartFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			tc := &cartFeatureContext{t: t}

			ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
				tc.reset()
				return ctx, nil
			})

			ctx.Step(`^a registered user "([^"]*)"$`, tc.aRegisteredUser)
			ctx.Step(`^a product "([^"]*)" priced (\d+(?:\.\d+)?) with (\d+) percent discount$`, tc.aProductPricedWithDiscount)
			ctx.Step(`^the user adds (\d+) of "([^"]*)" to the cart$`, tc.theUserAddsToTheCart)
			ctx.Step(`^the user pays the active cart$`, tc.theUserPaysTheActiveCart)
			ctx.Step(`^the user pays a cart that does not exist$`, tc.theUserPaysACartThatDoesNotExist)
			ctx.Step(`^the active cart total is "([^"]*)"$`, tc.theActiveCartTotalIs)
			ctx.Step(`^the user has (\d+) carts$`, tc.theUserHasCarts)
			ctx.Step(`^cart (\d+) is paid$`, tc.cartIsPaid)
			ctx.Step(`^cart (\d+) is not paid$`, tc.cartIsNotPaid)
			ctx.Step(`^a receipt was queued for "([^"]*)"$`, tc.aReceiptWasQueuedFor)
			ctx.Step(`^the operation fails with "([^"]*)"$`, tc.theOperationFailsWith)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
