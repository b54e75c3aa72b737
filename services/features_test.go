package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"donlouis-backend/models"

	"github.com/cucumber/godog"
)

type featureContext struct {
	// pricing
	input PricingInput
	quote Quote
	err   error

	// referral
	member *models.Profile

	// lifecycle
	order   *models.Order
	moveErr error

	// wheel
	customer *models.Profile
	wheel    *Wheel
	spinErr  error
}

func (c *featureContext) reset() {
	*c = featureContext{}
}

func sameAmount(want, got float64) error {
	if math.Abs(want-got) > 0.005 {
		return fmt.Errorf("expected %.2f, got %.2f", want, got)
	}
	return nil
}

// pricing steps

func (c *featureContext) aCartWithASubtotalOf(subtotal float64) error {
	c.input.Subtotal = subtotal
	return nil
}

func (c *featureContext) aDeliveryOrderToAZoneWithAFeeOf(fee float64) error {
	c.input.OrderType = models.OrderDelivery
	c.input.Zone = &models.DeliveryZone{ID: "zone_test", Name: "Test", Fee: fee}
	return nil
}

func (c *featureContext) aDeliveryOrderWithoutAZone() error {
	c.input.OrderType = models.OrderDelivery
	c.input.Zone = nil
	return nil
}

func (c *featureContext) aPickupOrder() error {
	c.input.OrderType = models.OrderPickup
	return nil
}

func (c *featureContext) theCustomerHoldsAReward(grantType string, value float64) error {
	c.input.Reward = &models.RewardGrant{Type: models.GrantType(grantType), Value: value, Label: grantType}
	return nil
}

func (c *featureContext) theCustomerHoldsAFree(item string) error {
	c.input.Reward = &models.RewardGrant{Type: models.GrantFreeItem, TargetItemName: item, Label: "Free " + item}
	return nil
}

func (c *featureContext) aTipOf(tip float64) error {
	c.input.Tip = tip
	return nil
}

func (c *featureContext) theOrderIsPriced() error {
	c.quote, c.err = Price(c.input)
	return nil
}

func (c *featureContext) theDiscountIs(v float64) error {
	return sameAmount(v, c.quote.Discount)
}

func (c *featureContext) theDeliveryFeeIs(v float64) error {
	return sameAmount(v, c.quote.DeliveryFee)
}

func (c *featureContext) theTotalIs(v float64) error {
	return sameAmount(v, c.quote.Total)
}

func (c *featureContext) theRewardIsConsumed() error {
	if !c.quote.ConsumeReward {
		return errors.New("expected the reward to be consumed")
	}
	return nil
}

func (c *featureContext) theRewardIsKept() error {
	if c.quote.ConsumeReward {
		return errors.New("expected the reward to be kept")
	}
	return nil
}

func (c *featureContext) theCustomerIsAskedToAdd(item string) error {
	if c.quote.MissingRewardItem != item {
		return fmt.Errorf("expected missing item %q, got %q", item, c.quote.MissingRewardItem)
	}
	return nil
}

func (c *featureContext) theCustomerEarnsPoints(points int) error {
	if c.quote.PointsEarned != points {
		return fmt.Errorf("expected %d points, got %d", points, c.quote.PointsEarned)
	}
	return nil
}

func (c *featureContext) pricingFailsWith(msg string) error {
	if c.err == nil {
		return errors.New("expected pricing to fail")
	}
	if !strings.Contains(c.err.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %q", msg, c.err)
	}
	return nil
}

// referral steps

func (c *featureContext) aMemberWithPhoneHoldingAReward(phone, grantType string) error {
	c.member = &models.Profile{
		Phone:        phone,
		ActiveReward: &models.RewardGrant{Type: models.GrantType(grantType), Label: grantType},
	}
	return nil
}

func (c *featureContext) signsUpWithReferralCode(phone, code string) error {
	if ShouldApplyReferral(code, phone) && code == c.member.Phone {
		ApplyReferral(c.member)
	}
	return nil
}

func (c *featureContext) theMembersActiveRewardIsAPercentDiscount(value int) error {
	r := c.member.ActiveReward
	if r == nil || r.Type != models.GrantDiscountPercent || r.Value != float64(value) {
		return fmt.Errorf("expected a %d%% discount, got %+v", value, r)
	}
	return nil
}

func (c *featureContext) theMemberHasReferrals(n int) error {
	if c.member.ReferralCount != n {
		return fmt.Errorf("expected %d referrals, got %d", n, c.member.ReferralCount)
	}
	return nil
}

// lifecycle steps

func (c *featureContext) anOrderInStatus(orderType, status string) error {
	c.order = &models.Order{OrderType: models.OrderType(orderType), Status: models.OrderStatus(status)}
	return nil
}

func (c *featureContext) theKitchenMovesItTo(status string) error {
	_, c.moveErr = Transition(c.order, models.OrderStatus(status))
	return nil
}

func (c *featureContext) theOrderIs(status string) error {
	if string(c.order.Status) != status {
		return fmt.Errorf("expected status %q, got %q", status, c.order.Status)
	}
	return nil
}

func (c *featureContext) theCustomerSees(label string) error {
	if got := StatusLabel(c.order.Status); got != label {
		return fmt.Errorf("expected label %q, got %q", label, got)
	}
	return nil
}

func (c *featureContext) theMoveIsRejected() error {
	if !errors.Is(c.moveErr, ErrInvalidTransition) {
		return fmt.Errorf("expected an invalid transition, got %v", c.moveErr)
	}
	return nil
}

// wheel steps

func (c *featureContext) aCustomerWhoHasNotSpunYet() error {
	w, err := NewWheel(DefaultPrizes, nil)
	if err != nil {
		return err
	}
	c.wheel = w
	c.customer = &models.Profile{}
	return nil
}

func (c *featureContext) theySpinAt(when string) error {
	loc, err := time.LoadLocation("Asia/Beirut")
	if err != nil {
		return err
	}
	now, err := time.ParseInLocation("2006-01-02 15:04", when, loc)
	if err != nil {
		return err
	}
	c.spinErr = ApplySpin(c.customer, c.wheel.Spin(), now)
	return nil
}

func (c *featureContext) theSpinIsAccepted() error {
	if c.spinErr != nil {
		return fmt.Errorf("expected the spin to be accepted, got %v", c.spinErr)
	}
	return nil
}

func (c *featureContext) theSpinIsRefused() error {
	if !errors.Is(c.spinErr, ErrAlreadySpun) {
		return fmt.Errorf("expected the spin to be refused, got %v", c.spinErr)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	fc := &featureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.reset()
		return ctx, nil
	})

	// Pricing
	ctx.Step(`^a cart with a subtotal of (\d+\.\d+)$`, fc.aCartWithASubtotalOf)
	ctx.Step(`^a delivery order to a zone with a fee of (\d+\.\d+)$`, fc.aDeliveryOrderToAZoneWithAFeeOf)
	ctx.Step(`^a delivery order without a zone$`, fc.aDeliveryOrderWithoutAZone)
	ctx.Step(`^a pickup order$`, fc.aPickupOrder)
	ctx.Step(`^the customer holds a "([^"]*)" reward worth (\d+)$`, fc.theCustomerHoldsAReward)
	ctx.Step(`^the customer holds a free "([^"]*)"$`, fc.theCustomerHoldsAFree)
	ctx.Step(`^a tip of (\d+\.\d+)$`, fc.aTipOf)
	ctx.Step(`^the order is priced$`, fc.theOrderIsPriced)
	ctx.Step(`^the discount is (\d+\.\d+)$`, fc.theDiscountIs)
	ctx.Step(`^the delivery fee is (\d+\.\d+)$`, fc.theDeliveryFeeIs)
	ctx.Step(`^the total is (\d+\.\d+)$`, fc.theTotalIs)
	ctx.Step(`^the reward is consumed$`, fc.theRewardIsConsumed)
	ctx.Step(`^the reward is kept$`, fc.theRewardIsKept)
	ctx.Step(`^the customer is asked to add "([^"]*)"$`, fc.theCustomerIsAskedToAdd)
	ctx.Step(`^the customer earns (\d+) points$`, fc.theCustomerEarnsPoints)
	ctx.Step(`^pricing fails with "([^"]*)"$`, fc.pricingFailsWith)

	// Referral
	ctx.Step(`^a member with phone "([^"]*)" holding a "([^"]*)" reward$`, fc.aMemberWithPhoneHoldingAReward)
	ctx.Step(`^"([^"]*)" signs up with referral code "([^"]*)"$`, fc.signsUpWithReferralCode)
	ctx.Step(`^the member's active reward is a (\d+) percent discount$`, fc.theMembersActiveRewardIsAPercentDiscount)
	ctx.Step(`^the member has (\d+) referrals?$`, fc.theMemberHasReferrals)

	// Lifecycle
	ctx.Step(`^a "([^"]*)" order in status "([^"]*)"$`, fc.anOrderInStatus)
	ctx.Step(`^the kitchen moves it to "([^"]*)"$`, fc.theKitchenMovesItTo)
	ctx.Step(`^the order is "([^"]*)"$`, fc.theOrderIs)
	ctx.Step(`^the customer sees "([^"]*)"$`, fc.theCustomerSees)
	ctx.Step(`^the move is rejected$`, fc.theMoveIsRejected)

	// Wheel
	ctx.Step(`^a customer who has not spun yet$`, fc.aCustomerWhoHasNotSpunYet)
	ctx.Step(`^they spin at "([^"]*)"$`, fc.theySpinAt)
	ctx.Step(`^the spin is accepted$`, fc.theSpinIsAccepted)
	ctx.Step(`^the spin is refused$`, fc.theSpinIsRefused)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
