package domain_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
)

type trackingTestContext struct {
	order    *domain.Order
	tracking domain.Tracking
}

func (c *trackingTestContext) reset() {
	c.order = &domain.Order{
		ID:        "c0ffee00-0000-0000-0000-000000000000",
		UserID:    "user-1",
		CreatedAt: time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC),
	}
	c.tracking = domain.Tracking{}
}

func (c *trackingTestContext) anOrderWithStatus(status string) error {
	c.order.Status = domain.Status(status)
	return nil
}

func (c *trackingTestContext) theOrderWasPickedUpOn(date string) error {
	at, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return err
	}
	c.order.PickedAt = &at
	return nil
}

func (c *trackingTestContext) theOrderWasCancelledOn(date string) error {
	at, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return err
	}
	c.order.CancelledAt = &at
	return nil
}

func (c *trackingTestContext) theOrderPriorityIs(priority string) error {
	c.order.Priority = domain.Priority(priority)
	return nil
}

func (c *trackingTestContext) iProjectTheOrder() error {
	c.tracking = domain.Project(c.order)
	return nil
}

func (c *trackingTestContext) theBadgeLabelIs(label string) error {
	if c.tracking.Badge.Label != label {
		return fmt.Errorf("expected badge %q, got %q", label, c.tracking.Badge.Label)
	}
	return nil
}

func (c *trackingTestContext) theTimelineIs(keys string) error {
	got := make([]string, 0, len(c.tracking.Steps))
	for _, step := range c.tracking.Steps {
		got = append(got, step.Key)
	}
	if strings.Join(got, ",") != keys {
		return fmt.Errorf("expected timeline %s, got %s", keys, strings.Join(got, ","))
	}
	return nil
}

func (c *trackingTestContext) theActiveStepsAre(keys string) error {
	var got []string
	for _, step := range c.tracking.Steps {
		if step.Active {
			got = append(got, step.Key)
		}
	}
	if strings.Join(got, ",") != keys {
		return fmt.Errorf("expected active steps %s, got %s", keys, strings.Join(got, ","))
	}
	return nil
}

func (c *trackingTestContext) stepIsDated(key, date string) error {
	step, err := c.step(key)
	if err != nil {
		return err
	}
	if step.Date == nil {
		return fmt.Errorf("step %s has no date", key)
	}
	if got := step.Date.Format(time.DateOnly); got != date {
		return fmt.Errorf("step %s dated %s, expected %s", key, got, date)
	}
	return nil
}

func (c *trackingTestContext) stepHasNoDate(key string) error {
	step, err := c.step(key)
	if err != nil {
		return err
	}
	if step.Date != nil {
		return fmt.Errorf("step %s unexpectedly dated %s", key, step.Date)
	}
	return nil
}

func (c *trackingTestContext) stepIsMarkedCancelled(key string) error {
	step, err := c.step(key)
	if err != nil {
		return err
	}
	if !step.Cancelled {
		return fmt.Errorf("step %s is not marked cancelled", key)
	}
	return nil
}

func (c *trackingTestContext) theOrderCanBeCancelled() error {
	if !c.tracking.CanCancel {
		return fmt.Errorf("expected order in status %s to be cancellable", c.order.Status)
	}
	return nil
}

func (c *trackingTestContext) theOrderCannotBeCancelled() error {
	if c.tracking.CanCancel {
		return fmt.Errorf("expected order in status %s not to be cancellable", c.order.Status)
	}
	return nil
}

func (c *trackingTestContext) thePriorityBadgeIs(label string) error {
	if c.tracking.PriorityBadge == nil {
		return fmt.Errorf("expected priority badge %q, got none", label)
	}
	if c.tracking.PriorityBadge.Label != label {
		return fmt.Errorf("expected priority badge %q, got %q", label, c.tracking.PriorityBadge.Label)
	}
	return nil
}

func (c *trackingTestContext) thereIsNoPriorityBadge() error {
	if c.tracking.PriorityBadge != nil {
		return fmt.Errorf("unexpected priority badge %q", c.tracking.PriorityBadge.Label)
	}
	return nil
}

func (c *trackingTestContext) step(key string) (domain.Step, error) {
	for _, step := range c.tracking.Steps {
		if step.Key == key {
			return step, nil
		}
	}
	return domain.Step{}, fmt.Errorf("no step %q in timeline", key)
}

func initializeTrackingScenario(ctx *godog.ScenarioContext) {
	tc := &trackingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^an order with status "([^"]*)"$`, tc.anOrderWithStatus)
	ctx.Step(`^the order was picked up on "([^"]*)"$`, tc.theOrderWasPickedUpOn)
	ctx.Step(`^the order was cancelled on "([^"]*)"$`, tc.theOrderWasCancelledOn)
	ctx.Step(`^the order priority is "([^"]*)"$`, tc.theOrderPriorityIs)

	ctx.Step(`^I project the order$`, tc.iProjectTheOrder)

	ctx.Step(`^the badge label is "([^"]*)"$`, tc.theBadgeLabelIs)
	ctx.Step(`^the timeline is "([^"]*)"$`, tc.theTimelineIs)
	ctx.Step(`^the active steps are "([^"]*)"$`, tc.theActiveStepsAre)
	ctx.Step(`^step "([^"]*)" is dated "([^"]*)"$`, tc.stepIsDated)
	ctx.Step(`^step "([^"]*)" has no date$`, tc.stepHasNoDate)
	ctx.Step(`^step "([^"]*)" is marked cancelled$`, tc.stepIsMarkedCancelled)
	ctx.Step(`^the order can be cancelled$`, tc.theOrderCanBeCancelled)
	ctx.Step(`^the order cannot be cancelled$`, tc.theOrderCannotBeCancelled)
	ctx.Step(`^the priority badge is "([^"]*)"$`, tc.thePriorityBadgeIs)
	ctx.Step(`^there is no priority badge$`, tc.thereIsNoPriorityBadge)
}

func TestTrackingFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeTrackingScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/order_tracking.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
