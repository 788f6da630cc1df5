package models

import "testing"

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		current, target string
		want            bool
	}{
		{OrderStatusAwaiting, OrderStatusSuccess, true},
		{OrderStatusAwaiting, OrderStatusExpired, true},
		{OrderStatusAwaiting, OrderStatusFailed, true},
		{OrderStatusSuccess, OrderStatusExpired, false},
		{OrderStatusExpired, OrderStatusSuccess, false},
		{OrderStatusFailed, OrderStatusSuccess, false},
	}
	for _, c := range cases {
		if got := CanTransitionTo(c.current, c.target); got != c.want {
			t.Errorf("CanTransitionTo(%s, %s) = %v, want %v", c.current, c.target, got, c.want)
		}
	}
}

func TestTerminalOrderStatuses(t *testing.T) {
	if IsTerminalOrderStatus(OrderStatusAwaiting) {
		t.Error("awaiting_confirmation must not be terminal")
	}
	for _, s := range []string{OrderStatusSuccess, OrderStatusExpired, OrderStatusFailed} {
		if !IsTerminalOrderStatus(s) {
			t.Errorf("%s must be terminal", s)
		}
	}
}
