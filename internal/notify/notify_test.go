package notify

import (
	"testing"
)

func TestValue_GetSet(t *testing.T) {
	v := NewValue(1)
	if got := v.Get(); got != 1 {
		t.Errorf("Get() = %d, want 1", got)
	}
	v.Set(2)
	if got := v.Get(); got != 2 {
		t.Errorf("Get() = %d, want 2", got)
	}
}

func TestValue_ZeroValueUsable(t *testing.T) {
	var v Value[string]
	if got := v.Get(); got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
	var seen string
	v.Subscribe(func(s string) { seen = s })
	v.Set("x")
	if seen != "x" {
		t.Errorf("subscriber saw %q, want %q", seen, "x")
	}
}

func TestValue_SubscribersCalledInOrder(t *testing.T) {
	v := NewValue(0)
	var order []string
	v.Subscribe(func(int) { order = append(order, "a") })
	v.Subscribe(func(int) { order = append(order, "b") })
	v.Set(1)

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

func TestValue_Unsubscribe(t *testing.T) {
	v := NewValue(0)
	calls := 0
	unsub := v.Subscribe(func(int) { calls++ })
	v.Set(1)
	unsub()
	unsub()
	v.Set(2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := v.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}
}

func TestValue_UnsubscribeMiddleKeepsOthers(t *testing.T) {
	v := NewValue(0)
	var got []int
	v.Subscribe(func(x int) { got = append(got, x*1) })
	unsub := v.Subscribe(func(x int) { got = append(got, x*10) })
	v.Subscribe(func(x int) { got = append(got, x*100) })
	unsub()
	v.Set(1)

	if len(got) != 2 || got[0] != 1 || got[1] != 100 {
		t.Errorf("got %v, want [1 100]", got)
	}
}

func TestValue_SubscriberMaySetReentrantly(t *testing.T) {
	v := NewValue(0)
	v.Subscribe(func(x int) {
		if x == 1 {
			v.Set(2)
		}
	})
	v.Set(1)
	if got := v.Get(); got != 2 {
		t.Errorf("Get() = %d, want 2", got)
	}
}
