package model

import (
	"net/url"
	"testing"
)

// TestConstraintValues tests decoding of stored constraints.
func TestConstraintValues(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		v := url.Values{}
		v.Set("l", "Berlin")
		v.Set("remote", "1")

		c := ConstraintFromValues(v)
		got := c.Values()
		if got.Get("l") != "Berlin" || got.Get("remote") != "1" {
			t.Errorf("Values() = %v", got)
		}
	})

	t.Run("empty constraint decodes to empty values", func(t *testing.T) {
		t.Parallel()

		c := Constraint{}
		if got := c.Values(); len(got) != 0 {
			t.Errorf("Values() = %v, want empty", got)
		}
	})

	t.Run("malformed constraint decodes to empty values", func(t *testing.T) {
		t.Parallel()

		c := Constraint{Params: "%zz=bad"}
		if got := c.Values(); len(got) != 0 {
			t.Errorf("Values() = %v, want empty", got)
		}
	})
}
