package foundation

import (
	"strings"
	"testing"
)

func TestOption(t *testing.T) {
	t.Run("Some", func(t *testing.T) {
		o := Some("link")
		if !o.IsSome() || o.IsNone() {
			t.Fatal("expected Some")
		}
		v, ok := o.Get()
		if !ok || v != "link" {
			t.Errorf("Get() = %q, %v", v, ok)
		}
		if o.Unwrap() != "link" {
			t.Errorf("Unwrap() = %q", o.Unwrap())
		}
		if o.String() != "Some(link)" {
			t.Errorf("String() = %q", o.String())
		}
	})

	t.Run("None", func(t *testing.T) {
		o := None[string]()
		if o.IsSome() {
			t.Fatal("expected None")
		}
		if _, ok := o.Get(); ok {
			t.Error("Get() on None reported present")
		}
		if got := o.UnwrapOr("fallback"); got != "fallback" {
			t.Errorf("UnwrapOr() = %q", got)
		}
		if o.String() != "None" {
			t.Errorf("String() = %q", o.String())
		}
	})

	t.Run("Unwrap on None panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		None[int]().Unwrap()
	})

	t.Run("MapOption", func(t *testing.T) {
		upper := MapOption(Some("src"), strings.ToUpper)
		if upper.Unwrap() != "SRC" {
			t.Errorf("MapOption(Some) = %v", upper)
		}
		if MapOption(None[string](), strings.ToUpper).IsSome() {
			t.Error("MapOption(None) should stay None")
		}
	})
}
