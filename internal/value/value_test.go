package value

import "testing"

func TestEqualNumericCrossKind(t *testing.T) {
	if !Equal(Int(5), Float(5.0)) {
		t.Fatal("expected 5 == 5.0")
	}
	if Equal(Int(5), Float(5.1)) {
		t.Fatal("expected 5 != 5.1")
	}
}

func TestEqualObjectOrderInsensitive(t *testing.T) {
	a := NewObject()
	a.ObjectSet("x", Int(1))
	a.ObjectSet("y", Int(2))

	b := NewObject()
	b.ObjectSet("y", Int(2))
	b.ObjectSet("x", Int(1))

	if !Equal(a, b) {
		t.Fatal("expected order-insensitive object equality")
	}
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v    *Value
		want bool
	}{
		{Null(), false},
		{Bool(false), false},
		{Bool(true), true},
		{Int(0), false},
		{Int(1), true},
		{Float(0), false},
		{String(""), false},
		{String("x"), true},
		{NewArray(nil), false},
		{NewArray([]*Value{Int(1)}), true},
		{NewObject(), false},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("Truthy(%s) = %v, want %v", c.v.String(), got, c.want)
		}
	}
}

func TestResolvePointer(t *testing.T) {
	obj := NewObject()
	obj.ObjectSet("users", NewArray([]*Value{
		func() *Value {
			u := NewObject()
			u.ObjectSet("name", String("Alice"))
			return u
		}(),
	}))

	got, err := Resolve(obj, "/users/0/name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StringValue() != "Alice" {
		t.Fatalf("got %q, want Alice", got.StringValue())
	}

	if _, err := Resolve(obj, "/users/5/name"); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestRoundTripJSON(t *testing.T) {
	src := []byte(`{"a":1,"b":2.5,"c":"hi","d":[1,2,3],"e":null,"f":true}`)
	v, err := ParseJSON(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !v.ObjectGet("a").IsInt() || v.ObjectGet("a").IntValue() != 1 {
		t.Fatal("expected integer 1 for key a")
	}
	if !v.ObjectGet("b").IsFloat() {
		t.Fatal("expected float for key b")
	}
	out, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
	again, err := ParseJSON(out)
	if err != nil {
		t.Fatalf("re-parse error: %v", err)
	}
	if !Equal(v, again) {
		t.Fatalf("round trip changed the value: %s", out)
	}
}
