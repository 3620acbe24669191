package resource

import "testing"

func ptr[V any](v V) *V { return &v }

func TestAssign_TruthyIgnoresZeroValues(t *testing.T) {
	stock, name, active := 10, "old", true

	Assign(&stock, ptr(0), UpdateTruthy)
	Assign(&name, ptr(""), UpdateTruthy)
	Assign(&active, ptr(false), UpdateTruthy)

	if stock != 10 || name != "old" || !active {
		t.Fatalf("zero values applied: stock=%d name=%q active=%v", stock, name, active)
	}

	Assign(&stock, ptr(3), UpdateTruthy)
	Assign(&name, nil, UpdateTruthy)
	if stock != 3 || name != "old" {
		t.Fatalf("stock=%d name=%q", stock, name)
	}
}

func TestAssign_PresentAppliesZeroValues(t *testing.T) {
	stock, name, active := 10, "old", true

	Assign(&stock, ptr(0), UpdatePresent)
	Assign(&name, ptr(""), UpdatePresent)
	Assign(&active, ptr(false), UpdatePresent)
	Assign(&stock, nil, UpdatePresent)

	if stock != 0 || name != "" || active {
		t.Fatalf("stock=%d name=%q active=%v", stock, name, active)
	}
}

func TestParseUpdateMode(t *testing.T) {
	cases := map[string]UpdateMode{
		"":         UpdateTruthy,
		"truthy":   UpdateTruthy,
		" Present": UpdatePresent,
	}
	for in, want := range cases {
		got, err := ParseUpdateMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseUpdateMode(%q)=%v,%v want %v", in, got, err, want)
		}
	}
	if _, err := ParseUpdateMode("always"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestParseLimit_NumericPrefix(t *testing.T) {
	cases := map[string]int{
		"": 0, "2": 2, "abc": 0, "-1": 0, "0": 0,
		"2abc": 2, " 3": 3, "+4": 4, "1.9": 1, "-": 0, "99999999999999999999": 0,
	}
	for in, want := range cases {
		if got := ParseLimit(in); got != want {
			t.Fatalf("ParseLimit(%q)=%d want %d", in, got, want)
		}
	}
}
