package mtgban

import (
	"testing"
)

var conditionKeyTests = []struct {
	Key    string
	Result ConditionKey
	Err    bool
}{
	{Key: "NM", Result: ConditionKey{Condition: ConditionNM, Finish: FinishRegular}},
	{Key: "SP_foil", Result: ConditionKey{Condition: ConditionSP, Finish: FinishFoil}},
	{Key: "HP_etched", Result: ConditionKey{Condition: ConditionHP, Finish: FinishEtched}},
	{Key: "EX", Result: ConditionKey{Condition: "EX", Finish: FinishRegular}},
	{Key: "NM_shiny", Err: true},
	{Key: "NM_foil_etched", Err: true},
	{Key: "_foil", Err: true},
	{Key: "", Err: true},
}

func TestParseConditionKey(t *testing.T) {
	for _, probe := range conditionKeyTests {
		test := probe
		t.Run(test.Key, func(t *testing.T) {
			t.Parallel()

			ck, err := ParseConditionKey(test.Key)
			if test.Err {
				if err == nil {
					t.Errorf("FAIL: %q: expected error, got %v", test.Key, ck)
				}
				return
			}
			if err != nil {
				t.Errorf("FAIL: %q: unexpected error: %s", test.Key, err)
				return
			}
			if ck != test.Result {
				t.Errorf("FAIL: %q: expected %v, got %v", test.Key, test.Result, ck)
				return
			}
			if ck.String() != test.Key {
				t.Errorf("FAIL: %q: does not round trip, got %q", test.Key, ck.String())
				return
			}

			t.Log("PASS:", test.Key)
		})
	}
}

func TestParseFinish(t *testing.T) {
	finish, err := ParseFinish("Foil")
	if err != nil || finish != FinishFoil {
		t.Errorf("FAIL: expected foil, got %q (%v)", finish, err)
		return
	}
	finish, err = ParseFinish("")
	if err != nil || finish != FinishRegular {
		t.Errorf("FAIL: expected regular, got %q (%v)", finish, err)
		return
	}
	_, err = ParseFinish("holo")
	if err == nil {
		t.Errorf("FAIL: expected error for unknown finish")
		return
	}

	t.Log("PASS: ParseFinish")
}
