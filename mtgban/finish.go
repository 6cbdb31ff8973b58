package mtgban

import (
	"fmt"
	"strings"
)

// Finish is the physical variant of a card
type Finish string

const (
	FinishRegular Finish = "regular"
	FinishFoil    Finish = "foil"
	FinishEtched  Finish = "etched"
)

// All the finishes, in display order
var AllFinishes = []Finish{
	FinishRegular, FinishFoil, FinishEtched,
}

func ParseFinish(s string) (Finish, error) {
	switch Finish(strings.ToLower(s)) {
	case FinishRegular, "nonfoil", "":
		return FinishRegular, nil
	case FinishFoil:
		return FinishFoil, nil
	case FinishEtched:
		return FinishEtched, nil
	}
	return "", fmt.Errorf("unknown finish %q", s)
}

// Condition is the wear grade of a card
type Condition string

const (
	ConditionNM Condition = "NM"
	ConditionSP Condition = "SP"
	ConditionMP Condition = "MP"
	ConditionHP Condition = "HP"
	ConditionPO Condition = "PO"
)

// The default list of conditions most vendors output
var DefaultGradeTags = []Condition{
	ConditionNM, ConditionSP, ConditionMP, ConditionHP,
}

// The full list of conditions supported
var FullGradeTags = []Condition{
	ConditionNM, ConditionSP, ConditionMP, ConditionHP, ConditionPO,
}

// ConditionKey is a grade of a card in a specific finish
type ConditionKey struct {
	Condition Condition
	Finish    Finish
}

// String returns the key in the format used by the API
func (ck ConditionKey) String() string {
	if ck.Finish == FinishRegular {
		return string(ck.Condition)
	}
	return string(ck.Condition) + "_" + string(ck.Finish)
}

// ParseConditionKey splits a condition key as found in the API response.
// A bare grade refers to the regular finish, while "_foil" and "_etched"
// suffixes mark the other ones. Any other suffix is rejected.
func ParseConditionKey(key string) (ConditionKey, error) {
	code, suffix, hasSuffix := strings.Cut(key, "_")
	if code == "" {
		return ConditionKey{}, fmt.Errorf("empty condition in key %q", key)
	}
	if !hasSuffix {
		return ConditionKey{Condition: Condition(code), Finish: FinishRegular}, nil
	}

	switch Finish(suffix) {
	case FinishFoil, FinishEtched:
		return ConditionKey{Condition: Condition(code), Finish: Finish(suffix)}, nil
	}
	return ConditionKey{}, fmt.Errorf("unsupported finish suffix in key %q", key)
}

// gradeIndex returns the position of the grade in FullGradeTags, or the
// length of the list for grades not known
func gradeIndex(cond Condition) int {
	for i, tag := range FullGradeTags {
		if tag == cond {
			return i
		}
	}
	return len(FullGradeTags)
}
