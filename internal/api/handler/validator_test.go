package handler

import (
	"strings"
	"testing"
)

func TestValidator_RequiredUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createLoanRequest{Amount: 1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"borrowerId is required", "lenderId is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestValidator_Passes(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(&createUserRequest{Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.Validate(&createLoanRequest{BorrowerID: "a", LenderID: "b"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidator_OtherTagsUseGenericMessage(t *testing.T) {
	type sample struct {
		Code string `json:"code" validate:"min=3"`
	}
	err := NewValidator().Validate(&sample{Code: "ab"})
	if err == nil || err.Error() != "code failed validation (min)" {
		t.Errorf("unexpected error: %v", err)
	}
}
