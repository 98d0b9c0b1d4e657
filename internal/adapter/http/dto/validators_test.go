package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := CreateAccountRequest{
		HolderName: "  John Doe  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "John Doe", req.HolderName)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := CreateAccountRequest{
		HolderName: "John <script>alert('x')</script>",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.HolderName, "&lt;script&gt;")
	assert.NotContains(t, req.HolderName, "<script>")
}

func TestSanitizeStruct_TransferRequest(t *testing.T) {
	req := TransferRequest{
		SourceAccount:      "  SRC1234  ",
		DestinationAccount: " DST5678 ",
		Amount:             100,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "SRC1234", req.SourceAccount)
	assert.Equal(t, "DST5678", req.DestinationAccount)
	assert.Equal(t, 100.0, req.Amount)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestAccountNumberPattern_Valid(t *testing.T) {
	cases := []string{
		"JOH1234",
		"ALI0001",
		"XXX9999",
	}
	for _, tc := range cases {
		assert.True(t, accountNumberRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestAccountNumberPattern_Invalid(t *testing.T) {
	cases := []string{
		"joh1234",  // lowercase
		"JO1234",   // two letters
		"JOHN1234", // four letters
		"JOH123",   // three digits
		"JOH12345", // five digits
		"1234JOH",  // reversed
		"JOH 1234", // space
		"",         // empty
	}
	for _, tc := range cases {
		assert.False(t, accountNumberRe.MatchString(tc), "expected invalid: %s", tc)
	}
}
