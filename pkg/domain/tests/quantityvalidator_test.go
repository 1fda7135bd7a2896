package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Brendan777/Assignment2/pkg/domain/service"
)

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		available int
		want      string
	}{
		{"valid integer", "2", 10, ""},
		{"zero is always valid", "0", 0, ""},
		{"exactly available", "10", 10, ""},
		{"empty value", "", 10, "Not a number. Please enter a non-negative quantity to order."},
		{"not a number", "abc", 10, "Not a number. Please enter a non-negative quantity to order."},
		{"NaN literal", "NaN", 10, "Not a number. Please enter a non-negative quantity to order."},
		{"Inf literal", "Infinity", 10, "Not a number. Please enter a non-negative quantity to order."},
		{"negative Inf literal", "-inf", 10, "Not a number. Please enter a non-negative quantity to order."},
		{"negative non-integer", "-3.5", 10, "Negative inventory and not an integer. Please enter a non-negative quantity."},
		{"negative integer", "-2", 10, "Negative inventory. Please enter a non-negative quantity to order."},
		{"positive non-integer", "2.5", 10, "Not an integer. Please enter a non-negative quantity to order."},
		{"over available", "50", 10, "We do not have 50 available."},
		{"over available by one", "11", 10, "We do not have 11 available."},
		{"whitespace around number is fine", " 3 ", 10, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, service.ValidateQuantity(tc.raw, tc.available))
		})
	}
}

func TestValidateQuantityFirstMatchWins(t *testing.T) {
	// -3.5 is negative, non-integer and over any availability; only the
	// highest-precedence message may come back.
	got := service.ValidateQuantity("-3.5", 0)
	assert.Equal(t, "Negative inventory and not an integer. Please enter a non-negative quantity.", got)

	// 2.5 both exceeds availability and is non-integer; the integer rule
	// outranks the availability rule.
	got = service.ValidateQuantity("2.5", 1)
	assert.Equal(t, "Not an integer. Please enter a non-negative quantity to order.", got)
}

func TestValidateQuantityAcceptsExactly(t *testing.T) {
	// Valid iff a non-negative integer no greater than the availability.
	for qty := 0; qty <= 5; qty++ {
		raw := []string{"0", "1", "2", "3", "4", "5"}[qty]
		msg := service.ValidateQuantity(raw, 3)
		if qty <= 3 {
			assert.Empty(t, msg, "qty %d should be accepted", qty)
		} else {
			assert.NotEmpty(t, msg, "qty %d should be refused", qty)
		}
	}
}
