package apperr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string  `json:"email" validate:"required,email"`
	Price float64 `json:"price" validate:"finite,gt=0"`
	Kind  string  `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		msg  string
	}{
		{"ok", sample{Email: "a@b.co", Price: 1}, ""},
		{"missing email", sample{Price: 1}, "email is required"},
		{"bad email", sample{Email: "nope", Price: 1}, "email must be a valid email"},
		{"zero price", sample{Email: "a@b.co"}, "price must be greater than 0"},
		{"infinite price", sample{Email: "a@b.co", Price: math.Inf(1)}, "price must be a finite number"},
		{"nan price", sample{Email: "a@b.co", Price: math.NaN()}, "price must be a finite number"},
		{"bad kind", sample{Email: "a@b.co", Price: 1, Kind: "c"}, "kind must be one of: a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.msg, Message(err))
		})
	}
}
