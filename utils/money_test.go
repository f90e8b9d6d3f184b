package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatARS(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{5, "$5"},
		{999, "$999"},
		{1000, "$1.000"},
		{2200, "$2.200"},
		{58000, "$58.000"},
		{100000, "$100.000"},
		{1234567, "$1.234.567"},
		{-32200, "-$32.200"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatARS(tt.amount))
		})
	}
}
