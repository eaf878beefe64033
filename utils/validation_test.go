package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMobileNumber(t *testing.T) {
	valid := []string{"0712345678", "0112345678", "+254712345678", "+254112345678"}
	for _, n := range valid {
		assert.True(t, ValidateMobileNumber(n), n)
	}

	invalid := []string{"", "0812345678", "071234567", "07123456789", "254712345678", "0712 345678"}
	for _, n := range invalid {
		assert.False(t, ValidateMobileNumber(n), n)
	}
}

func TestValidateTransactionCode(t *testing.T) {
	assert.True(t, ValidateTransactionCode("QGH7KL2M9P"))
	assert.True(t, ValidateTransactionCode("ABCDE12345"))

	assert.False(t, ValidateTransactionCode("qgh7kl2m9p"))
	assert.False(t, ValidateTransactionCode("QGH7KL2M9"))
	assert.False(t, ValidateTransactionCode("QGH7KL2M9P1"))
	assert.False(t, ValidateTransactionCode(""))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello \n"))
	assert.Equal(t, "", SanitizeString("   "))
}
