package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	assert.True(t, Authorize(RoleAdmin, RoleAdmin, RoleOperator))
	assert.True(t, Authorize(RoleOperator, RoleAdmin, RoleOperator))
	assert.False(t, Authorize(RoleOperator, RoleAdmin))
	assert.False(t, Authorize(Role(""), RoleAdmin, RoleOperator))
	assert.False(t, Authorize(RoleAdmin))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	role, ok = ParseRole("OPERATOR")
	assert.True(t, ok)
	assert.Equal(t, RoleOperator, role)

	_, ok = ParseRole("auditor")
	assert.False(t, ok)
}

func TestParseStatuses(t *testing.T) {
	ls, ok := ParseLoanStatus("defaulted")
	assert.True(t, ok)
	assert.Equal(t, LoanStatusDefaulted, ls)

	ps, ok := ParsePaymentStatus("APPROVED")
	assert.True(t, ok)
	assert.Equal(t, PaymentStatusApproved, ps)

	_, ok = ParsePaymentStatus("paid")
	assert.False(t, ok)
}
