package service

import (
	"time"

	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	admin    = domain.Principal{ID: "1", Role: domain.RoleAdmin}
	operator = domain.Principal{ID: "2", Role: domain.RoleOperator}
	stranger = domain.Principal{ID: "3", Role: domain.Role("Auditor")}
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			JWTIssuer:  "microloan-test",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Business: config.BusinessConfig{
			DefaultInterestRate: 26.5,
			MinPrincipal:        "1000",
			DefaultPageSize:     10,
			MaxPageSize:         100,
		},
	}
}

func fixedClock(t time.Time) *clock.Fixed {
	return clock.NewFixed(t)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ratePtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }
