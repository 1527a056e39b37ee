package service

import (
	"database/sql"
	"errors"

	"github.com/segyhp/microloan-engine/internal/domain"
	customError "github.com/segyhp/microloan-engine/pkg/errors"
)

var (
	staffRoles = []domain.Role{domain.RoleAdmin, domain.RoleOperator}
	adminRoles = []domain.Role{domain.RoleAdmin}
)

// authorize fails with FORBIDDEN unless the principal holds one of roles.
func authorize(p domain.Principal, action string, roles ...domain.Role) error {
	if p.ID == "" {
		return customError.WrapUnauthenticated("missing principal")
	}
	if !domain.Authorize(p.Role, roles...) {
		return customError.WrapForbidden(action)
	}
	return nil
}

// lookupError maps a repository lookup failure to NOT_FOUND or DATABASE_ERROR.
func lookupError(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapNotFound(entity, id)
	}
	return customError.WrapDatabaseError(err)
}
