package users

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

const DemoCompanyID = "1"

// DemoUsers returns the staff accounts the register ships with, without credentials.
func DemoUsers() []User {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []User{
		{ID: "1", Name: "Alesxandro Costa", Email: "alesxandrocosta@gmail.com", Role: enums.UserRoleAdminSistema, CompanyID: DemoCompanyID, IsActive: true, CreatedAt: at("2024-01-01T00:00:00Z")},
		{ID: "2", Name: "João Silva", Email: "gerente@empresa.com", Role: enums.UserRoleGerente, CompanyID: DemoCompanyID, IsActive: true, CreatedAt: at("2024-01-15T00:00:00Z")},
		{ID: "3", Name: "Maria Santos", Email: "caixa1@empresa.com", Role: enums.UserRoleCaixa, CompanyID: DemoCompanyID, IsActive: true, CreatedAt: at("2024-02-01T00:00:00Z")},
		{ID: "4", Name: "Pedro Oliveira", Email: "atendente1@empresa.com", Role: enums.UserRoleAtendente, CompanyID: DemoCompanyID, IsActive: true, CreatedAt: at("2024-02-10T00:00:00Z")},
		{ID: "5", Name: "Ana Costa", Email: "supervisor@empresa.com", Role: enums.UserRoleSupervisor, CompanyID: DemoCompanyID, IsActive: true, CreatedAt: at("2024-02-15T00:00:00Z")},
	}
}

// SeedDemo stores the demo accounts, all sharing password. Accounts that
// already exist are left alone.
func SeedDemo(ctx context.Context, store Store, hasher passwordHasher, password string) error {
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	var errs error
	for _, u := range DemoUsers() {
		u.PasswordHash = hash
		if _, err := store.Create(ctx, u); err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
