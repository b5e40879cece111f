package users

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

type stubHasher struct{ err error }

func (h stubHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func seededService(t *testing.T) (Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	if err := SeedDemo(context.Background(), store, stubHasher{}, "demo-pass"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc, err := NewService(store, stubHasher{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestListSearchesNameEmailAndRoleLabel(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	cases := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"1", "2", "3", "4", "5"}},
		{query: "maria", want: []string{"3"}},
		{query: "GERENTE@", want: []string{"2"}},
		{query: "Admin Sistema", want: []string{"1"}},
		{query: "costa", want: []string{"1", "5"}},
		{query: "nobody", want: []string{}},
	}
	for _, tc := range cases {
		got, err := svc.List(ctx, tc.query)
		if err != nil {
			t.Fatalf("list %q: %v", tc.query, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("query %q: expected %v, got %d users", tc.query, tc.want, len(got))
		}
		for i, id := range tc.want {
			if got[i].ID != id {
				t.Fatalf("query %q: position %d expected %s got %s", tc.query, i, id, got[i].ID)
			}
		}
	}
}

func TestCreateHashesAndNormalizes(t *testing.T) {
	svc, store := seededService(t)

	u, err := svc.Create(context.Background(), CreateUserInput{
		Name:     " Carla ",
		Email:    " Carla@Empresa.com ",
		Password: "s3cretpass",
		Role:     "caixa",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "carla@empresa.com" || u.Name != "Carla" || u.Role != enums.UserRoleCaixa {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.PasswordHash != "hashed:s3cretpass" {
		t.Fatalf("expected hashed password, got %q", u.PasswordHash)
	}
	if _, err := store.FindByEmail(context.Background(), "CARLA@empresa.com"); err != nil {
		t.Fatalf("expected lookup by email, got %v", err)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Name: "X", Email: "x@y.com", Password: "longenough", Role: "root"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation for unknown role, got %v", err)
	}

	_, err = svc.Create(ctx, CreateUserInput{Name: "Dup", Email: "GERENTE@empresa.com", Password: "longenough", Role: "gerente"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	failing, _ := NewService(NewMemoryStore(), stubHasher{err: errors.New("too short")})
	_, err = failing.Create(ctx, CreateUserInput{Name: "X", Email: "x@y.com", Password: "p", Role: "caixa"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation when hashing fails, got %v", err)
	}
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	_, store := seededService(t)
	if err := SeedDemo(context.Background(), store, stubHasher{}, "demo-pass"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	all, _ := store.List(context.Background())
	if len(all) != len(DemoUsers()) {
		t.Fatalf("expected %d users, got %d", len(DemoUsers()), len(all))
	}
}

func TestToDTOCarriesRoleBadge(t *testing.T) {
	dto := ToDTO(User{ID: "1", Role: enums.UserRoleAdminEmpresa})
	if dto.RoleBadge.Label != "Admin Empresa" || dto.RoleBadge.Variant != enums.BadgeVariantDestructive {
		t.Fatalf("unexpected badge %+v", dto.RoleBadge)
	}
}
