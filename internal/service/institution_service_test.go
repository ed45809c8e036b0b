package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"go-conference-manager/internal/model"
)

func newInstitutionRequest(name string) model.CreateInstitutionRequest {
	return model.CreateInstitutionRequest{
		Name:      name,
		Address:   "1 Campus Way",
		Email:     "office@example.edu",
		ContactNo: "5550100",
	}
}

func TestInstitutionService_CreateAndDuplicate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	ctx := context.Background()

	inst, err := f.institutions.Create(ctx, newInstitutionRequest("North University"))
	require.NoError(t, err)
	require.NotZero(t, inst.ID)

	_, err = f.institutions.Create(ctx, newInstitutionRequest("north university"))
	require.ErrorIs(t, err, model.ErrDuplicateInstitution)
}

func TestInstitutionService_UpdateRenameCollision(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	ctx := context.Background()

	first, err := f.institutions.Create(ctx, newInstitutionRequest("First"))
	require.NoError(t, err)
	second, err := f.institutions.Create(ctx, newInstitutionRequest("Second"))
	require.NoError(t, err)

	_, err = f.institutions.Update(ctx, second.ID, model.UpdateInstitutionRequest{Name: ptr("First")})
	require.ErrorIs(t, err, model.ErrDuplicateInstitution)

	updated, err := f.institutions.Update(ctx, first.ID, model.UpdateInstitutionRequest{Membership: ptr("Choice2")})
	require.NoError(t, err)
	require.Equal(t, "Choice2", updated.Membership)
	require.Equal(t, "First", updated.Name)
}

func TestInstitutionService_ForUserAndMembers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	ctx := context.Background()

	inst, err := f.institutions.Create(ctx, newInstitutionRequest("Member U"))
	require.NoError(t, err)

	loner := f.seedUser(t, "loner@example.com", "password-1", model.RoleAuthor, true)
	_, err = f.institutions.ForUser(ctx, loner)
	require.ErrorIs(t, err, model.ErrInstitutionNotFound)

	member, err := f.users.Create(ctx, model.CreateUserRequest{
		Name:          "Member",
		Email:         "member@example.com",
		Password:      "longenough",
		InstitutionID: ptr(inst.ID),
	})
	require.NoError(t, err)

	got, err := f.institutions.ForUser(ctx, member)
	require.NoError(t, err)
	require.Equal(t, inst.ID, got.ID)

	members, err := f.institutions.Users(ctx, inst.ID, model.Page{})
	require.NoError(t, err)
	require.Len(t, members, 1)

	_, err = f.institutions.Users(ctx, 999, model.Page{})
	require.ErrorIs(t, err, model.ErrInstitutionNotFound)
}

func TestInstitutionService_DeleteDetachesUsers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	ctx := context.Background()

	inst, err := f.institutions.Create(ctx, newInstitutionRequest("Closing"))
	require.NoError(t, err)

	member, err := f.users.Create(ctx, model.CreateUserRequest{
		Name:          "Member",
		Email:         "member@example.com",
		Password:      "longenough",
		InstitutionID: ptr(inst.ID),
	})
	require.NoError(t, err)

	_, err = f.institutions.Delete(ctx, inst.ID)
	require.NoError(t, err)

	reloaded, err := f.users.Get(ctx, member.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.InstitutionID)

	_, err = f.institutions.Delete(ctx, inst.ID)
	require.ErrorIs(t, err, model.ErrInstitutionNotFound)
}
