package audit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	users    map[string]*identity.User
	roles    map[string]*identity.Role
	emailErr error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users: map[string]*identity.User{},
		roles: map[string]*identity.Role{},
	}
}

func (d *fakeDirectory) FindUserByEmail(ctx context.Context, email string) (*identity.User, error) {
	if d.emailErr != nil {
		return nil, d.emailErr
	}
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (d *fakeDirectory) FindUserByID(ctx context.Context, id string) (*identity.User, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	return nil, identity.ErrUserNotFound
}

func (d *fakeDirectory) FindRoleByID(ctx context.Context, id string) (*identity.Role, error) {
	if r, ok := d.roles[id]; ok {
		return r, nil
	}
	return nil, identity.ErrRoleNotFound
}

func TestCoordinator_ResolvesActor(t *testing.T) {
	dir := newFakeDirectory()
	dir.users["admin1"] = &identity.User{ID: "admin1", Email: "admin@hra.nhs.uk"}
	c := NewCoordinator(newTestFactory())

	batch := c.Intercept(context.Background(), dir, "ADMIN@hra.nhs.uk", []Change{
		{Entity: &identity.User{ID: "u1", Email: "a@b.com"}, State: StateAdded},
	})

	require.Len(t, batch.Records, 1)
	assert.Equal(t, "a@b.com was created", batch.Records[0].Description)
	require.NotNil(t, batch.Records[0].SystemAdministratorID)
	assert.Equal(t, "admin1", *batch.Records[0].SystemAdministratorID)
	assert.Empty(t, batch.Skipped)
}

func TestCoordinator_MissingActorRecordsNullAdmin(t *testing.T) {
	change := Change{Entity: &identity.User{ID: "u1", Email: "a@b.com"}, State: StateAdded}
	c := NewCoordinator(newTestFactory())

	for name, tc := range map[string]struct {
		email string
		dir   *fakeDirectory
	}{
		"无邮箱":  {"", newFakeDirectory()},
		"用户不存在": {"ghost@b.com", newFakeDirectory()},
		"查询失败": {"admin@b.com", &fakeDirectory{emailErr: errors.New("db down")}},
	} {
		t.Run(name, func(t *testing.T) {
			batch := c.Intercept(context.Background(), tc.dir, tc.email, []Change{change})
			require.Len(t, batch.Records, 1)
			assert.Nil(t, batch.Records[0].SystemAdministratorID)
		})
	}
}

func TestCoordinator_UpdateWithoutDifferencesProducesNothing(t *testing.T) {
	c := NewCoordinator(newTestFactory())
	batch := c.Intercept(context.Background(), newFakeDirectory(), "", []Change{
		{Entity: sampleUser(), State: StateModified, Original: sampleUser()},
	})
	assert.Empty(t, batch.Records)
	assert.Empty(t, batch.Skipped)
}

func TestCoordinator_UpdateProducesOneRecordPerDifference(t *testing.T) {
	before := sampleUser()
	after := sampleUser()
	after.FamilyName = "Byron"
	after.Country = strPtr("UK,France,Germany")

	c := NewCoordinator(newTestFactory())
	batch := c.Intercept(context.Background(), newFakeDirectory(), "", []Change{
		{Entity: after, State: StateModified, Original: before},
	})

	require.Len(t, batch.Records, 2)
	assert.Equal(t, "Lovelace was changed to Byron", batch.Records[0].Description)
	assert.Equal(t, "UK, France was changed to UK, France, Germany", batch.Records[1].Description)
}

func TestCoordinator_MembershipChanges(t *testing.T) {
	dir := newFakeDirectory()
	dir.users["u1"] = &identity.User{ID: "u1", Email: "a@b.com"}
	dir.roles["r1"] = &identity.Role{ID: "r1", Name: "question_set_admin"}
	c := NewCoordinator(newTestFactory())

	batch := c.Intercept(context.Background(), dir, "", []Change{
		{Entity: identity.UserRole{UserID: "u1", RoleID: "r1"}, State: StateAdded},
		{Entity: &identity.UserRole{UserID: "u1", RoleID: "r1"}, State: StateDeleted},
		{Entity: &identity.UserRole{UserID: "u1", RoleID: "r1"}, State: StateModified},
	})

	require.Len(t, batch.Records, 2)
	assert.Equal(t, "a@b.com was assigned question set admin role", batch.Records[0].Description)
	assert.Equal(t, "a@b.com was unassigned question set admin role", batch.Records[1].Description)
	assert.Equal(t, "u1", batch.Records[0].UserID)
}

func TestCoordinator_CounterpartMissIsSkipped(t *testing.T) {
	dir := newFakeDirectory()
	dir.users["u1"] = &identity.User{ID: "u1", Email: "a@b.com"}
	dir.roles["r1"] = &identity.Role{ID: "r1", Name: "reviewer"}
	c := NewCoordinator(newTestFactory())

	batch := c.Intercept(context.Background(), dir, "", []Change{
		{Entity: &identity.UserRole{UserID: "ghost", RoleID: "r1"}, State: StateAdded},
		{Entity: &identity.UserRole{UserID: "u1", RoleID: "missing"}, State: StateAdded},
		{Entity: &identity.UserRole{UserID: "u1", RoleID: "r1"}, State: StateAdded},
	})

	require.Len(t, batch.Records, 1)
	assert.Equal(t, "a@b.com was assigned reviewer role", batch.Records[0].Description)
	require.Len(t, batch.Skipped, 2)
	for _, err := range batch.Skipped {
		assert.ErrorIs(t, err, ErrCounterpartNotFound)
	}
}

func TestCoordinator_IgnoresUnsupportedEntities(t *testing.T) {
	c := NewCoordinator(newTestFactory())
	batch := c.Intercept(context.Background(), newFakeDirectory(), "", []Change{
		{Entity: &identity.Role{ID: "r1", Name: "admin"}, State: StateAdded},
		{Entity: &identity.UserClaim{UserID: "u1"}, State: StateAdded},
		{Entity: &Record{ID: "x"}, State: StateAdded},
		{Entity: &identity.User{ID: "u1", Email: "a@b.com"}, State: StateDeleted},
	})
	assert.Empty(t, batch.Records)
	assert.Empty(t, batch.Skipped)
}

func TestCoordinator_NilDirectory(t *testing.T) {
	c := NewCoordinator(nil)
	batch := c.Intercept(context.Background(), nil, "admin@b.com", []Change{
		{Entity: &identity.User{ID: "u1", Email: "a@b.com"}, State: StateAdded},
		{Entity: &identity.UserRole{UserID: "u1", RoleID: "r1"}, State: StateAdded},
	})
	require.Len(t, batch.Records, 1)
	assert.Nil(t, batch.Records[0].SystemAdministratorID)
	assert.Len(t, batch.Skipped, 1)
}
