package identity

import (
	"context"
	"testing"
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, svc *UserService, email, given, family string, mutate ...func(*UserDetails)) *User {
	t.Helper()
	d := UserDetails{Email: email, GivenName: given, FamilyName: family, Status: "active"}
	for _, m := range mutate {
		m(&d)
	}
	u, err := svc.Register(context.Background(), d)
	require.NoError(t, err)
	return u
}

func TestUserService_Register(t *testing.T) {
	svc := NewUserService(initTestDB(t))
	ctx := context.Background()

	u := registerUser(t, svc, " a@b.com ", "Ada", "Lovelace")
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "a@b.com", u.UserName)
	assert.NotNil(t, u.LastUpdated)

	_, err := svc.Register(ctx, UserDetails{Email: "A@B.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Register(ctx, UserDetails{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestUserService_UpdateMovesCurrentLogin(t *testing.T) {
	svc := NewUserService(initTestDB(t))
	ctx := context.Background()
	first := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	registerUser(t, svc, "a@b.com", "Ada", "Lovelace")

	u, err := svc.Update(ctx, "a@b.com", UserDetails{Email: "a@b.com", GivenName: "Ada", FamilyName: "Lovelace", Status: "active", CurrentLogin: &first})
	require.NoError(t, err)
	assert.Nil(t, u.LastLogin)
	require.NotNil(t, u.CurrentLogin)

	u, err = svc.Update(ctx, "a@b.com", UserDetails{Email: "new@b.com", GivenName: "Ada", FamilyName: "Byron", Status: "active", CurrentLogin: &second})
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.True(t, u.LastLogin.Equal(first))
	assert.True(t, u.CurrentLogin.Equal(second))
	assert.Equal(t, "new@b.com", u.UserName)

	// 不带 CurrentLogin 时登录时间不变
	u, err = svc.Update(ctx, "new@b.com", UserDetails{Email: "new@b.com", GivenName: "Ada", FamilyName: "Byron", Status: "disabled"})
	require.NoError(t, err)
	assert.True(t, u.LastLogin.Equal(first))

	stored, err := svc.Find(ctx, "", "new@b.com")
	require.NoError(t, err)
	assert.Equal(t, "Byron", stored.FamilyName)
	assert.Equal(t, "disabled", stored.Status)
}

func TestUserService_UpdateErrors(t *testing.T) {
	svc := NewUserService(initTestDB(t))
	ctx := context.Background()
	registerUser(t, svc, "a@b.com", "Ada", "Lovelace")
	registerUser(t, svc, "c@d.com", "Charles", "Babbage")

	_, err := svc.Update(ctx, "missing@b.com", UserDetails{Email: "missing@b.com"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Update(ctx, "a@b.com", UserDetails{Email: "C@D.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Update(ctx, "a@b.com", UserDetails{Email: ""})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestUserService_FindAndDelete(t *testing.T) {
	svc := NewUserService(initTestDB(t))
	ctx := context.Background()
	u := registerUser(t, svc, "a@b.com", "Ada", "Lovelace")

	_, err := svc.Find(ctx, "", "")
	assert.ErrorIs(t, err, ErrMissingParameters)

	byID, err := svc.Find(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", byID.Email)

	require.NoError(t, svc.Delete(ctx, u.ID, ""))
	_, err = svc.Find(ctx, u.ID, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID, ""), ErrUserNotFound)
}

func TestUserService_List(t *testing.T) {
	svc := NewUserService(initTestDB(t))
	ctx := context.Background()
	login := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	registerUser(t, svc, "ada@hra.nhs.uk", "Ada", "Lovelace", func(d *UserDetails) { d.Country = strPtr("England,Wales") })
	registerUser(t, svc, "charles@hra.nhs.uk", "Charles", "Babbage", func(d *UserDetails) {
		d.Country = strPtr("Scotland")
		d.Status = "disabled"
	})
	registerUser(t, svc, "grace@navy.mil", "Grace", "Hopper")
	_, err := svc.Update(ctx, "grace@navy.mil", UserDetails{Email: "grace@navy.mil", GivenName: "Grace", FamilyName: "Hopper", Status: "active", CurrentLogin: &login})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "grace@navy.mil", UserDetails{Email: "grace@navy.mil", GivenName: "Grace", FamilyName: "Hopper", Status: "active", CurrentLogin: &login})
	require.NoError(t, err)

	page := types.PageRequest{PageIndex: 1, PageSize: 10}

	all, total, err := svc.List(ctx, UserFilter{}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "Ada", all[0].GivenName)

	desc, _, err := svc.List(ctx, UserFilter{SortField: "familyName", SortDirection: "desc"}, page)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", desc[0].FamilyName)

	found, total, err := svc.List(ctx, UserFilter{SearchQuery: "hopper LOVELACE"}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)

	active := true
	_, total, err = svc.List(ctx, UserFilter{Status: &active}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	byCountry, total, err := svc.List(ctx, UserFilter{Country: []string{" wales ", "Narnia"}}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Ada", byCountry[0].GivenName)

	from := login.Add(-time.Hour)
	byDate, total, err := svc.List(ctx, UserFilter{FromDate: &from}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Grace", byDate[0].GivenName)

	second, total, err := svc.List(ctx, UserFilter{}, types.PageRequest{PageIndex: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, second, 1)
}

func TestUserService_SearchAndFindByIDs(t *testing.T) {
	svc := NewUserService(initTestDB(t))
	ctx := context.Background()
	page := types.PageRequest{PageIndex: 1, PageSize: 10}

	ada := registerUser(t, svc, "ada@hra.nhs.uk", "Ada", "Lovelace")
	charles := registerUser(t, svc, "charles@hra.nhs.uk", "Charles", "Babbage")

	_, _, err := svc.Search(ctx, "", nil, page)
	assert.ErrorIs(t, err, ErrMissingParameters)

	users, total, err := svc.Search(ctx, "hra.nhs.uk", []string{charles.ID}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, ada.ID, users[0].ID)

	_, _, err = svc.FindByIDs(ctx, nil, "", page)
	assert.ErrorIs(t, err, ErrMissingParameters)

	users, total, err = svc.FindByIDs(ctx, []string{ada.ID, charles.ID}, "Charles Babbage", page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, charles.ID, users[0].ID)
}

func TestUserService_Roles(t *testing.T) {
	db := initTestDB(t)
	svc := NewUserService(db)
	roles := NewRoleService(db)
	ctx := context.Background()

	u := registerUser(t, svc, "a@b.com", "Ada", "Lovelace")
	for _, name := range []string{"reviewer", "team_manager", "sponsor"} {
		_, err := roles.Create(ctx, name)
		require.NoError(t, err)
	}

	require.NoError(t, svc.AddToRoles(ctx, "a@b.com", SplitRoles("reviewer,team_manager,,reviewer")))
	require.NoError(t, svc.AddToRoles(ctx, "a@b.com", []string{"reviewer"}))

	names, err := svc.RolesOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"reviewer", "team_manager"}, names)

	err = svc.AddToRoles(ctx, "a@b.com", []string{"sponsor", "ghost"})
	assert.ErrorIs(t, err, ErrRoleNotFound)
	names, err = svc.RolesOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"reviewer", "team_manager"}, names, "失败时不应部分写入")

	require.NoError(t, svc.RemoveFromRoles(ctx, "a@b.com", []string{"reviewer", "sponsor", "ghost"}))
	names, err = svc.RolesOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"team_manager"}, names)

	inRole, err := svc.ListInRole(ctx, "TEAM_MANAGER")
	require.NoError(t, err)
	require.Len(t, inRole, 1)
	assert.Equal(t, u.ID, inRole[0].ID)

	_, err = svc.ListInRole(ctx, "ghost")
	assert.ErrorIs(t, err, ErrRoleNotFound)

	assert.ErrorIs(t, svc.AddToRoles(ctx, "nobody@b.com", []string{"reviewer"}), ErrUserNotFound)
}

func TestUserService_Claims(t *testing.T) {
	svc := NewUserService(initTestDB(t))
	ctx := context.Background()
	u := registerUser(t, svc, "a@b.com", "Ada", "Lovelace")

	require.NoError(t, svc.AddClaims(ctx, "a@b.com", []Claim{
		{Type: AccessRequiredClaim, Value: "iras"},
		{Type: AccessRequiredClaim, Value: "rts"},
	}))
	claims, err := svc.Claims(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, claims, 2)

	require.NoError(t, svc.RemoveClaims(ctx, "a@b.com", []Claim{{Type: AccessRequiredClaim, Value: "iras"}}))
	claims, err = svc.Claims(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []Claim{{Type: AccessRequiredClaim, Value: "rts"}}, claims)

	assert.ErrorIs(t, svc.AddClaims(ctx, "ghost@b.com", nil), ErrUserNotFound)
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "User with id 1 not found", NotFoundMessage("1", ""))
	assert.Equal(t, "User with email a@b.com not found", NotFoundMessage("", "a@b.com"))
	assert.Equal(t, "User with id 1 or email a@b.com not found", NotFoundMessage("1", "a@b.com"))
	assert.Equal(t, "User not found", NotFoundMessage("", ""))
}
