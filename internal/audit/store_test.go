package audit

import (
	"context"
	"testing"
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetBySubjectNotFound(t *testing.T) {
	db := initTestDB(t, false)
	store := NewStore(db)

	_, err := store.GetBySubject(context.Background(), "nobody", nil)
	assert.ErrorIs(t, err, ErrNoAuditTrail)

	n, err := store.Count(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_AppendEmptyBatchIsNoop(t *testing.T) {
	db := initTestDB(t, false)
	assert.NoError(t, NewStore(db).Append(context.Background(), nil))
}

func TestStore_GetBySubjectNewestFirst(t *testing.T) {
	db := initTestDB(t, false)
	store := NewStore(db)
	ctx := context.Background()

	admin := &identity.User{Email: "admin@hra.nhs.uk", GivenName: "Sys", FamilyName: "Admin"}
	subject := &identity.User{Email: "a@b.com", GivenName: "Ada", FamilyName: "Lovelace"}
	require.NoError(t, db.Create(admin).Error)
	require.NoError(t, db.Create(subject).Error)

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	records := []*Record{
		{DateTimeStamp: base.Add(1 * time.Hour), Description: "second", UserID: subject.ID, SystemAdministratorID: &admin.ID},
		{DateTimeStamp: base, Description: "first", UserID: subject.ID},
		{DateTimeStamp: base.Add(2 * time.Hour), Description: "third", UserID: subject.ID, SystemAdministratorID: &admin.ID},
		{DateTimeStamp: base.Add(3 * time.Hour), Description: "other subject", UserID: admin.ID},
	}
	require.NoError(t, store.Append(ctx, records))

	entries, err := store.GetBySubject(ctx, subject.ID, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "third", entries[0].Description)
	assert.Equal(t, "second", entries[1].Description)
	assert.Equal(t, "first", entries[2].Description)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].DateTimeStamp.After(entries[i].DateTimeStamp), "结果应严格按时间倒序")
	}

	assert.Equal(t, "admin@hra.nhs.uk", entries[0].SystemAdmin)
	assert.Empty(t, entries[2].SystemAdmin, "无管理员的记录应为空")
	assert.Equal(t, "Ada Lovelace", entries[0].SubjectName)

	n, err := store.Count(ctx, subject.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestStore_GetBySubjectPaging(t *testing.T) {
	db := initTestDB(t, false)
	store := NewStore(db)
	ctx := context.Background()

	subject := &identity.User{Email: "a@b.com", GivenName: "Ada", FamilyName: "Lovelace"}
	require.NoError(t, db.Create(subject).Error)

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	var records []*Record
	for i := 0; i < 5; i++ {
		records = append(records, &Record{
			DateTimeStamp: base.Add(time.Duration(i) * time.Minute),
			Description:   string(rune('a' + i)),
			UserID:        subject.ID,
		})
	}
	require.NoError(t, store.Append(ctx, records))

	page, err := store.GetBySubject(ctx, subject.ID, &types.PageRequest{PageIndex: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Description)
	assert.Equal(t, "b", page[1].Description)

	// 页码越界返回空页而不是"没有记录"
	page, err = store.GetBySubject(ctx, subject.ID, &types.PageRequest{PageIndex: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, page)

	_, err = store.GetBySubject(ctx, "no-such-user", &types.PageRequest{PageIndex: 1, PageSize: 2})
	assert.ErrorIs(t, err, ErrNoAuditTrail)
}

func TestStore_TrailOutOfRangePage(t *testing.T) {
	db := initTestDB(t, false)
	store := NewStore(db)
	ctx := context.Background()

	subject := &identity.User{Email: "a@b.com", GivenName: "Ada", FamilyName: "Lovelace"}
	require.NoError(t, db.Create(subject).Error)
	require.NoError(t, store.Append(ctx, []*Record{
		{Description: "a@b.com was created", UserID: subject.ID},
		{Description: "a@b.com was disabled", UserID: subject.ID},
	}))

	trail, err := store.Trail(ctx, subject.ID, &types.PageRequest{PageIndex: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, trail.Entries)
	assert.EqualValues(t, 2, trail.TotalCount, "总数应为真实记录数")
	assert.Equal(t, "Ada Lovelace", trail.Name, "空页也应带出用户姓名")

	trail, err = store.Trail(ctx, subject.ID, nil)
	require.NoError(t, err)
	assert.Len(t, trail.Entries, 2)
	assert.Equal(t, "Ada Lovelace", trail.Name)

	_, err = store.Trail(ctx, "no-such-user", nil)
	assert.ErrorIs(t, err, ErrNoAuditTrail)
}

func TestStore_SoftDeletedUsersStillResolve(t *testing.T) {
	db := initTestDB(t, false)
	store := NewStore(db)
	ctx := context.Background()

	admin := &identity.User{Email: "admin@hra.nhs.uk"}
	subject := &identity.User{Email: "a@b.com", GivenName: "Ada", FamilyName: "Lovelace"}
	require.NoError(t, db.Create(admin).Error)
	require.NoError(t, db.Create(subject).Error)
	require.NoError(t, store.Append(ctx, []*Record{{Description: "a@b.com was created", UserID: subject.ID, SystemAdministratorID: &admin.ID}}))

	require.NoError(t, db.Delete(admin).Error)
	require.NoError(t, db.Delete(subject).Error)

	entries, err := store.GetBySubject(ctx, subject.ID, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "admin@hra.nhs.uk", entries[0].SystemAdmin)
	assert.Equal(t, "Ada Lovelace", entries[0].SubjectName)
	assert.False(t, entries[0].DateTimeStamp.IsZero())
}
