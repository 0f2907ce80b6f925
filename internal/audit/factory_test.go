package audit

import (
	"fmt"
	"testing"
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 31, 16, 3, 58, 0, time.FixedZone("BST", 3600))

func newTestFactory() *Factory {
	n := 0
	return NewFactory(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("rec-%d", n)
		}),
	)
}

func TestFactory_CreateScenario(t *testing.T) {
	f := newTestFactory()
	admin := "admin1"

	records := f.Build(ActionCreate, &identity.User{ID: "u1", Email: "a@b.com"}, &admin, nil, nil)

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "a@b.com was created", r.Description)
	assert.Equal(t, "u1", r.UserID)
	require.NotNil(t, r.SystemAdministratorID)
	assert.Equal(t, "admin1", *r.SystemAdministratorID)
	assert.Equal(t, "rec-1", r.ID)
	assert.Equal(t, time.UTC, r.DateTimeStamp.Location())
	assert.True(t, r.DateTimeStamp.Equal(fixedNow))
}

func TestFactory_RoleScenarios(t *testing.T) {
	f := newTestFactory()
	user := &identity.User{ID: "u1", Email: "a@b.com"}

	added := f.Build(ActionAddRole, user, nil, nil, []string{"question_set_admin"})
	require.Len(t, added, 1)
	assert.Equal(t, "a@b.com was assigned question set admin role", added[0].Description)
	assert.Nil(t, added[0].SystemAdministratorID)

	removed := f.Build(ActionRemoveRole, user, nil, nil, []string{"question_set_admin", "team_manager"})
	require.Len(t, removed, 2)
	assert.Equal(t, "a@b.com was unassigned question set admin role", removed[0].Description)
	assert.Equal(t, "a@b.com was unassigned team manager role", removed[1].Description)
}

func TestFactory_UpdateTemplates(t *testing.T) {
	f := newTestFactory()
	before := sampleUser()
	after := sampleUser()
	before.GivenName = "old first"
	after.GivenName = "new first"
	after.Status = "disabled"

	records := f.Build(ActionUpdate, after, nil, Diff(before, after, AuditableFields(after)), nil)

	require.Len(t, records, 2)
	assert.Equal(t, "old first was changed to new first", records[0].Description)
	assert.Equal(t, "a@b.com was disabled", records[1].Description)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestFactory_UpdateStatusNeverMentionsOldValue(t *testing.T) {
	f := newTestFactory()
	for _, oldStatus := range []string{"", "disabled", "pending", "active"} {
		before := sampleUser()
		after := sampleUser()
		before.Status = oldStatus
		after.Status = "active"
		if oldStatus == "active" {
			after.Status = "locked"
		}

		records := f.Build(ActionUpdate, after, nil, Diff(before, after, AuditableFields(after)), nil)
		require.Len(t, records, 1)
		if after.Status == "active" {
			assert.Equal(t, "a@b.com was enabled", records[0].Description)
		} else {
			assert.Equal(t, "a@b.com was disabled", records[0].Description)
		}
	}
}

func TestFactory_NothingToReport(t *testing.T) {
	f := newTestFactory()
	user := sampleUser()

	assert.Empty(t, f.Build(ActionUpdate, user, nil, nil, nil))
	assert.Empty(t, f.Build(ActionAddRole, user, nil, nil, nil))
	assert.Empty(t, f.Build(ActionCreate, nil, nil, nil, nil))
}

func TestFactory_AdminIDIsCopied(t *testing.T) {
	f := newTestFactory()
	admin := "admin1"
	records := f.Build(ActionCreate, sampleUser(), &admin, nil, nil)
	admin = "changed"

	require.Len(t, records, 1)
	assert.Equal(t, "admin1", *records[0].SystemAdministratorID)
}
