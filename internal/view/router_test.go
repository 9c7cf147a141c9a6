package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/view"
)

func TestRouter_StartsOnDashboard(t *testing.T) {
	r := view.NewRouter()

	assert.Equal(t, view.Dashboard, r.Current())
}

func TestRouter_Visible_DriverExcludesManagerViews(t *testing.T) {
	r := view.NewRouter()

	assert.Equal(t, []view.View{view.Dashboard, view.TripForm}, r.Visible(domain.RoleDriver))
}

func TestRouter_Visible_ManagerSeesAll(t *testing.T) {
	r := view.NewRouter()

	assert.Equal(t,
		[]view.View{view.Dashboard, view.TripForm, view.Database, view.Spreadsheet},
		r.Visible(domain.RoleManager))
}

func TestRouter_NavigateTo_AllowedView(t *testing.T) {
	r := view.NewRouter()

	require.NoError(t, r.NavigateTo(view.TripForm, domain.RoleDriver))
	assert.Equal(t, view.TripForm, r.Current())
}

func TestRouter_NavigateTo_ManagerOnlyViewAsDriver(t *testing.T) {
	r := view.NewRouter()

	err := r.NavigateTo(view.Database, domain.RoleDriver)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, view.Dashboard, r.Current(), "failed navigation must not move the view")
}

func TestRouter_NavigateTo_UnknownView(t *testing.T) {
	r := view.NewRouter()

	err := r.NavigateTo(view.View("settings"), domain.RoleManager)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouter_Subscribe_NotifiedInOrder(t *testing.T) {
	r := view.NewRouter()

	var events []string
	r.Subscribe(func(v view.View) { events = append(events, "first:"+string(v)) })
	r.Subscribe(func(v view.View) { events = append(events, "second:"+string(v)) })

	require.NoError(t, r.NavigateTo(view.TripForm, domain.RoleDriver))

	assert.Equal(t, []string{"first:trip-form", "second:trip-form"}, events)
}

func TestRouter_Subscribe_NotNotifiedOnFailedNavigation(t *testing.T) {
	r := view.NewRouter()

	calls := 0
	r.Subscribe(func(view.View) { calls++ })

	_ = r.NavigateTo(view.Database, domain.RoleDriver)
	_ = r.NavigateTo(view.View("nope"), domain.RoleManager)

	assert.Zero(t, calls)
}

func TestRouter_OnIdentityChange_SignOutFallsBackToDashboard(t *testing.T) {
	r := view.NewRouter()
	require.NoError(t, r.NavigateTo(view.Database, domain.RoleManager))

	r.OnIdentityChange(nil)

	assert.Equal(t, view.Dashboard, r.Current())
}

func TestRouter_OnIdentityChange_RoleLosesAccess(t *testing.T) {
	r := view.NewRouter()
	require.NoError(t, r.NavigateTo(view.Spreadsheet, domain.RoleManager))

	// A driver logs in while a manager-only view is active.
	r.OnIdentityChange(&domain.Identity{ID: "driver1", Role: domain.RoleDriver})

	assert.Equal(t, view.Dashboard, r.Current())
}

func TestRouter_OnIdentityChange_RoleKeepsAccess(t *testing.T) {
	r := view.NewRouter()
	require.NoError(t, r.NavigateTo(view.Database, domain.RoleManager))

	r.OnIdentityChange(&domain.Identity{ID: "manager2", Role: domain.RoleManager})

	assert.Equal(t, view.Database, r.Current())
}

func TestRouter_OnIdentityChange_DriverOnSharedView(t *testing.T) {
	r := view.NewRouter()
	require.NoError(t, r.NavigateTo(view.TripForm, domain.RoleManager))

	r.OnIdentityChange(&domain.Identity{ID: "driver1", Role: domain.RoleDriver})

	// The trip form is visible to everyone, so no fallback happens.
	assert.Equal(t, view.TripForm, r.Current())
}
