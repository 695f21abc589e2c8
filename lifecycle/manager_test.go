package lifecycle

import (
	"context"
	"testing"

	"armenu-api/apperr"
	"armenu-api/backend/backendtest"
	"armenu-api/models"
	"armenu-api/session"
	"armenu-api/statemachine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fake       *backendtest.Fake
	mgr        *Manager
	owner      *models.Manager
	restaurant *models.Restaurant
}

func newFixture(t *testing.T, status models.RestaurantStatus) fixture {
	t.Helper()
	fake := backendtest.New()
	owner := fake.AddManager("owner@example.com", "secret123")
	r := fake.AddRestaurant(owner.ID, "La Picá", status)
	return fixture{
		fake:       fake,
		mgr:        NewManager(fake, fake, session.NewSelections(fake, fake)),
		owner:      owner,
		restaurant: r,
	}
}

func (f fixture) suspend(ctx context.Context, managerID, restaurantID string, creds Credentials) (*models.Restaurant, error) {
	return f.mgr.RequestStatusChange(ctx, managerID, restaurantID, models.StatusNotAvailable, creds)
}

func (f fixture) activate(ctx context.Context, managerID, restaurantID string, creds Credentials) (*models.Restaurant, error) {
	return f.mgr.RequestStatusChange(ctx, managerID, restaurantID, models.StatusAvailable, creds)
}

func TestRequestStatusChange_EmptyCredentialsNeverReachBackend(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"empty email", Credentials{Password: "secret123"}},
		{"empty password", Credentials{Email: "owner@example.com"}},
		{"blank email", Credentials{Email: "   ", Password: "secret123"}},
		{"blank password", Credentials{Email: "owner@example.com", Password: "   "}},
		{"both empty", Credentials{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, models.StatusAvailable)

			_, err := f.suspend(context.Background(), f.owner.ID, f.restaurant.ID, tt.creds)

			assert.True(t, apperr.IsValidation(err), "got %v", err)
			assert.Zero(t, f.fake.Calls(""))
		})
	}
}

func TestRequestStatusChange_InvalidTarget(t *testing.T) {
	f := newFixture(t, models.StatusAvailable)
	creds := Credentials{Email: "owner@example.com", Password: "secret123"}

	_, err := f.mgr.RequestStatusChange(context.Background(), f.owner.ID, f.restaurant.ID, "closed", creds)
	assert.True(t, apperr.IsValidation(err))
	assert.Zero(t, f.fake.Calls(""))

	// already available
	_, err = f.activate(context.Background(), f.owner.ID, f.restaurant.ID, creds)
	assert.True(t, apperr.IsValidation(err))
	assert.Zero(t, f.fake.Calls("UpdateRestaurantStatusWithAuth"))
}

func TestRequestStatusChange_WrongPassword(t *testing.T) {
	f := newFixture(t, models.StatusAvailable)

	got, err := f.suspend(context.Background(), f.owner.ID, f.restaurant.ID, Credentials{Email: "owner@example.com", Password: "wrong"})

	assert.True(t, apperr.IsAuthentication(err))
	assert.Nil(t, got)
	assert.Equal(t, models.StatusAvailable, f.fake.Status(f.restaurant.ID))
}

func TestRequestStatusChange_NotFound(t *testing.T) {
	f := newFixture(t, models.StatusAvailable)
	creds := Credentials{Email: "owner@example.com", Password: "secret123"}

	_, err := f.suspend(context.Background(), f.owner.ID, "missing", creds)
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.suspend(context.Background(), "someone-else", f.restaurant.ID, creds)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, models.StatusAvailable, f.fake.Status(f.restaurant.ID))
}

func TestRequestStatusChange_SuspendAndActivate(t *testing.T) {
	f := newFixture(t, models.StatusAvailable)
	ctx := context.Background()
	creds := Credentials{Email: " owner@example.com ", Password: "secret123"}

	got, err := f.suspend(ctx, f.owner.ID, f.restaurant.ID, creds)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotAvailable, got.Status)
	assert.Equal(t, 1, f.fake.Calls("UpdateRestaurantStatusWithAuth"))

	got, err = f.activate(ctx, f.owner.ID, f.restaurant.ID, creds)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)
	assert.Equal(t, models.StatusAvailable, f.fake.Status(f.restaurant.ID))
}

func TestRequestStatusChange_EmptyTargetToggles(t *testing.T) {
	f := newFixture(t, models.StatusAvailable)
	ctx := context.Background()
	creds := Credentials{Email: "owner@example.com", Password: "secret123"}

	got, err := f.mgr.RequestStatusChange(ctx, f.owner.ID, f.restaurant.ID, "", creds)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotAvailable, got.Status)

	got, err = f.mgr.RequestStatusChange(ctx, f.owner.ID, f.restaurant.ID, "", creds)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)
}

func TestRequestStatusChange_PasswordIsNotTrimmed(t *testing.T) {
	fake := backendtest.New()
	owner := fake.AddManager("spaces@example.com", "secret1 ")
	r := fake.AddRestaurant(owner.ID, "La Picá", models.StatusAvailable)
	mgr := NewManager(fake, fake, session.NewSelections(fake, fake))
	ctx := context.Background()

	_, err := fake.VerifyCredentials(ctx, "spaces@example.com", "secret1 ")
	require.NoError(t, err, "login uses the password verbatim")

	_, err = mgr.RequestStatusChange(ctx, owner.ID, r.ID, models.StatusNotAvailable, Credentials{Email: "spaces@example.com", Password: "secret1"})
	assert.True(t, apperr.IsAuthentication(err))
	assert.Equal(t, models.StatusAvailable, fake.Status(r.ID))

	got, err := mgr.RequestStatusChange(ctx, owner.ID, r.ID, models.StatusNotAvailable, Credentials{Email: "spaces@example.com", Password: "secret1 "})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotAvailable, got.Status)
}

func TestRequestStatusChange_DoesNotCreateSession(t *testing.T) {
	f := newFixture(t, models.StatusAvailable)

	_, err := f.suspend(context.Background(), f.owner.ID, f.restaurant.ID, Credentials{Email: "owner@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.Zero(t, f.fake.Calls("SaveSelection"))
	assert.Zero(t, f.fake.Calls("ClearSelection"))
}

func TestEnterDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing selected", func(t *testing.T) {
		f := newFixture(t, models.StatusAvailable)
		entry, err := f.mgr.EnterDashboard(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, statemachine.GateNotFound, entry.Gate.State)
		assert.True(t, entry.Gate.RedirectToSelection)
	})

	t.Run("available restaurant", func(t *testing.T) {
		f := newFixture(t, models.StatusAvailable)
		require.NoError(t, f.fake.SaveSelection(ctx, f.owner.ID, f.restaurant.ID))

		entry, err := f.mgr.EnterDashboard(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, statemachine.GateOpen, entry.Gate.State)
		assert.Equal(t, f.restaurant.ID, entry.Restaurant.ID)
		assert.Empty(t, entry.Warning)
	})

	t.Run("suspended out of band", func(t *testing.T) {
		f := newFixture(t, models.StatusAvailable)
		require.NoError(t, f.fake.SaveSelection(ctx, f.owner.ID, f.restaurant.ID))
		_, err := f.fake.UpdateRestaurantStatusWithAuth(ctx, f.restaurant.ID, models.StatusNotAvailable, "owner@example.com", "secret123")
		require.NoError(t, err)

		entry, err := f.mgr.EnterDashboard(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, statemachine.GateRestricted, entry.Gate.State)
		assert.True(t, entry.Gate.SuspendedBadge)
		assert.NotEmpty(t, entry.Warning)

		_, err = f.fake.GetSelection(ctx, f.owner.ID)
		assert.True(t, apperr.IsNotFound(err), "selection should be cleared")
	})

	t.Run("deleted restaurant", func(t *testing.T) {
		f := newFixture(t, models.StatusAvailable)
		require.NoError(t, f.fake.SaveSelection(ctx, f.owner.ID, "gone"))

		entry, err := f.mgr.EnterDashboard(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, statemachine.GateNotFound, entry.Gate.State)
		assert.Nil(t, entry.Restaurant)

		_, err = f.fake.GetSelection(ctx, f.owner.ID)
		assert.True(t, apperr.IsNotFound(err))
	})
}
