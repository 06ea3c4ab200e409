package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
	"tourbook/src/config"
	"tourbook/src/domain"
	"tourbook/src/lib"
	"tourbook/src/models"
	"tourbook/src/types"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	temple = models.PackageView{ID: 1, Name: "Temple walk", Price: 1500, Image: "/t.jpg", Duration: "4 hours"}
	island = models.PackageView{ID: 2, Name: "Island hop", Price: 3200, Image: "/i.jpg", Duration: "8 hours"}
	now    = time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
)

type principal struct {
	user *models.UserRecord
}

func (p principal) IsLoggedIn() bool          { return p.user != nil }
func (p principal) User() *models.UserRecord { return p.user }

type submitterFunc func(ctx context.Context, sub *models.BookingSubmission) (uint, error)

func (f submitterFunc) SubmitBooking(ctx context.Context, sub *models.BookingSubmission) (uint, error) {
	return f(ctx, sub)
}

func TestAddMergesSamePackage(t *testing.T) {
	ctx := context.Background()
	c := New("s1", lib.NewMemorySlot())

	first := DefaultOptions(models.CartOptions{TimeOfTour: types.TIME_AFTERNOON, Travelers: 4}, now)
	lines, err := c.Add(ctx, temple, first)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	second := DefaultOptions(models.CartOptions{TimeOfTour: types.TIME_MORNING}, now)
	lines, err = c.Add(ctx, temple, second)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, types.TIME_AFTERNOON, lines[0].TimeOfTour, "first add's options win")
	assert.Equal(t, 4, lines[0].Travelers)

	persisted, err := c.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, lines, persisted)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions(models.CartOptions{PickupLocation: "Hotel"}, now)
	assert.Equal(t, "2025-03-10", opts.SelectedDate)
	assert.Equal(t, 2, opts.Travelers)
	assert.Equal(t, types.TIME_MORNING, opts.TimeOfTour)
	assert.Equal(t, types.PICKUP_AND_DROP, opts.PickupOption)
	assert.Empty(t, opts.PickupLocation, "locations only apply to split pickup")

	split := DefaultOptions(models.CartOptions{PickupOption: types.PICKUP_SPLIT, PickupLocation: "Hotel", DropoffLocation: "Pier"}, now)
	assert.Equal(t, "Hotel", split.PickupLocation)
	assert.Equal(t, "Pier", split.DropoffLocation)
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	c := New("s1", lib.NewMemorySlot())

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Add(ctx, temple, DefaultOptions(models.CartOptions{}, now))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines, err := c.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 25, lines[0].Quantity)
}

func TestRemoveNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	c := New("s1", lib.NewMemorySlot())
	_, err := c.Add(ctx, temple, DefaultOptions(models.CartOptions{}, now))
	require.NoError(t, err)
	_, err = c.Add(ctx, island, DefaultOptions(models.CartOptions{}, now))
	require.NoError(t, err)

	declined := ConfirmFunc(func(ctx context.Context, line models.CartLine) bool { return false })
	_, err = c.Remove(ctx, temple.ID, declined)
	assert.True(t, domain.IsConfirmationRequired(err))
	lines, _ := c.Lines(ctx)
	assert.Len(t, lines, 2)

	var asked string
	accepted := ConfirmFunc(func(ctx context.Context, line models.CartLine) bool {
		asked = line.Title
		return true
	})
	lines, err = c.Remove(ctx, temple.ID, accepted)
	require.NoError(t, err)
	assert.Equal(t, "Temple walk", asked)
	require.Len(t, lines, 1)
	assert.Equal(t, island.ID, lines[0].PackageID)

	_, err = c.Remove(ctx, 99, Always)
	assert.True(t, domain.IsNotFound(err))
}

func TestTotals(t *testing.T) {
	assert.Equal(t, 0.0, Total(nil))
	lines := []models.CartLine{
		{Price: 1500, Quantity: 2},
		{Price: 3200, Quantity: 1},
		{Price: 0, Quantity: 5},
	}
	assert.Equal(t, 3000.0, LineTotal(lines[0]))
	assert.Equal(t, 6200.0, Total(lines))
}

func TestBuildSubmission(t *testing.T) {
	lines := []models.CartLine{
		{Title: "Temple walk", Price: 1500, Quantity: 2, Specials: []string{"Halal", "kids"}},
		{Title: "Island hop", Price: 3200, Quantity: 1},
	}
	sub := BuildSubmission(lines, "ann", now)

	assert.Equal(t, "ann", sub.Username)
	assert.Equal(t, "Temple walk (2), Island hop (1)", sub.Title)
	assert.Equal(t, 3, sub.Number)
	assert.Equal(t, 6200.0, sub.Price)
	assert.Equal(t, "Halal, kids, halal", sub.Special)
	assert.Equal(t, "3/10/2025, 09:05 AM", sub.Date)
}

func TestCheckoutAfterLogoutKeepsCart(t *testing.T) {
	ctx := context.Background()
	c := New("s1", lib.NewMemorySlot())
	_, err := c.Add(ctx, temple, DefaultOptions(models.CartOptions{}, now))
	require.NoError(t, err)

	called := false
	submit := submitterFunc(func(ctx context.Context, sub *models.BookingSubmission) (uint, error) {
		called = true
		return 1, nil
	})
	_, err = c.Checkout(ctx, principal{}, submit, now)
	assert.True(t, domain.IsAuthRequired(err))
	assert.Equal(t, "please login", err.Error())
	assert.False(t, called)

	lines, _ := c.Lines(ctx)
	assert.Len(t, lines, 1)
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := New("s1", lib.NewMemorySlot())
	_, err := c.Checkout(context.Background(), principal{user: &models.UserRecord{ID: 1}}, submitterFunc(nil), now)
	assert.True(t, domain.IsEmptyCart(err))
}

func TestCheckoutFailureLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	c := New("s1", lib.NewMemorySlot())
	_, err := c.Add(ctx, temple, DefaultOptions(models.CartOptions{}, now))
	require.NoError(t, err)

	boom := domain.TransportError{Method: "POST", Path: "/history-packages", Status: 500}
	_, err = c.Checkout(ctx, principal{user: &models.UserRecord{ID: 1, Username: "ann"}}, submitterFunc(func(ctx context.Context, sub *models.BookingSubmission) (uint, error) {
		return 0, boom
	}), now)
	assert.True(t, errors.Is(err, boom))

	lines, _ := c.Lines(ctx)
	assert.Len(t, lines, 1)
}

func TestCheckoutClearsCartOnSuccess(t *testing.T) {
	ctx := context.Background()
	c := New("s1", lib.NewMemorySlot())
	_, _ = c.Add(ctx, temple, DefaultOptions(models.CartOptions{}, now))
	_, _ = c.Add(ctx, temple, DefaultOptions(models.CartOptions{}, now))
	_, _ = c.Add(ctx, island, DefaultOptions(models.CartOptions{Specials: []string{"private"}}, now))

	var got models.BookingSubmission
	receipt, err := c.Checkout(ctx, principal{user: &models.UserRecord{ID: 1, Username: "ann"}}, submitterFunc(func(ctx context.Context, sub *models.BookingSubmission) (uint, error) {
		got = *sub
		return 42, nil
	}), now)
	require.NoError(t, err)
	assert.Equal(t, uint(42), receipt.HistoryID)
	assert.Equal(t, "Temple walk (2), Island hop (1)", got.Title)
	assert.Equal(t, 3, got.Number)
	assert.Equal(t, 6200.0, got.Price)

	lines, _ := c.Lines(ctx)
	assert.Empty(t, lines)
}

type stickySlot struct {
	*lib.MemorySlot
}

func (stickySlot) Delete(ctx context.Context, key string) error {
	return errors.New("redis: connection reset")
}

func TestCheckoutReturnsReceiptWhenClearFails(t *testing.T) {
	ctx := context.Background()
	c := New("s1", stickySlot{lib.NewMemorySlot()})
	_, err := c.Add(ctx, temple, DefaultOptions(models.CartOptions{}, now))
	require.NoError(t, err)

	submits := 0
	receipt, err := c.Checkout(ctx, principal{user: &models.UserRecord{ID: 1, Username: "ann"}}, submitterFunc(func(ctx context.Context, sub *models.BookingSubmission) (uint, error) {
		submits++
		return 43, nil
	}), now)
	require.NoError(t, err)
	assert.Equal(t, uint(43), receipt.HistoryID)
	assert.Equal(t, 1, submits)
}

func TestCartPersistsThroughRedis(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := New("s1", lib.NewRedisSlot(db, time.Hour))
	key := lib.SlotKey("s1", config.CartSlotKey)

	line := newLine(temple, DefaultOptions(models.CartOptions{}, now))
	encoded, err := json.Marshal([]models.CartLine{line})
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, string(encoded), time.Hour).SetVal("OK")
	lines, err := c.Add(ctx, temple, DefaultOptions(models.CartOptions{}, now))
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	mock.ExpectGet(key).SetVal(string(encoded))
	lines, err = c.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{line}, lines)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrySharesCartPerSession(t *testing.T) {
	reg := NewRegistry(lib.NewMemorySlot())
	assert.Same(t, reg.Get("a"), reg.Get("a"))
	assert.NotSame(t, reg.Get("a"), reg.Get("b"))
	assert.Equal(t, 2, reg.Sweep(-time.Second))
}
