package file

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestProductCreateAssignsIDAndPersists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &domain.Product{Title: "A Book", Price: decimal.NewFromFloat(12.99)}
	require.NoError(t, s.Products().Create(ctx, p))
	require.NotEmpty(t, p.ID)

	// Reopen over the same directory to prove the write was durable.
	s2, err := NewStore(s.dir)
	require.NoError(t, err)
	got, err := s2.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A Book", got.Title)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(12.99)))
}

func TestProductGetByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Products().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &domain.Product{Title: "Old", Price: decimal.New(1, 0)}
	require.NoError(t, s.Products().Create(ctx, p))

	updated := *p
	updated.Title = "New"
	updated.Price = decimal.New(2, 0)
	require.NoError(t, s.Products().Replace(ctx, &updated))

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.True(t, got.Price.Equal(decimal.New(2, 0)))

	missing := domain.Product{ID: "missing"}
	assert.ErrorIs(t, s.Products().Replace(ctx, &missing), domain.ErrProductNotFound)
}

func TestProductPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Products().Create(ctx, &domain.Product{Title: "p", Price: decimal.New(1, 0)}))
	}

	tests := []struct {
		page, pageSize int
		wantLen        int
	}{
		{1, 2, 2},
		{2, 2, 2},
		{3, 2, 1},
		{4, 2, 0},
		{0, 2, 0},
		{1, 10, 5},
		{math.MaxInt, 2, 0},
		{math.MaxInt/2 + 1, 2, 0},
	}
	for _, tt := range tests {
		items, total, err := s.Products().GetPage(ctx, tt.page, tt.pageSize)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, items, tt.wantLen, "page %d size %d", tt.page, tt.pageSize)
	}
}

func TestCartAddItemAccumulates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Carts().AddItem(ctx, "u1", "prod", 1))
	require.NoError(t, s.Carts().AddItem(ctx, "u1", "prod", 2))

	cart, err := s.Carts().Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
}

func TestCartRemoveAbsentItemIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Carts().RemoveItem(ctx, "u1", "nope"))

	cart, err := s.Carts().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCartGetUnknownOwnerReturnsEmptyCart(t *testing.T) {
	s := newTestStore(t)

	cart, err := s.Carts().Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", cart.OwnerID)
	assert.True(t, cart.IsEmpty())
}

func TestPlaceOrderAppendsAndClearsCart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Carts().AddItem(ctx, "u1", "prod", 2))

	order := &domain.Order{
		ID:      uuid.New(),
		OwnerID: "u1",
		Lines: []domain.OrderLine{
			{ProductID: "prod", Title: "A Book", Price: decimal.NewFromFloat(12.99), Quantity: 2},
		},
		PlacedAt: time.Now(),
	}
	require.NoError(t, s.PlaceOrder(ctx, order))

	cart, err := s.Carts().Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	got, err := s.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.OwnerID)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].Price.Equal(decimal.NewFromFloat(12.99)))
}

func TestListOrdersByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, owner := range []string{"u1", "u2", "u1"} {
		o := &domain.Order{ID: uuid.New(), OwnerID: owner, PlacedAt: time.Now()}
		require.NoError(t, s.Orders().Create(ctx, o))
	}

	owned, err := s.Orders().ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	none, err := s.Orders().ListByOwner(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, none)
}
