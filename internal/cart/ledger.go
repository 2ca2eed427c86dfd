// Package cart keeps each user's shopping cart in Redis. Every mutation is
// persisted before return, so a browser refresh or a second device always
// sees the latest cart.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/pkg/config"
	"github.com/trinitystore/trinity-backend/pkg/db/models"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
)

// Line is one cart entry. Name, brand, and unit price are snapshotted from
// the product at the time it was added.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Brand     *string         `json:"brand,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Cart is the JSON document stored under the user's cart key.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Total sums unit price times quantity over the snapshot prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) findLine(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

type cartStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Ledger exposes per-user cart operations.
type Ledger interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type ledger struct {
	store    cartStore
	products productLoader
	ttl      time.Duration
}

// NewLedger builds a Redis-backed cart ledger.
func NewLedger(store cartStore, products productLoader, cfg config.CartConfig) (Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &ledger{store: store, products: products, ttl: cfg.TTL}, nil
}

// Get loads the user's cart. A missing key hydrates to an empty cart.
func (l *ledger) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	return l.load(ctx, userID)
}

// AddItem inserts the product with quantity 1, or increments the existing
// line. The product snapshot is taken at insert time only.
func (l *ledger) AddItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	cart, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if idx := cart.findLine(productID); idx >= 0 {
		cart.Lines[idx].Quantity++
	} else {
		line, err := l.snapshotLine(ctx, productID, 1)
		if err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, *line)
	}

	if err := l.persist(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops the product's line. Removing an absent product is a no-op.
func (l *ledger) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	cart, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.findLine(productID)
	if idx < 0 {
		return cart, nil
	}
	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)

	if err := l.persist(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity pins the line to the given quantity. Zero or negative removes
// the line; setting a product not yet in the cart inserts it.
func (l *ledger) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return l.RemoveItem(ctx, userID, productID)
	}

	cart, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if idx := cart.findLine(productID); idx >= 0 {
		cart.Lines[idx].Quantity = quantity
	} else {
		line, err := l.snapshotLine(ctx, productID, quantity)
		if err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, *line)
	}

	if err := l.persist(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear deletes the stored cart.
func (l *ledger) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := l.store.Del(ctx, l.store.CartKey(userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: clear cart")
	}
	return nil
}

func (l *ledger) load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	raw, err := l.store.Get(ctx, l.store.CartKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return &Cart{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cart")
	}
	return &cart, nil
}

func (l *ledger) persist(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := l.store.Set(ctx, l.store.CartKey(userID.String()), string(payload), l.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: persist cart")
	}
	return nil
}

func (l *ledger) snapshotLine(ctx context.Context, productID uuid.UUID, quantity int) (*Line, error) {
	product, err := l.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return &Line{
		ProductID: product.ID,
		Name:      product.Name,
		Brand:     product.Brand,
		UnitPrice: product.Price,
		Quantity:  quantity,
	}, nil
}
