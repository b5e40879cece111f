package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/pdv-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/metrics"
)

// Service exposes the cart of each checkout session.
type Service interface {
	Get(ctx context.Context, sessionID string) (Snapshot, error)
	Add(ctx context.Context, sessionID, productID string) (Snapshot, error)
	Scan(ctx context.Context, sessionID, input string) (ScanOutcome, error)
	Remove(ctx context.Context, sessionID, productID string) (Snapshot, error)
	SetQuantity(ctx context.Context, sessionID, productID string, qty int) (Snapshot, error)
	Clear(ctx context.Context, sessionID string) (Snapshot, error)
	// Update runs fn with exclusive access to the session's cart. The cart is
	// saved only when fn returns nil.
	Update(ctx context.Context, sessionID string, fn func(*Cart) error) (Snapshot, error)
}

// ScanOutcome is a scan result together with the resulting cart.
type ScanOutcome struct {
	ScanResult
	Cart Snapshot `json:"cart"`
}

// Options tunes the service.
type Options struct {
	BarcodeMinDigits int
	Metrics          *metrics.POSMetrics
}

type service struct {
	store     Store
	catalog   catalog.Catalog
	locks     *sessionLocks
	minDigits int
	metrics   *metrics.POSMetrics
}

// NewService builds a cart service over the provided store and catalog.
func NewService(store Store, products catalog.Catalog, opts Options) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog required")
	}
	minDigits := opts.BarcodeMinDigits
	if minDigits <= 0 {
		minDigits = DefaultBarcodeMinDigits
	}
	return &service{
		store:     store,
		catalog:   products,
		locks:     newSessionLocks(),
		minDigits: minDigits,
		metrics:   opts.Metrics,
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Snapshot, error) {
	if err := requireSession(sessionID); err != nil {
		return Snapshot{}, err
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return c.Snapshot(), nil
}

func (s *service) Add(ctx context.Context, sessionID, productID string) (Snapshot, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	p, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		return Snapshot{}, err
	}
	if !p.Active {
		return Snapshot{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s is not available", productID)
	}
	snap, err := s.Update(ctx, sessionID, func(c *Cart) error {
		c.AddItem(p)
		return nil
	})
	if err == nil {
		s.metrics.CartOperation("add")
	}
	return snap, err
}

func (s *service) Scan(ctx context.Context, sessionID, input string) (ScanOutcome, error) {
	var result ScanResult
	snap, err := s.Update(ctx, sessionID, func(c *Cart) error {
		var scanErr error
		result, scanErr = Scan(ctx, s.catalog, c, input, s.minDigits)
		if scanErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, scanErr, "barcode lookup")
		}
		return nil
	})
	if err != nil {
		return ScanOutcome{}, err
	}
	switch {
	case result.Product != nil:
		s.metrics.CartOperation("scan")
	case result.Looked:
		s.metrics.ScanMissed()
	}
	return ScanOutcome{ScanResult: result, Cart: snap}, nil
}

func (s *service) Remove(ctx context.Context, sessionID, productID string) (Snapshot, error) {
	snap, err := s.Update(ctx, sessionID, func(c *Cart) error {
		c.RemoveItem(productID)
		return nil
	})
	if err == nil {
		s.metrics.CartOperation("remove")
	}
	return snap, err
}

func (s *service) SetQuantity(ctx context.Context, sessionID, productID string, qty int) (Snapshot, error) {
	snap, err := s.Update(ctx, sessionID, func(c *Cart) error {
		c.SetQuantity(productID, qty)
		return nil
	})
	if err == nil {
		s.metrics.CartOperation("set_quantity")
	}
	return snap, err
}

func (s *service) Clear(ctx context.Context, sessionID string) (Snapshot, error) {
	snap, err := s.Update(ctx, sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	if err == nil {
		s.metrics.CartOperation("clear")
	}
	return snap, err
}

func (s *service) Update(ctx context.Context, sessionID string, fn func(*Cart) error) (Snapshot, error) {
	if err := requireSession(sessionID); err != nil {
		return Snapshot{}, err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := fn(c); err != nil {
		return Snapshot{}, err
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return c.Snapshot(), nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout session is required")
	}
	return nil
}
