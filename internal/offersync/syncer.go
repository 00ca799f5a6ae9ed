// Package offersync keeps locally stored offers in line with the remote
// offers source: onboarding of freshly created products and the recurring
// refresh of every known product.
package offersync

import (
	"context"

	"product-aggregator/internal/model"
	"product-aggregator/internal/offers"
	"product-aggregator/internal/store"
	"product-aggregator/prometheus"

	"go.uber.org/zap"
)

// Syncer orchestrates register/fetch/reconcile against the storage gateway.
type Syncer struct {
	store  store.Gateway
	client *offers.Client
	log    *zap.Logger
}

func NewSyncer(st store.Gateway, client *offers.Client, log *zap.Logger) *Syncer {
	return &Syncer{store: st, client: client, log: log}
}

// Onboard runs the post-creation flow for a product that is already
// committed: register with the remote source, fetch the initial offers,
// reconcile them in. Nothing here may fail the creation request; every
// failure is logged and absorbed.
func (s *Syncer) Onboard(ctx context.Context, product model.Product) {
	if err := s.client.Register(ctx, product); err != nil {
		prometheus.RecordRegistration(false)
		// The product stays created without remote registration; the row is
		// the seam for a later retry.
		s.log.Warn("Product registration failed",
			zap.Uint("product_id", product.ID),
			zap.String("name", product.Name),
			zap.Error(err))
	} else {
		prometheus.RecordRegistration(true)
	}

	if err := s.Refresh(ctx, product); err != nil {
		s.log.Warn("Initial offer population failed",
			zap.Uint("product_id", product.ID),
			zap.Error(err))
	}
}

// Refresh fetches the current snapshot for one product and reconciles it
// into storage. An empty or absent snapshot is indistinguishable from a
// failed remote call, so it leaves the stored offers untouched rather than
// wiping known-good data.
func (s *Syncer) Refresh(ctx context.Context, product model.Product) error {
	snapshots := s.client.FetchOffers(ctx, product.ID)
	if len(snapshots) == 0 {
		prometheus.RecordProductRefresh("skipped")
		s.log.Debug("No offer data this cycle",
			zap.Uint("product_id", product.ID))
		return nil
	}

	newOffers := make([]model.Offer, 0, len(snapshots))
	for _, snap := range snapshots {
		newOffers = append(newOffers, model.Offer{
			ID:           snap.ID,
			ProductID:    product.ID,
			Price:        snap.Price,
			ItemsInStock: snap.ItemsInStock,
		})
	}

	if err := s.store.ReplaceOffers(ctx, product.ID, newOffers); err != nil {
		prometheus.RecordProductRefresh("error")
		prometheus.ReconcileErrorsTotal.Inc()
		return err
	}

	prometheus.RecordProductRefresh("updated")
	prometheus.OffersReplacedTotal.Inc()
	s.log.Info("Offers reconciled",
		zap.Uint("product_id", product.ID),
		zap.Int("offer_count", len(newOffers)))
	return nil
}

// RefreshAll refreshes every known product, isolating failures per product
// so one bad product or one remote hiccup never aborts the rest.
func (s *Syncer) RefreshAll(ctx context.Context) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		s.log.Error("Failed to list products for refresh", zap.Error(err))
		return
	}

	// Sequential on purpose: it bounds a tick at N remote timeouts, but
	// makes "no two refreshes of the same product interleave" trivially
	// true. The per-product row lock in ReplaceOffers still guards against
	// a racing creation request.
	for _, product := range products {
		if ctx.Err() != nil {
			return
		}
		if err := s.Refresh(ctx, product); err != nil {
			s.log.Warn("Product refresh failed",
				zap.Uint("product_id", product.ID),
				zap.Error(err))
		}
	}
}
