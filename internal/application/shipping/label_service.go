package shipping

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/garmentcrm/backend/internal/domain/shipping"
)

// LabelService buys labels for rate-quoted packages. Purchases for a
// batch run concurrently; a failed purchase degrades to a warning so one
// carrier hiccup never sinks the whole order.
type LabelService struct {
	carrier CarrierService
	logger  *zap.Logger
}

// NewLabelService creates a new label service
func NewLabelService(carrier CarrierService, logger *zap.Logger) *LabelService {
	return &LabelService{carrier: carrier, logger: logger}
}

// AcquireLabels buys a label for every package that is rate-quoted and
// not yet labeled, stamping tracking code, label URL and shipment status
// onto the package in place. Packages without a shipment/rate reference
// and packages that already carry a tracking code are skipped, so calling
// this twice never buys a label twice. Returns one warning per failed
// purchase.
func (s *LabelService) AcquireLabels(ctx context.Context, packages []*shipping.WorkingPackage) []string {
	var (
		mu       sync.Mutex
		warnings []string
		wg       sync.WaitGroup
	)

	for _, pkg := range packages {
		if !pkg.NeedsLabel() {
			continue
		}

		wg.Add(1)
		go func(pkg *shipping.WorkingPackage) {
			defer wg.Done()

			label, err := s.carrier.BuyLabel(ctx, pkg.ShipmentRef, pkg.RateRef)
			if err != nil {
				s.logger.Warn("label purchase failed",
					zap.String("package", packageLabel(pkg)),
					zap.String("shipment_ref", pkg.ShipmentRef),
					zap.Error(err))
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("failed to buy label for package %s: %v", packageLabel(pkg), err))
				mu.Unlock()
				return
			}

			mu.Lock()
			pkg.TrackingCode = label.TrackingCode
			pkg.LabelURL = label.LabelURL
			pkg.ShipmentStatus = label.ShipmentStatus
			mu.Unlock()

			s.logger.Info("label purchased",
				zap.String("package", packageLabel(pkg)),
				zap.String("tracking_code", label.TrackingCode))
		}(pkg)
	}

	wg.Wait()
	return warnings
}
