package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/garmentcrm/backend/internal/domain/partner"
	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/garmentcrm/backend/internal/domain/shipping"
)

// State names the pipeline step a run is in. Runs move strictly forward;
// a failure in any persistence step unwinds to StateRolledBack.
type State string

const (
	StateValidateInput     State = "VALIDATE_INPUT"
	StateCreateOrder       State = "CREATE_ORDER"
	StateCreateItems       State = "CREATE_ITEMS"
	StateReconcilePackages State = "RECONCILE_PACKAGES"
	StateUploadImages      State = "UPLOAD_IMAGES"
	StateRecordActivity    State = "RECORD_ACTIVITY"
	StateCommitted         State = "COMMITTED"
	StateRolledBack        State = "ROLLED_BACK"
)

// Pipeline orchestrates a full shipping order save: validation, header
// and item persistence, package reconciliation with label purchase,
// image uploads and activity history. Steps up to package persistence
// are fatal and roll back everything created in the run; label, image
// and activity failures degrade to warnings on the committed result.
type Pipeline struct {
	orders     shipping.ShippingOrderRepository
	packages   shipping.PackageSpecRepository
	customers  partner.CustomerRepository
	reconciler *Reconciler
	labels     *LabelService
	uploader   *ImageUploader
	audit      AuditSink
	cache      MetricsCache
	logger     *zap.Logger
}

// NewPipeline creates a new shipping order pipeline. cache may be nil
// when dashboard caching is disabled.
func NewPipeline(
	orders shipping.ShippingOrderRepository,
	packages shipping.PackageSpecRepository,
	customers partner.CustomerRepository,
	labels *LabelService,
	uploader *ImageUploader,
	audit AuditSink,
	cache MetricsCache,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		orders:     orders,
		packages:   packages,
		customers:  customers,
		reconciler: NewReconciler(),
		labels:     labels,
		uploader:   uploader,
		audit:      audit,
		cache:      cache,
		logger:     logger,
	}
}

// CreateOrder runs the full pipeline for a brand-new shipping order.
// On any fatal failure every entity created by this run is deleted
// newest-first and the error is returned; nothing from a failed run is
// left behind.
func (p *Pipeline) CreateOrder(ctx context.Context, input *CreateOrderInput) (*PipelineResult, error) {
	comps := &compensationStack{}
	var warnings []string

	// VALIDATE_INPUT
	liveItems := liveWorkingItems(input.Items)
	customer, err := p.validateCreate(ctx, input, liveItems)
	if err != nil {
		return nil, err
	}

	// CREATE_ORDER
	p.logger.Info("pipeline step", zap.String("state", string(StateCreateOrder)))
	orderNumber, err := p.orders.NextOrderNumber(ctx)
	if err != nil {
		return nil, newPersistenceError("reserving order number", err)
	}
	order, err := shipping.NewShippingOrder(orderNumber, input.CustomerID, input.UserOwner)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if input.Status != "" {
		if err := order.SetStatus(input.Status); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}
	if !input.OrderDate.IsZero() {
		order.OrderDate = input.OrderDate
	}
	order.ExpectedShipDate = input.ExpectedShipDate
	order.Notes = input.Notes
	order.Terms = input.Terms
	if input.Currency != "" {
		order.Currency = input.Currency
	}
	if input.SourceOrderID != nil {
		order.SetSourceOrder(*input.SourceOrderID)
	}

	items, err := buildItems(order.ID, liveItems, input.TaxRate)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	order.Items = domainItems(items)
	order.RecalculateTotals(input.TaxRate)
	if err := order.SetTotals(order.Subtotal, order.TaxTotal, input.InsuranceValue); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := p.orders.Save(ctx, order); err != nil {
		return nil, newPersistenceError("creating shipping order", err)
	}
	comps.push(fmt.Sprintf("delete order %s", order.OrderNumber), func(ctx context.Context) error {
		return p.orders.Delete(ctx, order.ID)
	})

	// CREATE_ITEMS
	p.logger.Info("pipeline step", zap.String("state", string(StateCreateItems)))
	if err := p.createItems(ctx, comps, items); err != nil {
		return p.fail(ctx, comps, err)
	}

	// RECONCILE_PACKAGES
	labelWarnings, err := p.reconcilePackages(ctx, comps, order, input.Packages, liveItems, items, nil)
	if err != nil {
		return p.fail(ctx, comps, err)
	}
	warnings = append(warnings, labelWarnings...)

	// UPLOAD_IMAGES
	p.logger.Info("pipeline step", zap.String("state", string(StateUploadImages)))
	warnings = append(warnings, p.uploader.UploadAll(ctx, order.ID, order.OrderNumber,
		customer.ID, order.Status.String(), order.UserOwner, uploadWork(liveItems, items))...)

	// RECORD_ACTIVITY
	p.recordCreationActivity(ctx, input, order, len(input.Packages))

	p.commit(ctx, order.OrderNumber)
	return &PipelineResult{Order: order, State: StateCommitted, Warnings: warnings}, nil
}

// UpdateOrder runs the pipeline against an existing order. The item and
// package working sets are authoritative: persisted rows absent from
// them are removed, new entries are created, the rest updated in place.
// Entities created by this run are rolled back on fatal failure;
// updates and deletes are not undone.
func (p *Pipeline) UpdateOrder(ctx context.Context, input *UpdateOrderInput) (*PipelineResult, error) {
	comps := &compensationStack{}
	var warnings []string

	// VALIDATE_INPUT
	p.logger.Info("pipeline step", zap.String("state", string(StateValidateInput)))
	order, err := p.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, newValidationError("shipping order %s not found", input.OrderID)
		}
		return nil, newPersistenceError("loading shipping order", err)
	}
	liveItems := liveWorkingItems(input.Items)
	if len(liveItems) == 0 {
		return nil, newValidationError("a shipping order needs at least one item")
	}
	if input.InsuranceValue.IsNegative() {
		return nil, newValidationError("insurance value cannot be negative")
	}
	customer, err := p.findCustomer(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := p.reconciler.Validate(input.Packages, input.Items, customer.PrimaryPhone()); err != nil {
		return nil, err
	}

	// CREATE_ORDER: apply header edits
	p.logger.Info("pipeline step", zap.String("state", string(StateCreateOrder)))
	if input.Status != "" {
		if err := order.SetStatus(input.Status); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}
	order.ExpectedShipDate = input.ExpectedShipDate
	order.Notes = input.Notes
	order.Terms = input.Terms
	order.UserOwner = input.UserOwner

	// CREATE_ITEMS: three-way item diff
	p.logger.Info("pipeline step", zap.String("state", string(StateCreateItems)))
	created, err := p.applyItemDiff(ctx, comps, order, input)
	if err != nil {
		return p.fail(ctx, comps, err)
	}

	if err := p.orders.Save(ctx, order); err != nil {
		return p.fail(ctx, comps, newPersistenceError("updating shipping order", err))
	}

	// RECONCILE_PACKAGES
	persisted, err := p.packages.FindByOrder(ctx, order.ID)
	if err != nil {
		return p.fail(ctx, comps, newPersistenceError("loading package specifications", err))
	}
	labelWarnings, err := p.reconcilePackages(ctx, comps, order, input.Packages, liveItems, created, persisted)
	if err != nil {
		return p.fail(ctx, comps, err)
	}
	warnings = append(warnings, labelWarnings...)

	// UPLOAD_IMAGES: only brand-new items carry fresh uploads
	p.logger.Info("pipeline step", zap.String("state", string(StateUploadImages)))
	newItems := make([]*shipping.WorkingItem, 0, len(liveItems))
	for _, item := range liveItems {
		if item.Action == shipping.ItemActionCreate {
			newItems = append(newItems, item)
		}
	}
	warnings = append(warnings, p.uploader.UploadAll(ctx, order.ID, order.OrderNumber,
		customer.ID, order.Status.String(), order.UserOwner, uploadWork(newItems, created))...)

	// RECORD_ACTIVITY
	p.logger.Info("pipeline step", zap.String("state", string(StateRecordActivity)))
	activityText := fmt.Sprintf("Updated Shipping Order #%s", order.OrderNumber)
	if err := p.audit.Record(ctx, order.CustomerID, order.Status.String(), activityText,
		"UPDATE", order.ID, "SHIPPING", order.UserOwner); err != nil {
		p.logger.Warn("failed to record update activity", zap.Error(err))
	}

	p.commit(ctx, order.OrderNumber)
	return &PipelineResult{Order: order, State: StateCommitted, Warnings: warnings}, nil
}

func (p *Pipeline) validateCreate(ctx context.Context, input *CreateOrderInput, liveItems []*shipping.WorkingItem) (*partner.Customer, error) {
	p.logger.Info("pipeline step", zap.String("state", string(StateValidateInput)))
	if input.CustomerID == uuid.Nil {
		return nil, newValidationError("a customer is required for a shipping order")
	}
	if len(liveItems) == 0 {
		return nil, newValidationError("a shipping order needs at least one item")
	}
	if input.InsuranceValue.IsNegative() {
		return nil, newValidationError("insurance value cannot be negative")
	}
	customer, err := p.findCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := p.reconciler.Validate(input.Packages, input.Items, customer.PrimaryPhone()); err != nil {
		return nil, err
	}
	return customer, nil
}

func (p *Pipeline) findCustomer(ctx context.Context, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := p.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, newValidationError("customer %s not found", customerID)
		}
		return nil, newPersistenceError("loading customer", err)
	}
	return customer, nil
}

// createItems persists built line items concurrently. Each success is
// pushed onto the compensation stack before the next write can fail.
func (p *Pipeline) createItems(ctx context.Context, comps *compensationStack, items map[*shipping.WorkingItem]*shipping.ShippingOrderItem) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		g.Go(func() error {
			if err := p.orders.CreateItem(gctx, item); err != nil {
				return err
			}
			comps.push(fmt.Sprintf("delete item %s", item.ItemNumber), func(ctx context.Context) error {
				return p.orders.DeleteItem(ctx, item.ID)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return newPersistenceError("creating order items", err)
	}
	return nil
}

// applyItemDiff creates, updates and deletes line items per their
// working-set action and refreshes the order totals. Returns the map of
// created working items to their persisted rows.
func (p *Pipeline) applyItemDiff(ctx context.Context, comps *compensationStack, order *shipping.ShippingOrder, input *UpdateOrderInput) (map[*shipping.WorkingItem]*shipping.ShippingOrderItem, error) {
	var toCreate []*shipping.WorkingItem
	survivors := make([]shipping.ShippingOrderItem, 0, len(input.Items))

	for _, w := range input.Items {
		switch w.Action {
		case shipping.ItemActionCreate:
			toCreate = append(toCreate, w)

		case shipping.ItemActionUpdate:
			existing := order.GetItem(w.ID)
			if existing == nil {
				return nil, newValidationError("item %s does not belong to order %s", w.ID, order.OrderNumber)
			}
			existing.ItemName = w.ItemName
			existing.ItemDescription = w.ItemDescription
			existing.Quantity = w.Quantity
			existing.UnitPrice = w.UnitPrice
			existing.TaxRate = input.TaxRate
			if err := p.orders.UpdateItem(ctx, existing); err != nil {
				return nil, newPersistenceError("updating order item", err)
			}
			survivors = append(survivors, *existing)

		case shipping.ItemActionKeep:
			if existing := order.GetItem(w.ID); existing != nil {
				survivors = append(survivors, *existing)
			}

		case shipping.ItemActionDelete:
			if err := p.packages.DeleteAssignmentsForItem(ctx, w.ID); err != nil {
				return nil, newPersistenceError("removing item assignments", err)
			}
			if err := p.orders.DeleteItem(ctx, w.ID); err != nil {
				return nil, newPersistenceError("deleting order item", err)
			}
		}
	}

	created, err := buildItems(order.ID, toCreate, input.TaxRate)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := p.createItems(ctx, comps, created); err != nil {
		return nil, err
	}

	order.Items = append(survivors, domainItems(created)...)
	order.RecalculateTotals(input.TaxRate)
	if err := order.SetTotals(order.Subtotal, order.TaxTotal, input.InsuranceValue); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return created, nil
}

// reconcilePackages buys labels for the working set, then persists the
// plan: creates and updates concurrently, deletes and assignment rebuilds
// sequentially. Label failures come back as warnings; everything else is
// fatal.
func (p *Pipeline) reconcilePackages(
	ctx context.Context,
	comps *compensationStack,
	order *shipping.ShippingOrder,
	desired []*shipping.WorkingPackage,
	liveItems []*shipping.WorkingItem,
	created map[*shipping.WorkingItem]*shipping.ShippingOrderItem,
	persisted []shipping.PackageSpecification,
) ([]string, error) {
	p.logger.Info("pipeline step", zap.String("state", string(StateReconcilePackages)))

	mergePersistedLabels(desired, persisted)
	plan := p.reconciler.Plan(desired, persisted)
	warnings := p.labels.AcquireLabels(ctx, desired)

	refToID := make(map[string]uuid.UUID, len(desired))
	specs := make(map[*shipping.WorkingPackage]*shipping.PackageSpecification, len(desired))
	for _, pkg := range desired {
		spec, err := pkg.ToSpecification(order.ID)
		if err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
		refToID[pkg.Ref] = spec.ID
		specs[pkg] = spec
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, pkg := range plan.Creates {
		spec := specs[pkg]
		g.Go(func() error {
			if err := p.packages.Create(gctx, spec); err != nil {
				return err
			}
			comps.push(fmt.Sprintf("delete package %s", spec.Name), func(ctx context.Context) error {
				return p.packages.Delete(ctx, spec.ID)
			})
			return nil
		})
	}
	for _, pkg := range plan.Updates {
		spec := specs[pkg]
		g.Go(func() error {
			return p.packages.Update(gctx, spec)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, newPersistenceError("persisting package specifications", err)
	}

	for _, id := range plan.Deletes {
		if err := p.packages.Delete(ctx, id); err != nil {
			return nil, newPersistenceError("deleting package specification", err)
		}
	}

	// Rebuild assignments for surviving packages from the working set
	for _, pkg := range plan.Updates {
		if err := p.packages.DeleteAssignmentsForPackage(ctx, pkg.ID); err != nil {
			return nil, newPersistenceError("clearing package assignments", err)
		}
	}
	for _, item := range liveItems {
		itemID := item.ID
		if c, ok := created[item]; ok {
			itemID = c.ID
		}
		for ref, qty := range item.PackageQuantities {
			if qty <= 0 {
				continue
			}
			pkgID, ok := refToID[ref]
			if !ok {
				return nil, newValidationError("item %s is assigned to unknown package reference %s", item.ItemName, ref)
			}
			assignment, err := shipping.NewPackageItemAssignment(pkgID, itemID, qty)
			if err != nil {
				return nil, &ValidationError{Message: err.Error()}
			}
			if err := p.packages.CreateAssignment(ctx, assignment); err != nil {
				return nil, newPersistenceError("creating package assignment", err)
			}
			assignmentID := assignment.ID
			comps.push("delete package assignment", func(ctx context.Context) error {
				return p.packages.DeleteAssignment(ctx, assignmentID)
			})
		}
	}

	return warnings, nil
}

// mergePersistedLabels carries already-purchased label fields from the
// persisted rows into the working set. Clients echo packages back without
// the tracking code they never saw; treating that as unlabelled would buy
// a second label for the same shipment. A changed shipment or rate ref
// means a genuine re-quote, so those packages keep their blank label and
// go back through acquisition.
func mergePersistedLabels(desired []*shipping.WorkingPackage, persisted []shipping.PackageSpecification) {
	if len(persisted) == 0 {
		return
	}
	byID := make(map[uuid.UUID]*shipping.PackageSpecification, len(persisted))
	for i := range persisted {
		byID[persisted[i].ID] = &persisted[i]
	}
	for _, pkg := range desired {
		if pkg.Kind != shipping.PackageExisting || pkg.TrackingCode != "" {
			continue
		}
		row, ok := byID[pkg.ID]
		if !ok || row.TrackingCode == "" {
			continue
		}
		if row.ShipmentRef != pkg.ShipmentRef || row.RateRef != pkg.RateRef {
			continue
		}
		pkg.TrackingCode = row.TrackingCode
		pkg.LabelURL = row.LabelURL
		pkg.ShipmentStatus = row.ShipmentStatus
	}
}

func (p *Pipeline) recordCreationActivity(ctx context.Context, input *CreateOrderInput, order *shipping.ShippingOrder, packageCount int) {
	p.logger.Info("pipeline step", zap.String("state", string(StateRecordActivity)))

	activityText := fmt.Sprintf("Created new Shipping Order #%s with %d items and %d packages",
		order.OrderNumber, order.ItemCount(), packageCount)
	if err := p.audit.Record(ctx, order.CustomerID, order.Status.String(), activityText,
		"CREATE", order.ID, "SHIPPING", order.UserOwner); err != nil {
		p.logger.Warn("failed to record creation activity", zap.Error(err))
	}

	if input.SourceOrderID != nil {
		conversionText := fmt.Sprintf("Converted Order #%s to Shipping Order #%s",
			input.SourceOrderNumber, order.OrderNumber)
		if err := p.audit.Record(ctx, order.CustomerID, order.Status.String(), conversionText,
			"CONVERT", *input.SourceOrderID, "ORDERS", order.UserOwner); err != nil {
			p.logger.Warn("failed to record conversion activity", zap.Error(err))
		}
	}
}

func (p *Pipeline) commit(ctx context.Context, orderNumber string) {
	if p.cache != nil {
		if err := p.cache.Invalidate(ctx); err != nil {
			p.logger.Warn("failed to invalidate metrics cache", zap.Error(err))
		}
	}
	p.logger.Info("pipeline committed", zap.String("order_number", orderNumber))
}

func (p *Pipeline) fail(ctx context.Context, comps *compensationStack, err error) (*PipelineResult, error) {
	p.logger.Error("pipeline failed, rolling back", zap.Error(err))
	comps.unwind(ctx, p.logger)
	return nil, err
}

func liveWorkingItems(items []*shipping.WorkingItem) []*shipping.WorkingItem {
	live := make([]*shipping.WorkingItem, 0, len(items))
	for _, item := range items {
		if item.Action != shipping.ItemActionDelete {
			live = append(live, item)
		}
	}
	return live
}

// buildItems materializes working items as domain line items keyed by
// their working-set entry
func buildItems(orderID uuid.UUID, items []*shipping.WorkingItem, taxRate decimal.Decimal) (map[*shipping.WorkingItem]*shipping.ShippingOrderItem, error) {
	built := make(map[*shipping.WorkingItem]*shipping.ShippingOrderItem, len(items))
	for _, w := range items {
		item, err := shipping.NewShippingOrderItem(orderID, w.ItemNumber, w.ItemName, w.Quantity, w.UnitPrice, taxRate)
		if err != nil {
			return nil, err
		}
		item.ItemDescription = w.ItemDescription
		item.ProductID = w.ProductID
		item.TrimID = w.TrimID
		item.YarnID = w.YarnID
		item.PackagingID = w.PackagingID
		built[w] = item
	}
	return built, nil
}

func domainItems(built map[*shipping.WorkingItem]*shipping.ShippingOrderItem) []shipping.ShippingOrderItem {
	out := make([]shipping.ShippingOrderItem, 0, len(built))
	for _, item := range built {
		out = append(out, *item)
	}
	return out
}

func uploadWork(items []*shipping.WorkingItem, built map[*shipping.WorkingItem]*shipping.ShippingOrderItem) []ItemImages {
	work := make([]ItemImages, 0, len(items))
	for _, w := range items {
		if len(w.Images) == 0 {
			continue
		}
		itemID := w.ID
		if b, ok := built[w]; ok {
			itemID = b.ID
		}
		work = append(work, ItemImages{ItemID: itemID, ItemName: w.ItemName, Images: w.Images})
	}
	return work
}
