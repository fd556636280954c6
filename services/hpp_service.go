package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sigitdim/fortisapp-sub001/engine"
	"github.com/sigitdim/fortisapp-sub001/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Notifier receives recomputed HPP snapshots after an input changed.
type Notifier interface {
	BroadcastHPPUpdate(ownerID uint, data interface{})
}

// HPPService glues the catalog to the pricing engine. It holds no state
// besides its collaborators; every call recomputes from the catalog.
type HPPService struct {
	catalog  CatalogReader
	policy   engine.PricingPolicy
	workers  int
	notifier Notifier
	now      func() time.Time
}

func NewHPPService(catalog CatalogReader, policy engine.PricingPolicy, workers int) *HPPService {
	if workers < 1 {
		workers = 1
	}
	return &HPPService{
		catalog: catalog,
		policy:  policy,
		workers: workers,
		now:     time.Now,
	}
}

// WithNotifier enables hpp_update pushes from NotifyProducts.
func (s *HPPService) WithNotifier(n Notifier) *HPPService {
	s.notifier = n
	return s
}

func (s *HPPService) Policy() engine.PricingPolicy {
	return s.policy
}

type ProductHPP struct {
	Product ProductSummary      `json:"product"`
	HPP     engine.CostSnapshot `json:"hpp"`
}

type ProductRecommendation struct {
	Product        ProductSummary             `json:"product"`
	TotalCost      engine.Money               `json:"total_cost"`
	Recommendation engine.PriceRecommendation `json:"recommendation"`
}

type ProductProfit struct {
	Product ProductSummary `json:"product"`
	engine.ProfitView
	MarginLabel string `json:"margin_label"`
	Display     string `json:"display"`
}

// PromoEvaluation is one promo applied to one product. Error is set instead
// of the result fields when the promo cannot be evaluated.
type PromoEvaluation struct {
	ProductID uint         `json:"product_id"`
	PromoName string       `json:"promo_name"`
	TotalCost engine.Money `json:"total_cost"`
	BasePrice engine.Money `json:"base_price"`
	engine.PromoResult
	Error string `json:"error,omitempty"`
}

// SimulationResult is the HPP of an unsaved composition.
type SimulationResult struct {
	HPP            engine.CostSnapshot        `json:"hpp"`
	Recommendation engine.PriceRecommendation `json:"recommendation"`
	Profit         *engine.ProfitView         `json:"profit,omitempty"`
	MarginLabel    string                     `json:"margin_label,omitempty"`
}

// Ingredients returns the owner's ingredients keyed by id, with derived unit
// prices.
func (s *HPPService) Ingredients(ctx context.Context, ownerID uint) (map[uint]engine.Ingredient, error) {
	list, err := s.catalog.GetIngredients(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]engine.Ingredient, len(list))
	for _, ing := range list {
		out[ing.ID] = ing
	}
	return out, nil
}

// ProductCost aggregates the stored composition and allocations of a product.
func (s *HPPService) ProductCost(ctx context.Context, productID uint) (engine.CostSnapshot, error) {
	lines, err := s.catalog.GetBomLines(ctx, productID)
	if err != nil {
		return engine.CostSnapshot{}, err
	}
	overhead, err := s.catalog.GetOverheadAllocation(ctx, productID)
	if err != nil {
		return engine.CostSnapshot{}, err
	}
	labor, err := s.catalog.GetLaborAllocation(ctx, productID)
	if err != nil {
		return engine.CostSnapshot{}, err
	}
	snap, err := engine.Aggregate(lines, overhead, labor)
	if err != nil {
		return engine.CostSnapshot{}, fmt.Errorf("product %d: %w", productID, err)
	}
	return snap, nil
}

func (s *HPPService) ProductHPP(ctx context.Context, ownerID, productID uint) (ProductHPP, error) {
	product, err := s.catalog.GetProduct(ctx, ownerID, productID)
	if err != nil {
		return ProductHPP{}, err
	}
	snap, err := s.ProductCost(ctx, productID)
	if err != nil {
		return ProductHPP{}, err
	}
	return ProductHPP{Product: product, HPP: snap}, nil
}

func (s *HPPService) Recommendation(ctx context.Context, ownerID, productID uint) (ProductRecommendation, error) {
	h, err := s.ProductHPP(ctx, ownerID, productID)
	if err != nil {
		return ProductRecommendation{}, err
	}
	return ProductRecommendation{
		Product:        h.Product,
		TotalCost:      h.HPP.TotalCost,
		Recommendation: engine.Recommend(h.HPP.TotalCost, s.policy),
	}, nil
}

// Profit evaluates price against the product's HPP. A nil price means the
// product's own selling price.
func (s *HPPService) Profit(ctx context.Context, ownerID, productID uint, price *engine.Money, applyTax, applyChannelFee bool) (ProductProfit, error) {
	h, err := s.ProductHPP(ctx, ownerID, productID)
	if err != nil {
		return ProductProfit{}, err
	}
	ref := h.Product.UserPrice
	if price != nil {
		ref = *price
	}
	view := engine.Profit(ref, h.HPP.TotalCost, applyTax, applyChannelFee, s.policy)
	return ProductProfit{
		Product:     h.Product,
		ProfitView:  view,
		MarginLabel: view.MarginLabel(),
		Display:     utils.FormatRupiah(int64(view.ProfitPerUnit)),
	}, nil
}

// EvaluatePromo runs a stored promo against a product.
func (s *HPPService) EvaluatePromo(ctx context.Context, ownerID, promoID, productID uint, basePrice *engine.Money) (PromoEvaluation, error) {
	def, err := s.catalog.GetPromo(ctx, ownerID, promoID)
	if err != nil {
		return PromoEvaluation{}, err
	}
	return s.SimulatePromo(ctx, ownerID, productID, def, basePrice)
}

// SimulatePromo runs an unsaved promo definition against a product.
func (s *HPPService) SimulatePromo(ctx context.Context, ownerID, productID uint, def engine.PromoDefinition, basePrice *engine.Money) (PromoEvaluation, error) {
	h, err := s.ProductHPP(ctx, ownerID, productID)
	if err != nil {
		return PromoEvaluation{}, err
	}
	base := s.basePrice(h, basePrice)
	res, err := engine.EvaluatePromo(def, h.HPP.TotalCost, base, s.policy)
	if err != nil {
		return PromoEvaluation{}, err
	}
	return PromoEvaluation{
		ProductID:   productID,
		PromoName:   def.Name,
		TotalCost:   h.HPP.TotalCost,
		BasePrice:   base,
		PromoResult: res,
	}, nil
}

// ActivePromos evaluates every promo that is active now and targets the
// product. A promo that fails keeps its row with Error set.
func (s *HPPService) ActivePromos(ctx context.Context, ownerID, productID uint) ([]PromoEvaluation, error) {
	h, err := s.ProductHPP(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	defs, err := s.catalog.GetPromoDefinitions(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	base := s.basePrice(h, nil)
	out := make([]PromoEvaluation, 0, len(defs))
	for _, def := range defs {
		if !def.IsActiveAt(now) || !appliesTo(def, productID) {
			continue
		}
		ev := PromoEvaluation{
			ProductID: productID,
			PromoName: def.Name,
			TotalCost: h.HPP.TotalCost,
			BasePrice: base,
		}
		res, err := engine.EvaluatePromo(def, h.HPP.TotalCost, base, s.policy)
		if err != nil {
			ev.PromoID = def.ID
			ev.Type = def.Type
			ev.Error = err.Error()
		} else {
			ev.PromoResult = res
		}
		out = append(out, ev)
	}
	return out, nil
}

// basePrice prefers an explicit price, then the product's selling price, and
// finally the standard recommendation for products not priced yet.
func (s *HPPService) basePrice(h ProductHPP, explicit *engine.Money) engine.Money {
	if explicit != nil {
		return *explicit
	}
	if h.Product.UserPrice > 0 {
		return h.Product.UserPrice
	}
	return engine.Recommend(h.HPP.TotalCost, s.policy).Standard
}

func appliesTo(def engine.PromoDefinition, productID uint) bool {
	return len(def.ProductIDs) == 0 || slices.Contains(def.ProductIDs, productID)
}

// Simulate computes HPP for a composition that is not stored. price may be
// zero, in which case no profit view is returned.
func (s *HPPService) Simulate(lines []engine.BomLine, overhead, labor float64, price engine.Money) (SimulationResult, error) {
	snap, err := engine.Aggregate(lines, overhead, labor)
	if err != nil {
		return SimulationResult{}, err
	}
	res := SimulationResult{
		HPP:            snap,
		Recommendation: engine.Recommend(snap.TotalCost, s.policy),
	}
	if price > 0 {
		view := engine.Profit(price, snap.TotalCost, false, false, s.policy)
		res.Profit = &view
		res.MarginLabel = view.MarginLabel()
	}
	return res, nil
}

// Rekap computes every product of the owner concurrently and projects the
// rows. A product that fails keeps its row with an error message.
func (s *HPPService) Rekap(ctx context.Context, ownerID uint, q engine.RekapQuery) ([]engine.RekapRow, error) {
	products, err := s.catalog.GetProducts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	inputs := make([]engine.RekapInput, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			in := engine.RekapInput{ProductID: p.ID, Name: p.Name, UserPrice: p.UserPrice}
			snap, err := s.ProductCost(gctx, p.ID)
			if err != nil {
				utils.ErrorLogger.WithFields(logrus.Fields{
					"owner_id":   ownerID,
					"product_id": p.ID,
				}).Warnf("rekap row degraded: %v", err)
				in.Err = err
			} else {
				in.Snapshot = snap
				in.Profit = engine.Profit(p.UserPrice, snap.TotalCost, false, false, s.policy)
			}
			inputs[i] = in
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rekap: %w", err)
	}
	return engine.Project(inputs, q), nil
}

// NotifyProducts recomputes the given products and pushes hpp_update events.
// Failures are logged; they never fail the edit that triggered them.
func (s *HPPService) NotifyProducts(ctx context.Context, ownerID uint, productIDs ...uint) {
	if s.notifier == nil {
		return
	}
	for _, id := range productIDs {
		h, err := s.ProductHPP(ctx, ownerID, id)
		if err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"owner_id":   ownerID,
				"product_id": id,
			}).Warnf("skip hpp_update: %v", err)
			continue
		}
		s.notifier.BroadcastHPPUpdate(ownerID, h)
	}
}

// NotifyIngredient pushes hpp_update for every product using the ingredient.
func (s *HPPService) NotifyIngredient(ctx context.Context, ownerID, ingredientID uint) {
	if s.notifier == nil {
		return
	}
	ids, err := s.catalog.GetProductIDsByIngredient(ctx, ingredientID)
	if err != nil {
		utils.ErrorLogger.Printf("Error loading products for ingredient %d: %v", ingredientID, err)
		return
	}
	s.NotifyProducts(ctx, ownerID, ids...)
}
