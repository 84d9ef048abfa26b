package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

var maxTaxRate = decimal.NewFromInt(100)

type catalogService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewCatalogService creates the product service.
func NewCatalogService(store portsrepo.LedgerStore, opts ...ServiceOption) portssvc.CatalogSvcFacade {
	return &catalogService{BaseService: applyOptions(opts), store: store}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) CreateProduct(ctx context.Context, shopID string, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("product name is required")
	}
	for field, v := range map[string]decimal.Decimal{
		"unitCost": req.UnitCost, "sellingPrice": req.SellingPrice, "stock": req.Stock, "minStock": req.MinStock,
	} {
		if v.IsNegative() {
			return nil, validationError("%s must not be negative", field)
		}
	}
	if err := checkTaxRate(req.TaxRate); err != nil {
		return nil, err
	}

	product := domain.Product{
		ProductID:    s.NewID(),
		ShopID:       shopID,
		Name:         name,
		Category:     strings.TrimSpace(req.Category),
		Unit:         strings.TrimSpace(req.Unit),
		UnitCost:     req.UnitCost,
		SellingPrice: req.SellingPrice,
		TaxRate:      req.TaxRate,
		Stock:        req.Stock,
		MinStock:     req.MinStock,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	err := s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		return tx.SaveProduct(ctx, product)
	})
	if err != nil {
		s.LogFailure(ctx, err, "create_product", slog.String("name", name))
		return nil, err
	}
	s.LogInfo(ctx, "product created", slog.String("product_id", product.ProductID))
	return &product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, shopID string, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	var updated domain.Product
	err := s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		locked, err := tx.LockProducts(ctx, []string{productID})
		if err != nil {
			return err
		}
		p, ok := locked[productID]
		if !ok {
			return apperrors.ErrProductNotFound
		}
		if err := s.AuthorizeShop(ctx, shopID, p.ShopID, "product", productID); err != nil {
			return err
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return validationError("product name must not be empty")
			}
			p.Name = name
		}
		if req.Category != nil {
			p.Category = strings.TrimSpace(*req.Category)
		}
		if req.Unit != nil {
			p.Unit = strings.TrimSpace(*req.Unit)
		}
		if req.SellingPrice != nil {
			if req.SellingPrice.IsNegative() {
				return validationError("sellingPrice must not be negative")
			}
			p.SellingPrice = *req.SellingPrice
		}
		if req.TaxRate != nil {
			if err := checkTaxRate(*req.TaxRate); err != nil {
				return err
			}
			p.TaxRate = *req.TaxRate
		}
		if req.MinStock != nil {
			if req.MinStock.IsNegative() {
				return validationError("minStock must not be negative")
			}
			p.MinStock = *req.MinStock
		}
		p.Touch(userID, s.Now())
		updated = p
		return tx.UpdateProductDetails(ctx, p)
	})
	if err != nil {
		s.LogFailure(ctx, err, "update_product", slog.String("product_id", productID))
		return nil, err
	}
	return &updated, nil
}

func (s *catalogService) GetProductByID(ctx context.Context, shopID string, productID string) (*domain.Product, error) {
	p, err := s.store.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeShop(ctx, shopID, p.ShopID, "product", productID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, shopID string, params dto.ListProductsParams) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, shopID, portsrepo.ProductFilter{
		Search:       params.Search,
		Category:     params.Category,
		LowStockOnly: params.LowStock,
	})
}

func (s *catalogService) ListLowStock(ctx context.Context, shopID string) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, shopID, portsrepo.ProductFilter{LowStockOnly: true})
}

func checkTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(maxTaxRate) {
		return validationError("taxRate %s outside 0..100", rate)
	}
	return nil
}
