package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/SscSPs/shop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// productHandler handles the product catalog.
type productHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

func newProductHandler(cs portssvc.CatalogSvcFacade) *productHandler {
	return &productHandler{catalogService: cs}
}

func registerProductRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := newProductHandler(catalogService)

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/low-stock", h.listLowStock)
		products.GET("/:productID", h.getProduct)
		products.PATCH("/:productID", h.updateProduct)
	}
}

// createProduct godoc
// @Summary Add a product
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /products [post]
func (h *productHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "product request", err)
		return
	}
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}
	logger.Info("Received request to create product", slog.String("name", req.Name))

	product, err := h.catalogService.CreateProduct(c.Request.Context(), shopID, req, userID)
	if err != nil {
		respondError(c, logger, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// updateProduct godoc
// @Summary Edit a product
// @Description Changes descriptive fields only. Stock and unit cost move through sales and purchases.
// @Tags products
// @Accept json
// @Produce json
// @Param productID path string true "Product ID"
// @Param product body dto.UpdateProductRequest true "Fields to change"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Security BearerAuth
// @Router /products/{productID} [patch]
func (h *productHandler) updateProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "product request", err)
		return
	}
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}
	productID := c.Param("productID")

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), shopID, productID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("product_id", productID)), err, "update product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param productID path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Security BearerAuth
// @Router /products/{productID} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	productID := c.Param("productID")

	product, err := h.catalogService.GetProductByID(c.Request.Context(), shopID, productID)
	if err != nil {
		respondError(c, logger.With(slog.String("product_id", productID)), err, "get product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param search query string false "Name contains"
// @Param category query string false "Category"
// @Param lowStock query bool false "Only products at or below their minimum"
// @Success 200 {array} dto.ProductResponse
// @Security BearerAuth
// @Router /products [get]
func (h *productHandler) listProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListProductsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "product list query", err)
		return
	}
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), shopID, params)
	if err != nil {
		respondError(c, logger, err, "list products")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}

// listLowStock godoc
// @Summary Low stock products
// @Tags products
// @Produce json
// @Success 200 {array} dto.ProductResponse
// @Security BearerAuth
// @Router /products/low-stock [get]
func (h *productHandler) listLowStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	products, err := h.catalogService.ListLowStock(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, logger, err, "list low stock products")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}
