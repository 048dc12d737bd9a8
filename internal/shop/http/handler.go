package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/catalog"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/orders"
)

const (
	defaultLimit  = 100
	maxLimit      = 1000
	defaultOffset = 0
)

type CatalogService interface {
	CreateProduct(ctx context.Context, in catalog.CreateProductInput) (shop.Product, error)
	ListProducts(ctx context.Context, name, size string, limit, offset int) ([]shop.Product, error)
	GetProduct(ctx context.Context, id string) (shop.Product, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, in orders.CreateOrderInput) (shop.Order, error)
	ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]shop.Order, error)
	GetOrder(ctx context.Context, id string) (shop.Order, error)
}

type Handler struct {
	catalog CatalogService
	orders  OrderService
}

func NewHandler(catalogSvc CatalogService, orderSvc OrderService) *Handler {
	return &Handler{catalog: catalogSvc, orders: orderSvc}
}

type createProductRequest struct {
	Name        string  `json:"name" example:"iPhone 14"`
	Description string  `json:"description" example:"A16 Bionic"`
	Price       float64 `json:"price" example:"999.99"`
	Size        string  `json:"size" example:"large"`
}

type createOrderRequest struct {
	UserID   string   `json:"user_id" example:"user123"`
	Products []string `json:"products" example:"prod_000001"`
	Total    float64  `json:"total" example:"999.99"`
}

type errorResponse struct {
	Error string `json:"error" example:"product not found"`
}

// CreateProduct godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      createProductRequest  true  "Product data"
// @Success      201   {object}  shop.Product
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), catalog.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Size:        req.Size,
	})
	if err != nil {
		if shop.IsValidation(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// ListProducts godoc
// @Summary      List products with optional filtering
// @Tags         products
// @Produce      json
// @Param        name    query     string  false  "Name filter (case-insensitive substring)"
// @Param        size    query     string  false  "Size filter (exact match)"
// @Param        limit   query     int     false  "Maximum number of results"  default(100)
// @Param        offset  query     int     false  "Number of results to skip"  default(0)
// @Success      200     {array}   shop.Product
// @Failure      500     {object}  errorResponse
// @Router       /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))
	offset := parseOffset(c.Query("offset"))

	items, err := h.catalog.ListProducts(c.Request.Context(), c.Query("name"), c.Query("size"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get products"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetProduct godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  shop.Product
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shop.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateOrder godoc
// @Summary      Create a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      createOrderRequest  true  "Order data"
// @Success      201   {object}  shop.Order
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), orders.CreateOrderInput{
		UserID:   req.UserID,
		Products: req.Products,
		Total:    req.Total,
	})
	if err != nil {
		if shop.IsValidation(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListUserOrders godoc
// @Summary      List orders for a user
// @Tags         orders
// @Produce      json
// @Param        user_id  path      string  true   "User ID"
// @Param        limit    query     int     false  "Maximum number of results"  default(100)
// @Param        offset   query     int     false  "Number of results to skip"  default(0)
// @Success      200      {array}   shop.Order
// @Failure      500      {object}  errorResponse
// @Router       /orders/{user_id} [get]
func (h *Handler) ListUserOrders(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))
	offset := parseOffset(c.Query("offset"))

	items, err := h.orders.ListOrdersByUser(c.Request.Context(), c.Param("user_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get orders"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetOrder godoc
// @Summary      Get an order by ID
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  shop.Order
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /orders/order/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shop.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func parseLimit(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return defaultLimit
	}
	if value > maxLimit {
		return maxLimit
	}
	return value
}

func parseOffset(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultOffset
	}
	return value
}
