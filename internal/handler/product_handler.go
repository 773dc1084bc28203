package handler

import (
	"errors"
	"net/http"

	"loanwise-go/internal/model"
	"loanwise-go/internal/service"
	"loanwise-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ProductHandler 负责处理贷款产品相关的 API 请求。
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler 创建一个新的 ProductHandler 实例。
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts 处理产品列表查询，支持按类型和银行过滤。
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context(), c.Query("type"), c.Query("bank"))
	if err != nil {
		log.Errorf("ListProducts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	if products == nil {
		products = []model.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct 处理单个产品的查询请求。
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	case err != nil:
		log.Errorf("GetProduct: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// RecommendationRequest 定义了推荐接口的请求体结构，字段校验与前端表单一致。
type RecommendationRequest struct {
	LoanType      string  `json:"loan_type" binding:"required,oneof=personal education vehicle home credit_line debt_consolidation"`
	MaxApr        float64 `json:"max_apr" binding:"required,gt=0,lte=100"`
	MonthlyIncome float64 `json:"monthly_income" binding:"gte=0"`
	CreditScore   int     `json:"credit_score" binding:"required,gte=300,lte=900"`
}

// Recommend 处理规则推荐请求：按借款人画像筛选产品，按利率升序返回。
func (h *ProductHandler) Recommend(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Recommend: invalid request payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.productService.Recommend(c.Request.Context(), service.BorrowerProfile{
		LoanType:      req.LoanType,
		MaxApr:        req.MaxApr,
		MonthlyIncome: req.MonthlyIncome,
		CreditScore:   req.CreditScore,
	})
	if err != nil {
		log.Errorf("Recommend: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
		return
	}

	if products == nil {
		products = []model.Product{}
	}
	c.JSON(http.StatusOK, products)
}
