package service

import (
	"context"
	"errors"
	"fmt"

	"loanwise-go/internal/model"
	"loanwise-go/internal/repository"

	"gorm.io/gorm"
)

// ErrProductNotFound 表示请求的产品不存在。
var ErrProductNotFound = errors.New("product not found")

// BorrowerProfile 描述推荐接口收到的借款人画像。
type BorrowerProfile struct {
	LoanType      string
	MaxApr        float64
	MonthlyIncome float64
	CreditScore   int
}

// ProductService 定义了贷款产品的查询操作。
type ProductService interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, loanType, bank string) ([]model.Product, error)

	// Recommend 按借款人画像做规则筛选：贷款类型一致、年化利率不超过
	// 可接受上限、收入和信用分满足产品门槛，按利率升序返回。
	Recommend(ctx context.Context, profile BorrowerProfile) ([]model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建一个新的 ProductService 实例。
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// GetProduct 按 id 查询单个产品。
func (s *productService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return product, nil
}

// ListProducts 按可选的类型和银行筛选产品列表。
func (s *productService) ListProducts(ctx context.Context, loanType, bank string) ([]model.Product, error) {
	products, err := s.productRepo.FindByCriteria(ctx, repository.ProductCriteria{
		Type: loanType,
		Bank: bank,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Recommend 把借款人画像翻译成筛选条件并交给存储层执行。
func (s *productService) Recommend(ctx context.Context, profile BorrowerProfile) ([]model.Product, error) {
	products, err := s.productRepo.FindByCriteria(ctx, repository.ProductCriteria{
		Type:          profile.LoanType,
		MaxRateApr:    &profile.MaxApr,
		MonthlyIncome: &profile.MonthlyIncome,
		CreditScore:   &profile.CreditScore,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find matching products: %w", err)
	}
	return products, nil
}
