package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loanwise-go/internal/model"
	"loanwise-go/pkg/log"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// 产品详情在 Redis 中的缓存时长。产品数据由外部后台维护、变更低频，
// 短 TTL 足以兜住更新。
const productCacheTTL = 10 * time.Minute

// ProductCriteria 描述产品筛选条件，零值字段不参与过滤。
type ProductCriteria struct {
	Type          string
	Bank          string
	MaxRateApr    *float64
	MonthlyIncome *float64
	CreditScore   *int
}

// ProductRepository 定义了产品数据的只读访问操作。
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByCriteria(ctx context.Context, c ProductCriteria) ([]model.Product, error)
}

// productRepository 是 ProductRepository 的实现：MySQL 为准，Redis 作按 id 查询的读缓存。
type productRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewProductRepository 创建一个新的 ProductRepository 实例。rdb 可以为 nil，此时不启用缓存。
func NewProductRepository(db *gorm.DB, rdb *redis.Client) ProductRepository {
	return &productRepository{db: db, rdb: rdb}
}

// FindByID 按 id 查询产品，优先走 Redis 缓存。
// 缓存层的任何故障都只记录日志并回落到数据库查询。
func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	cacheKey := fmt.Sprintf("product:%s", id)

	if r.rdb != nil {
		jsonData, err := r.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var product model.Product
			if err := json.Unmarshal([]byte(jsonData), &product); err == nil {
				return &product, nil
			}
			log.Warnf("failed to unmarshal cached product %s, falling back to db", id)
		} else if err != redis.Nil {
			log.Warnf("failed to read product cache: %v", err)
		}
	}

	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if jsonData, err := json.Marshal(&product); err == nil {
			if err := r.rdb.Set(ctx, cacheKey, jsonData, productCacheTTL).Err(); err != nil {
				log.Warnf("failed to write product cache: %v", err)
			}
		}
	}
	return &product, nil
}

// FindByCriteria 按条件筛选产品，按年化利率升序返回。
func (r *productRepository) FindByCriteria(ctx context.Context, c ProductCriteria) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})
	if c.Type != "" {
		query = query.Where("type = ?", c.Type)
	}
	if c.Bank != "" {
		query = query.Where("bank = ?", c.Bank)
	}
	if c.MaxRateApr != nil {
		query = query.Where("rate_apr <= ?", *c.MaxRateApr)
	}
	if c.MonthlyIncome != nil {
		query = query.Where("min_income <= ?", *c.MonthlyIncome)
	}
	if c.CreditScore != nil {
		query = query.Where("min_credit_score <= ?", *c.CreditScore)
	}

	var products []model.Product
	err := query.Order("rate_apr ASC").Find(&products).Error
	return products, err
}
