package service_test

import (
	"context"
	"errors"
	"testing"

	"loanwise-go/internal/model"
	"loanwise-go/internal/service"
)

func TestGetProductNotFound(t *testing.T) {
	svc := service.NewProductService(&fakeProductRepo{products: map[string]model.Product{}})

	_, err := svc.GetProduct(context.Background(), "missing")
	if !errors.Is(err, service.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestGetProduct(t *testing.T) {
	repo := &fakeProductRepo{products: map[string]model.Product{"p1": testProduct("p1")}}
	svc := service.NewProductService(repo)

	product, err := svc.GetProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetProduct err: %v", err)
	}
	if product.Name != "QuickCash Personal Loan" {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestRecommendBuildsCriteria(t *testing.T) {
	repo := &fakeProductRepo{matches: []model.Product{testProduct("p1")}}
	svc := service.NewProductService(repo)

	got, err := svc.Recommend(context.Background(), service.BorrowerProfile{
		LoanType:      model.LoanTypePersonal,
		MaxApr:        12,
		MonthlyIncome: 30000,
		CreditScore:   720,
	})
	if err != nil {
		t.Fatalf("Recommend err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 product, got %d", len(got))
	}

	c := repo.lastCriteria
	if c.Type != model.LoanTypePersonal {
		t.Fatalf("criteria type: %q", c.Type)
	}
	if c.MaxRateApr == nil || *c.MaxRateApr != 12 {
		t.Fatalf("criteria max rate apr: %v", c.MaxRateApr)
	}
	if c.MonthlyIncome == nil || *c.MonthlyIncome != 30000 {
		t.Fatalf("criteria monthly income: %v", c.MonthlyIncome)
	}
	if c.CreditScore == nil || *c.CreditScore != 720 {
		t.Fatalf("criteria credit score: %v", c.CreditScore)
	}
}

func TestListProductsBuildsCriteria(t *testing.T) {
	repo := &fakeProductRepo{}
	svc := service.NewProductService(repo)

	if _, err := svc.ListProducts(context.Background(), model.LoanTypeHome, "Axis Bank"); err != nil {
		t.Fatalf("ListProducts err: %v", err)
	}

	c := repo.lastCriteria
	if c.Type != model.LoanTypeHome || c.Bank != "Axis Bank" {
		t.Fatalf("unexpected criteria: %+v", c)
	}
	// 列表查询不应附带推荐专用的门槛过滤
	if c.MaxRateApr != nil || c.MonthlyIncome != nil || c.CreditScore != nil {
		t.Fatalf("unexpected threshold filters: %+v", c)
	}
}
