package service_test

import (
	"strings"
	"testing"

	"loanwise-go/internal/model"
	"loanwise-go/internal/service"
)

func TestBuildProductContextNilProduct(t *testing.T) {
	if got := service.BuildProductContext(nil); got != "" {
		t.Fatalf("expected empty context without a product, got %q", got)
	}
}

func TestBuildProductContextFullyPopulated(t *testing.T) {
	product := testProduct("p1")
	got := service.BuildProductContext(&product)

	wantLines := []string{
		"Product Name: QuickCash Personal Loan",
		"Bank: Axis Bank",
		"Loan Type: personal",
		"Interest Rate (APR): 10.5%",
		"Minimum Income Required: 25000",
		"Minimum Credit Score: 700",
		"Processing Fee: 1.5%",
		"Prepayment Allowed: Yes",
		"Disbursal Speed: fast",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line) {
			t.Errorf("context missing %q:\n%s", line, got)
		}
	}

	// 所有字段齐备时不应出现任何兜底占位
	for _, absent := range []string{"N/A", "Standard"} {
		if strings.Contains(got, absent) {
			t.Errorf("context must not contain fallback %q when fields are populated:\n%s", absent, got)
		}
	}

	if !strings.Contains(got, "banking assistant") {
		t.Error("context missing the instruction block")
	}
}

func TestBuildProductContextFallbackSubstitutions(t *testing.T) {
	product := model.Product{
		ID:             "p2",
		Name:           "EduSmart Loan",
		Bank:           "HDFC Bank",
		Type:           model.LoanTypeEducation,
		RateApr:        9,
		MinIncome:      15000,
		MinCreditScore: 650,
		// 可选字段全部缺省
	}
	got := service.BuildProductContext(&product)

	wantLines := []string{
		"Interest Rate (APR): 9%",
		"Processing Fee: N/A",
		"Prepayment Allowed: No",
		"Disbursal Speed: Standard",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line) {
			t.Errorf("context missing fallback %q:\n%s", line, got)
		}
	}
}

func TestBuildProductContextIsDeterministic(t *testing.T) {
	product := testProduct("p1")
	first := service.BuildProductContext(&product)
	second := service.BuildProductContext(&product)
	if first != second {
		t.Fatal("context must be identical for the same product snapshot")
	}
}
