package model

// 贷款产品类型。
const (
	LoanTypePersonal          = "personal"
	LoanTypeEducation         = "education"
	LoanTypeVehicle           = "vehicle"
	LoanTypeHome              = "home"
	LoanTypeCreditLine        = "credit_line"
	LoanTypeDebtConsolidation = "debt_consolidation"
)

// Product 代表一个银行贷款产品。产品数据由外部后台维护，
// 本服务对它只读：按 id 查询或按条件筛选。
type Product struct {
	ID                string   `gorm:"type:char(36);primaryKey" json:"id"`
	Name              string   `gorm:"type:varchar(255);not null" json:"name"`
	Bank              string   `gorm:"type:varchar(255);not null" json:"bank"`
	Type              string   `gorm:"type:varchar(32);index" json:"type"`
	RateApr           float64  `gorm:"column:rate_apr" json:"rate_apr"`
	MinIncome         float64  `gorm:"column:min_income" json:"min_income"`
	MinCreditScore    int      `gorm:"column:min_credit_score" json:"min_credit_score"`
	TenureMinMonths   *int     `json:"tenure_min_months,omitempty"`
	TenureMaxMonths   *int     `json:"tenure_max_months,omitempty"`
	ProcessingFeePct  *float64 `json:"processing_fee_pct,omitempty"`
	PrepaymentAllowed *bool    `json:"prepayment_allowed,omitempty"`
	DisbursalSpeed    *string  `gorm:"type:varchar(16)" json:"disbursal_speed,omitempty"`
	DocsLevel         *string  `gorm:"type:varchar(16)" json:"docs_level,omitempty"`
	Summary           *string  `gorm:"type:text" json:"summary,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
