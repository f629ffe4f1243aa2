// Package schema defines the column catalogue of the retail customer table:
// the eleven input columns, the derived feature columns, and the segment
// flags, with the logical kind each column holds after coercion.
package schema

// Input columns.
const (
	CustomerID       = "customer_id"
	Name             = "name"
	City             = "city"
	Gender           = "gender"
	MembershipLevel  = "membership_level"
	ReferralCode     = "referral_code"
	Age              = "age"
	TotalPurchases   = "total_purchases"
	AmountSpent      = "amount_spent"
	SignupDate       = "signup_date"
	LastPurchaseDate = "last_purchase_date"
)

// Derived feature columns.
const (
	CustomerTenureDays    = "customer_tenure_days"
	DaysSinceLastPurchase = "days_since_last_purchase"
	TotalPurchaseValue    = "total_purchase_value"
)

// Segment flag columns.
const (
	HighValue         = "high_value"
	Active            = "active"
	RiskOfChurn       = "risk_of_churn"
	YoungHeavySpender = "young_heavy_spender"
)

// Customer is the full cleaned-table contract in output order.
var Customer = Contract{
	Name: "retail_customers",
	Fields: []Field{
		{Name: CustomerID, Kind: KindText, Required: true},
		{Name: Name, Kind: KindText, Required: true},
		{Name: City, Kind: KindText, Required: true},
		{Name: Gender, Kind: KindText, Required: true},
		{Name: MembershipLevel, Kind: KindText, Required: true},
		{Name: ReferralCode, Kind: KindText, Required: true},
		{Name: Age, Kind: KindNumber, Required: true},
		{Name: TotalPurchases, Kind: KindNumber, Required: true},
		{Name: AmountSpent, Kind: KindNumber, Required: true},
		{Name: SignupDate, Kind: KindDate, Required: true},
		{Name: LastPurchaseDate, Kind: KindDate, Required: true},
		{Name: CustomerTenureDays, Kind: KindInt, Derived: true},
		{Name: DaysSinceLastPurchase, Kind: KindInt, Derived: true},
		{Name: TotalPurchaseValue, Kind: KindNumber, Derived: true},
		{Name: HighValue, Kind: KindBool, Derived: true},
		{Name: Active, Kind: KindBool, Derived: true},
		{Name: RiskOfChurn, Kind: KindBool, Derived: true},
		{Name: YoungHeavySpender, Kind: KindBool, Derived: true},
	},
}

// Segments is the segment-table contract.
var Segments = Contract{
	Name: "customer_segments",
	Fields: []Field{
		{Name: CustomerID, Kind: KindText, Required: true},
		{Name: HighValue, Kind: KindBool},
		{Name: Active, Kind: KindBool},
		{Name: RiskOfChurn, Kind: KindBool},
		{Name: YoungHeavySpender, Kind: KindBool},
	},
}

// NumericColumns are coerced to float64.
var NumericColumns = []string{Age, TotalPurchases, AmountSpent}

// DateColumns are coerced to time.Time.
var DateColumns = []string{SignupDate, LastPurchaseDate}

// TitleCaseColumns are trimmed and title-cased.
var TitleCaseColumns = []string{Name, City, Gender, MembershipLevel}

// TrimOnlyColumns are trimmed without changing case.
var TrimOnlyColumns = []string{ReferralCode}
