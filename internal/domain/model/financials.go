package model

// Guests breaks down the head count.
type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Total    int `json:"total"`
}

// OwnerDistribution is one owner's slice of the distributed profit.
type OwnerDistribution struct {
	OwnerID       string  `json:"ownerId"`
	Name          string  `json:"name"`
	EquityPercent float64 `json:"equityPercent"`
	Amount        float64 `json:"amount"`
}

// EventFinancials is the complete engine output for one booking.
type EventFinancials struct {
	Guests      Guests    `json:"guests"`
	EventType   EventType `json:"eventType"`
	PricingSlot EventType `json:"pricingSlot"`

	// Pricing
	BasePrice          float64 `json:"basePrice"`
	ChildPrice         float64 `json:"childPrice"`
	Subtotal           float64 `json:"subtotal"`
	SubtotalOverridden bool    `json:"subtotalOverridden"`
	GratuityPercent    float64 `json:"gratuityPercent"`
	Gratuity           float64 `json:"gratuity"`
	DistanceFee        float64 `json:"distanceFee"`
	TotalCharged       float64 `json:"totalCharged"`
	DepositPercent     float64 `json:"depositPercent"`
	DepositAmount      float64 `json:"depositAmount"`
	BalanceDue         float64 `json:"balanceDue"`

	// Costs
	FoodCost           float64 `json:"foodCost"`
	FoodCostPercent    float64 `json:"foodCostPercent"`
	FoodCostOverridden bool    `json:"foodCostOverridden"`
	SuppliesCost       float64 `json:"suppliesCost"`
	TransportationCost float64 `json:"transportationCost"`
	TotalCosts         float64 `json:"totalCosts"`

	// Staffing and labor
	Staffing              StaffingPlan        `json:"staffing"`
	LaborCompensation     []LaborCompensation `json:"laborCompensation"`
	TotalLaborCalculated  float64             `json:"totalLaborCalculated"`
	TotalLaborPaid        float64             `json:"totalLaborPaid"`
	TotalExcessToProfit   float64             `json:"totalExcessToProfit"`
	LaborPercentOfRevenue float64             `json:"laborPercentOfRevenue"`

	// Profit
	TotalRevenue        float64             `json:"totalRevenue"`
	GrossProfit         float64             `json:"grossProfit"`
	ProfitMarginPercent float64             `json:"profitMarginPercent"`
	RetainedAmount      float64             `json:"retainedAmount"`
	DistributionAmount  float64             `json:"distributionAmount"`
	OwnerDistributions  []OwnerDistribution `json:"ownerDistributions"`

	Warnings []string `json:"warnings"`
}
