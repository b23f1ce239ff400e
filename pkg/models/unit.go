package models

// UnitKind distinguishes the two variants of a unit of work.
type UnitKind string

const (
	UnitKindOrder         UnitKind = "order"
	UnitKindWarrantyClaim UnitKind = "warranty_claim"
)

// UnitStatus represents the lifecycle status of an order or warranty claim.
type UnitStatus string

const (
	StatusPending    UnitStatus = "pending"
	StatusConfirmed  UnitStatus = "confirmed"
	StatusInProgress UnitStatus = "in_progress"
	StatusOnHold     UnitStatus = "on_hold"
	StatusCompleted  UnitStatus = "completed"
	StatusCancelled  UnitStatus = "cancelled"
)

// IsOpen reports whether a unit in this status still contributes to the
// workload index and the assignable task list.
func (s UnitStatus) IsOpen() bool {
	return s != StatusCompleted && s != StatusCancelled
}

// Stage is one workflow step on one product. Wire field names follow the
// document tree layout; timestamps are epoch milliseconds.
type Stage struct {
	ID             string   `json:"id,omitempty"`
	DepartmentCode string   `json:"departmentCode,omitempty"`
	TemplateIDs    []string `json:"workflowCode"`
	TemplateNames  []string `json:"workflowName"`
	AssigneeIDs    []string `json:"members"`
	IsDone         bool     `json:"isDone"`
	UpdatedAt      int64    `json:"updatedAt,omitempty"`
}

// Product is a line item of a unit of work, decomposed into stages keyed by
// stage id. Image handling is external; only the URLs travel here.
type Product struct {
	Name     string           `json:"name"`
	Quantity int              `json:"quantity"`
	Price    float64          `json:"price,omitempty"`
	Images   []string         `json:"images,omitempty"`
	Stages   map[string]Stage `json:"workflows,omitempty"`
}

// Unit is an order or a warranty claim: the top-level entity carrying a
// status and owning its products and stages exclusively.
type Unit struct {
	ID                string             `json:"-"`
	Kind              UnitKind           `json:"-"`
	Code              string             `json:"code"`
	CustomerName      string             `json:"customerName"`
	Phone             string             `json:"phone,omitempty"`
	OriginalOrderCode string             `json:"originalOrderCode,omitempty"`
	Products          map[string]Product `json:"products,omitempty"`
	Status            UnitStatus         `json:"status"`
	IsDepositPaid     bool               `json:"isDepositPaid,omitempty"`
	CreatedAt         int64              `json:"createdAt,omitempty"`
	UpdatedAt         int64              `json:"updatedAt,omitempty"`
}
