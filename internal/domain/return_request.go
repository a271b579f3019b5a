package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ReturnStatus string

const (
	ReturnRequested ReturnStatus = "REQUESTED"
	ReturnApproved  ReturnStatus = "APPROVED"
	ReturnRejected  ReturnStatus = "REJECTED"
	ReturnShipped   ReturnStatus = "SHIPPED"
	ReturnReturned  ReturnStatus = "RETURNED"
	ReturnRefunded  ReturnStatus = "REFUNDED"
	ReturnCompleted ReturnStatus = "COMPLETED"
	ReturnCancelled ReturnStatus = "CANCELLED"
)

var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnRequested: {ReturnApproved, ReturnRejected, ReturnCancelled},
	ReturnApproved:  {ReturnShipped, ReturnCancelled},
	ReturnShipped:   {ReturnReturned, ReturnCancelled},
	ReturnReturned:  {ReturnRefunded, ReturnCompleted, ReturnCancelled},
	ReturnRejected:  {},
	ReturnRefunded:  {},
	ReturnCompleted: {},
	ReturnCancelled: {},
}

func (s ReturnStatus) Valid() bool {
	_, ok := returnTransitions[s]
	return ok
}

func (s ReturnStatus) IsTerminal() bool {
	return s.Valid() && len(returnTransitions[s]) == 0
}

func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	for _, next := range returnTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func ReturnStatuses() []ReturnStatus {
	return []ReturnStatus{
		ReturnRequested, ReturnApproved, ReturnRejected, ReturnShipped,
		ReturnReturned, ReturnRefunded, ReturnCompleted, ReturnCancelled,
	}
}

func ValidateReturnTransition(from, to ReturnStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown return status %q", ErrInvalidTransition, to)
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: return %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

type ReturnReasonCode string

const (
	ReasonDamaged        ReturnReasonCode = "DAMAGED"
	ReasonWrongItem      ReturnReasonCode = "WRONG_ITEM"
	ReasonNotAsDescribed ReturnReasonCode = "NOT_AS_DESCRIBED"
	ReasonMissingParts   ReturnReasonCode = "MISSING_PARTS"
	ReasonChangedMind    ReturnReasonCode = "CHANGED_MIND"
	ReasonOther          ReturnReasonCode = "OTHER"
)

func (c ReturnReasonCode) Valid() bool {
	switch c {
	case ReasonDamaged, ReasonWrongItem, ReasonNotAsDescribed, ReasonMissingParts, ReasonChangedMind, ReasonOther:
		return true
	}
	return false
}

type ReturnResolution string

const (
	ResolutionRefund  ReturnResolution = "REFUND"
	ResolutionReplace ReturnResolution = "REPLACE"
	ResolutionRepair  ReturnResolution = "REPAIR"
)

func (r ReturnResolution) Valid() bool {
	return r == ResolutionRefund || r == ResolutionReplace || r == ResolutionRepair
}

type ReturnMethod string

const (
	ReturnPickup  ReturnMethod = "PICKUP"
	ReturnDropOff ReturnMethod = "DROP_OFF"
)

func (m ReturnMethod) Valid() bool {
	return m == ReturnPickup || m == ReturnDropOff
}

type EvidenceType string

const (
	EvidenceImage EvidenceType = "IMAGE"
	EvidenceVideo EvidenceType = "VIDEO"
)

func (t EvidenceType) Valid() bool {
	return t == EvidenceImage || t == EvidenceVideo
}

// ReturnActorType is how the RMA log classifies who acted. The buyer is USER.
type ReturnActorType string

const (
	ReturnActorUser   ReturnActorType = "USER"
	ReturnActorSeller ReturnActorType = "SELLER"
	ReturnActorAdmin  ReturnActorType = "ADMIN"
	ReturnActorSystem ReturnActorType = "SYSTEM"
)

func ReturnActorTypeOf(role ActorRole) ReturnActorType {
	switch role {
	case RoleBuyer:
		return ReturnActorUser
	case RoleSeller:
		return ReturnActorSeller
	case RoleAdmin:
		return ReturnActorAdmin
	default:
		return ReturnActorSystem
	}
}

type ReturnItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i ReturnItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Evidence struct {
	URL  string
	Type EvidenceType
}

type ReturnAmounts struct {
	Subtotal      decimal.Decimal
	ShippingFee   decimal.Decimal
	RestockingFee decimal.Decimal
	RefundTotal   decimal.Decimal
}

type ReturnStatusEvent struct {
	Status    ReturnStatus
	At        time.Time
	By        string
	ActorType ReturnActorType
	Note      string
}

type ReturnRequest struct {
	RmaCode             string
	OrderID             string
	BuyerID             string
	ShopID              string
	ReasonCode          ReturnReasonCode
	ReasonDetail        string
	RequestedResolution ReturnResolution
	ReturnMethod        ReturnMethod
	Items               []ReturnItem
	Evidences           []Evidence
	Amounts             ReturnAmounts
	Status              ReturnStatus
	StatusEvents        []ReturnStatusEvent
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReservesUnits reports whether the request still holds its item quantities.
// Rejected and cancelled requests release them.
func (r *ReturnRequest) ReservesUnits() bool {
	return r.Status != ReturnRejected && r.Status != ReturnCancelled
}

// RefundsMoney reports whether reaching status moves money back to the buyer.
func (r *ReturnRequest) RefundsMoney(status ReturnStatus) bool {
	if status == ReturnRefunded {
		return true
	}
	return status == ReturnCompleted && r.RequestedResolution == ResolutionRefund
}

// ComputeAmounts fills Subtotal and RefundTotal from the items.
func (r *ReturnRequest) ComputeAmounts() {
	subtotal := decimal.Zero
	for _, item := range r.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	r.Amounts.Subtotal = subtotal
	r.Amounts.RefundTotal = subtotal.Sub(r.Amounts.RestockingFee)
}

// ReservedUnits sums item quantities held by the given requests per product.
func ReservedUnits(requests []*ReturnRequest, shopID string) map[string]int {
	reserved := make(map[string]int)
	for _, r := range requests {
		if r.ShopID != shopID || !r.ReservesUnits() {
			continue
		}
		for _, item := range r.Items {
			reserved[item.ProductID] += item.Quantity
		}
	}
	return reserved
}

// ReservedValue sums item line totals held by the given requests per product.
func ReservedValue(requests []*ReturnRequest, shopID string) map[string]decimal.Decimal {
	reserved := make(map[string]decimal.Decimal)
	for _, r := range requests {
		if r.ShopID != shopID || !r.ReservesUnits() {
			continue
		}
		for _, item := range r.Items {
			reserved[item.ProductID] = reserved[item.ProductID].Add(item.LineTotal())
		}
	}
	return reserved
}
