package finance

import (
	"time"

	dErrors "finshare/pkg/domain-errors"
)

// AssetType enumerates the supported asset categories.
type AssetType string

const (
	AssetSavings    AssetType = "savings"
	AssetChecking   AssetType = "checking"
	AssetInvestment AssetType = "investment"
	AssetProperty   AssetType = "property"
	AssetVehicle    AssetType = "vehicle"
	AssetOther      AssetType = "other"
)

// Valid reports whether t is one of the closed set of asset types.
func (t AssetType) Valid() bool {
	switch t {
	case AssetSavings, AssetChecking, AssetInvestment, AssetProperty, AssetVehicle, AssetOther:
		return true
	}
	return false
}

// LiabilityType enumerates the supported liability categories.
type LiabilityType string

const (
	LiabilityCreditCard   LiabilityType = "credit_card"
	LiabilityMortgage     LiabilityType = "mortgage"
	LiabilityAutoLoan     LiabilityType = "auto_loan"
	LiabilityPersonalLoan LiabilityType = "personal_loan"
	LiabilityStudentLoan  LiabilityType = "student_loan"
	LiabilityOther        LiabilityType = "other"
)

// Valid reports whether t is one of the closed set of liability types.
func (t LiabilityType) Valid() bool {
	switch t {
	case LiabilityCreditCard, LiabilityMortgage, LiabilityAutoLoan, LiabilityPersonalLoan, LiabilityStudentLoan, LiabilityOther:
		return true
	}
	return false
}

// Asset is an individual asset entry. Field order is part of the canonical
// encoding; do not reorder.
type Asset struct {
	AssetID             string         `json:"assetID"`
	AssetType           AssetType      `json:"assetType"`
	Value               float64        `json:"value"`
	OwnershipPercentage float64        `json:"ownershipPercentage"`
	LastUpdated         time.Time      `json:"lastUpdated"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

// Validate rejects malformed assets before any persistence.
func (a Asset) Validate() error {
	if a.AssetID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "assetID is required")
	}
	if !a.AssetType.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown asset type: "+string(a.AssetType))
	}
	if a.Value < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "asset value must be non-negative")
	}
	if a.OwnershipPercentage < 0 || a.OwnershipPercentage > 100 {
		return dErrors.New(dErrors.CodeInvalidInput, "ownershipPercentage must be between 0 and 100")
	}
	return nil
}

// Liability is an individual liability entry. Field order is part of the
// canonical encoding; do not reorder.
type Liability struct {
	LiabilityID    string         `json:"liabilityID"`
	LiabilityType  LiabilityType  `json:"liabilityType"`
	Amount         float64        `json:"amount"`
	InterestRate   float64        `json:"interestRate"`
	MonthlyPayment float64        `json:"monthlyPayment"`
	DueDate        string         `json:"dueDate"`
	IsOverdue      bool           `json:"isOverdue"`
	LastUpdated    time.Time      `json:"lastUpdated"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Validate rejects malformed liabilities before any persistence.
func (l Liability) Validate() error {
	if l.LiabilityID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "liabilityID is required")
	}
	if !l.LiabilityType.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown liability type: "+string(l.LiabilityType))
	}
	if l.Amount < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "liability amount must be non-negative")
	}
	if l.InterestRate < 0 || l.InterestRate > 100 {
		return dErrors.New(dErrors.CodeInvalidInput, "interestRate must be between 0 and 100")
	}
	if l.MonthlyPayment < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "monthlyPayment must be non-negative")
	}
	return nil
}

// RecordSet is a user's complete off-ledger financial record.
type RecordSet struct {
	OwnerID     Address        `json:"ownerID"`
	Assets      []Asset        `json:"assets"`
	Liabilities []Liability    `json:"liabilities"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewRecordSet creates an empty record set for an owner.
func NewRecordSet(owner Address) RecordSet {
	return RecordSet{
		OwnerID:     owner,
		Assets:      []Asset{},
		Liabilities: []Liability{},
		LastUpdated: time.Now().UTC(),
	}
}

// Validate checks the owner address, every entry, and ID uniqueness.
func (r RecordSet) Validate() error {
	if _, err := ParseAddress(string(r.OwnerID)); err != nil {
		return err
	}
	seenAssets := make(map[string]struct{}, len(r.Assets))
	for _, a := range r.Assets {
		if err := a.Validate(); err != nil {
			return err
		}
		if _, dup := seenAssets[a.AssetID]; dup {
			return dErrors.New(dErrors.CodeInvalidInput, "duplicate assetID: "+a.AssetID)
		}
		seenAssets[a.AssetID] = struct{}{}
	}
	seenLiabilities := make(map[string]struct{}, len(r.Liabilities))
	for _, l := range r.Liabilities {
		if err := l.Validate(); err != nil {
			return err
		}
		if _, dup := seenLiabilities[l.LiabilityID]; dup {
			return dErrors.New(dErrors.CodeInvalidInput, "duplicate liabilityID: "+l.LiabilityID)
		}
		seenLiabilities[l.LiabilityID] = struct{}{}
	}
	return nil
}

// UpsertAsset replaces the asset with the same ID or appends it.
func (r *RecordSet) UpsertAsset(asset Asset) {
	for i := range r.Assets {
		if r.Assets[i].AssetID == asset.AssetID {
			r.Assets[i] = asset
			return
		}
	}
	r.Assets = append(r.Assets, asset)
}

// RemoveAsset deletes the asset with the given ID, reporting whether the set
// changed. A missing ID is not an error.
func (r *RecordSet) RemoveAsset(assetID string) bool {
	for i := range r.Assets {
		if r.Assets[i].AssetID == assetID {
			r.Assets = append(r.Assets[:i], r.Assets[i+1:]...)
			return true
		}
	}
	return false
}

// UpsertLiability replaces the liability with the same ID or appends it.
func (r *RecordSet) UpsertLiability(liability Liability) {
	for i := range r.Liabilities {
		if r.Liabilities[i].LiabilityID == liability.LiabilityID {
			r.Liabilities[i] = liability
			return
		}
	}
	r.Liabilities = append(r.Liabilities, liability)
}

// RemoveLiability deletes the liability with the given ID, reporting whether
// the set changed.
func (r *RecordSet) RemoveLiability(liabilityID string) bool {
	for i := range r.Liabilities {
		if r.Liabilities[i].LiabilityID == liabilityID {
			r.Liabilities = append(r.Liabilities[:i], r.Liabilities[i+1:]...)
			return true
		}
	}
	return false
}

// TotalAssets is the ownership-weighted sum of asset values.
func (r RecordSet) TotalAssets() float64 {
	var total float64
	for _, a := range r.Assets {
		total += a.Value * (a.OwnershipPercentage / 100)
	}
	return total
}

// TotalLiabilities is the sum of outstanding balances.
func (r RecordSet) TotalLiabilities() float64 {
	var total float64
	for _, l := range r.Liabilities {
		total += l.Amount
	}
	return total
}

// NetWorth is total assets minus total liabilities.
func (r RecordSet) NetWorth() float64 {
	return r.TotalAssets() - r.TotalLiabilities()
}
