package plan

// CoverageStatus is the IsCovered column value.
type CoverageStatus string

const (
	CoverageUnknown CoverageStatus = ""
	Covered         CoverageStatus = "Covered"
	NotCovered      CoverageStatus = "Not Covered"
)

// ParseCoverage maps a raw cell to a CoverageStatus. Unrecognized values are unknown.
func ParseCoverage(s string) CoverageStatus {
	switch CoverageStatus(s) {
	case Covered, NotCovered:
		return CoverageStatus(s)
	}
	return CoverageUnknown
}

// EHBStatus is the IsEHB column value.
type EHBStatus string

const (
	EHBUnknown EHBStatus = ""
	EHBYes     EHBStatus = "Yes"
	EHBNo      EHBStatus = "No"
	NotEHB     EHBStatus = "Not EHB"
)

func ParseEHB(s string) EHBStatus {
	switch EHBStatus(s) {
	case EHBYes, EHBNo, NotEHB:
		return EHBStatus(s)
	}
	return EHBUnknown
}

// Flag is a Yes/No column value.
type Flag string

const (
	FlagUnknown Flag = ""
	Yes         Flag = "Yes"
	No          Flag = "No"
)

func ParseFlag(s string) Flag {
	switch Flag(s) {
	case Yes, No:
		return Flag(s)
	}
	return FlagUnknown
}

// Benefit is one benefit row: a single covered or excluded service for a plan.
// Optional free-text columns are nil when the source cell was empty.
type Benefit struct {
	BusinessYear        int
	StateCode           string
	IssuerID            string
	SourceName          string
	ImportDate          string
	StandardComponentID string
	PlanID              string

	// Name is the benefit name as it appeared in the source.
	Name string

	CopayInnTier1 *string
	CopayInnTier2 *string
	CopayOutOfNet *string
	CoinsInnTier1 *string
	CoinsInnTier2 *string
	CoinsOutOfNet *string

	EHB           EHBStatus
	Coverage      CoverageStatus
	QuantityLimit Flag
	LimitQty      *float64
	LimitUnit     *string
	Exclusions    *string
	Explanation   *string
	EHBVarReason  *string

	ExclFromInnMOOP Flag
	ExclFromOonMOOP Flag
}

// IsCovered reports whether the benefit is explicitly covered.
func (b *Benefit) IsCovered() bool { return b.Coverage == Covered }

// IsEssential reports whether the benefit is flagged as an Essential Health Benefit.
func (b *Benefit) IsEssential() bool { return b.EHB == EHBYes }

// HasQuantityLimit reports whether the plan limits how often the service can be used.
func (b *Benefit) HasQuantityLimit() bool { return b.QuantityLimit == Yes }

// Text returns the value of an optional column or "".
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
