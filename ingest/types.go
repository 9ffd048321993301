package ingest

import "plantool/plan"

// Source column names. Lookups are case-insensitive.
const (
	colBusinessYear        = "BusinessYear"
	colStateCode           = "StateCode"
	colIssuerID            = "IssuerId"
	colSourceName          = "SourceName"
	colImportDate          = "ImportDate"
	colStandardComponentID = "StandardComponentId"
	colPlanID              = "PlanId"
	colBenefitName         = "BenefitName"
	colCopayInnTier1       = "CopayInnTier1"
	colCopayInnTier2       = "CopayInnTier2"
	colCopayOutOfNet       = "CopayOutofNet"
	colCoinsInnTier1       = "CoinsInnTier1"
	colCoinsInnTier2       = "CoinsInnTier2"
	colCoinsOutOfNet       = "CoinsOutofNet"
	colIsEHB               = "IsEHB"
	colIsCovered           = "IsCovered"
	colQuantLimitOnSvc     = "QuantLimitOnSvc"
	colLimitQty            = "LimitQty"
	colLimitUnit           = "LimitUnit"
	colExclusions          = "Exclusions"
	colExplanation         = "Explanation"
	colEHBVarReason        = "EHBVarReason"
	colExclFromInnMOOP     = "IsExclFromInnMOOP"
	colExclFromOonMOOP     = "IsExclFromOonMOOP"
)

// Columns lists every benefit column in file order.
var Columns = []string{
	colBusinessYear, colStateCode, colIssuerID, colSourceName, colImportDate,
	colStandardComponentID, colPlanID, colBenefitName,
	colCopayInnTier1, colCopayInnTier2, colCopayOutOfNet,
	colCoinsInnTier1, colCoinsInnTier2, colCoinsOutOfNet,
	colIsEHB, colIsCovered, colQuantLimitOnSvc, colLimitQty, colLimitUnit,
	colExclusions, colExplanation, colEHBVarReason,
	colExclFromInnMOOP, colExclFromOonMOOP,
}

// BenefitRow is the Parquet schema for one benefit record. Plan identity
// columns come first so row groups sorted by plan_id skip well; optional
// columns use the Parquet null bitmap.
type BenefitRow struct {
	PlanID              string `parquet:"plan_id"`
	BenefitName         string `parquet:"benefit_name"`
	StandardComponentID string `parquet:"standard_component_id"`
	StateCode           string `parquet:"state_code"`
	IssuerID            string `parquet:"issuer_id"`
	BusinessYear        int32  `parquet:"business_year"`
	SourceName          string `parquet:"source_name"`
	ImportDate          string `parquet:"import_date"`

	IsCovered       *string  `parquet:"is_covered,optional"`
	IsEHB           *string  `parquet:"is_ehb,optional"`
	QuantLimitOnSvc *string  `parquet:"quant_limit_on_svc,optional"`
	LimitQty        *float64 `parquet:"limit_qty,optional"`
	LimitUnit       *string  `parquet:"limit_unit,optional"`

	CopayInnTier1 *string `parquet:"copay_inn_tier1,optional"`
	CopayInnTier2 *string `parquet:"copay_inn_tier2,optional"`
	CopayOutOfNet *string `parquet:"copay_outof_net,optional"`
	CoinsInnTier1 *string `parquet:"coins_inn_tier1,optional"`
	CoinsInnTier2 *string `parquet:"coins_inn_tier2,optional"`
	CoinsOutOfNet *string `parquet:"coins_outof_net,optional"`

	Exclusions        *string `parquet:"exclusions,optional"`
	Explanation       *string `parquet:"explanation,optional"`
	EHBVarReason      *string `parquet:"ehb_var_reason,optional"`
	IsExclFromInnMOOP *string `parquet:"is_excl_from_inn_moop,optional"`
	IsExclFromOonMOOP *string `parquet:"is_excl_from_oon_moop,optional"`
}

func optEnum[T ~string](v T) *string {
	if v == "" {
		return nil
	}
	s := string(v)
	return &s
}

// FromBenefit converts a record to its Parquet row.
func FromBenefit(b plan.Benefit) BenefitRow {
	return BenefitRow{
		PlanID:              b.PlanID,
		BenefitName:         b.Name,
		StandardComponentID: b.StandardComponentID,
		StateCode:           b.StateCode,
		IssuerID:            b.IssuerID,
		BusinessYear:        int32(b.BusinessYear),
		SourceName:          b.SourceName,
		ImportDate:          b.ImportDate,
		IsCovered:           optEnum(b.Coverage),
		IsEHB:               optEnum(b.EHB),
		QuantLimitOnSvc:     optEnum(b.QuantityLimit),
		LimitQty:            b.LimitQty,
		LimitUnit:           b.LimitUnit,
		CopayInnTier1:       b.CopayInnTier1,
		CopayInnTier2:       b.CopayInnTier2,
		CopayOutOfNet:       b.CopayOutOfNet,
		CoinsInnTier1:       b.CoinsInnTier1,
		CoinsInnTier2:       b.CoinsInnTier2,
		CoinsOutOfNet:       b.CoinsOutOfNet,
		Exclusions:          b.Exclusions,
		Explanation:         b.Explanation,
		EHBVarReason:        b.EHBVarReason,
		IsExclFromInnMOOP:   optEnum(b.ExclFromInnMOOP),
		IsExclFromOonMOOP:   optEnum(b.ExclFromOonMOOP),
	}
}

// ToBenefit converts a Parquet row back to a record.
func (r BenefitRow) ToBenefit() plan.Benefit {
	return plan.Benefit{
		BusinessYear:        int(r.BusinessYear),
		StateCode:           r.StateCode,
		IssuerID:            r.IssuerID,
		SourceName:          r.SourceName,
		ImportDate:          r.ImportDate,
		StandardComponentID: r.StandardComponentID,
		PlanID:              r.PlanID,
		Name:                r.BenefitName,
		CopayInnTier1:       r.CopayInnTier1,
		CopayInnTier2:       r.CopayInnTier2,
		CopayOutOfNet:       r.CopayOutOfNet,
		CoinsInnTier1:       r.CoinsInnTier1,
		CoinsInnTier2:       r.CoinsInnTier2,
		CoinsOutOfNet:       r.CoinsOutOfNet,
		EHB:                 plan.ParseEHB(plan.Text(r.IsEHB)),
		Coverage:            plan.ParseCoverage(plan.Text(r.IsCovered)),
		QuantityLimit:       plan.ParseFlag(plan.Text(r.QuantLimitOnSvc)),
		LimitQty:            r.LimitQty,
		LimitUnit:           r.LimitUnit,
		Exclusions:          r.Exclusions,
		Explanation:         r.Explanation,
		EHBVarReason:        r.EHBVarReason,
		ExclFromInnMOOP:     plan.ParseFlag(plan.Text(r.IsExclFromInnMOOP)),
		ExclFromOonMOOP:     plan.ParseFlag(plan.Text(r.IsExclFromOonMOOP)),
	}
}
