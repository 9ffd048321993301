package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"plantool/plan"
)

// RowError describes a source row that could not be turned into a benefit.
type RowError struct {
	Row    int64
	Column string
	Value  string
	Reason string
}

func (e *RowError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("row %d: %s %q: %s", e.Row, e.Column, e.Value, e.Reason)
}

// lookup returns the cleaned cell for a column and whether the column exists.
type lookup func(col string) (string, bool)

func clean(s string) string {
	return strings.ToValidUTF8(strings.TrimSpace(s), "\uFFFD")
}

func optStr(get lookup, col string) *string {
	if s, ok := get(col); ok && s != "" {
		return &s
	}
	return nil
}

// parseFloat accepts thousands separators and a leading dollar sign.
func parseFloat(s string) (*float64, error) {
	s = strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

var requiredText = []string{
	colStateCode, colIssuerID, colSourceName, colStandardComponentID, colPlanID, colBenefitName,
}

// parseBenefit types one source row. A non-nil error means the row must be
// skipped; warnings describe values that were dropped to null.
func parseBenefit(rowNum int64, get lookup) (plan.Benefit, []string, error) {
	var b plan.Benefit
	var warnings []string

	year, _ := get(colBusinessYear)
	y, err := strconv.Atoi(year)
	if err != nil {
		return b, nil, &RowError{Row: rowNum, Column: colBusinessYear, Value: year, Reason: "not an integer"}
	}
	b.BusinessYear = y

	for _, col := range requiredText {
		if s, _ := get(col); s == "" {
			return b, nil, &RowError{Row: rowNum, Column: col, Reason: "empty"}
		}
	}
	b.StateCode, _ = get(colStateCode)
	b.IssuerID, _ = get(colIssuerID)
	b.SourceName, _ = get(colSourceName)
	b.StandardComponentID, _ = get(colStandardComponentID)
	b.PlanID, _ = get(colPlanID)
	b.Name, _ = get(colBenefitName)

	date, _ := get(colImportDate)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return b, nil, &RowError{Row: rowNum, Column: colImportDate, Value: date, Reason: "not an ISO date"}
	}
	b.ImportDate = date

	b.CopayInnTier1 = optStr(get, colCopayInnTier1)
	b.CopayInnTier2 = optStr(get, colCopayInnTier2)
	b.CopayOutOfNet = optStr(get, colCopayOutOfNet)
	b.CoinsInnTier1 = optStr(get, colCoinsInnTier1)
	b.CoinsInnTier2 = optStr(get, colCoinsInnTier2)
	b.CoinsOutOfNet = optStr(get, colCoinsOutOfNet)

	b.EHB = plan.ParseEHB(plan.Text(optStr(get, colIsEHB)))
	b.Coverage = plan.ParseCoverage(plan.Text(optStr(get, colIsCovered)))
	b.QuantityLimit = plan.ParseFlag(plan.Text(optStr(get, colQuantLimitOnSvc)))

	if raw, _ := get(colLimitQty); raw != "" {
		qty, err := parseFloat(raw)
		if err != nil {
			warnings = append(warnings, (&RowError{Row: rowNum, Column: colLimitQty, Value: raw, Reason: "not a number"}).Error())
		}
		b.LimitQty = qty
	}
	b.LimitUnit = optStr(get, colLimitUnit)
	b.Exclusions = optStr(get, colExclusions)
	b.Explanation = optStr(get, colExplanation)
	b.EHBVarReason = optStr(get, colEHBVarReason)
	b.ExclFromInnMOOP = plan.ParseFlag(plan.Text(optStr(get, colExclFromInnMOOP)))
	b.ExclFromOonMOOP = plan.ParseFlag(plan.Text(optStr(get, colExclFromOonMOOP)))

	return b, warnings, nil
}

// missingColumns reports which benefit columns are absent from a header set.
func missingColumns(has func(col string) bool) []string {
	var out []string
	for _, c := range Columns {
		if !has(c) {
			out = append(out, c)
		}
	}
	return out
}
