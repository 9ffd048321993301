package profile

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var (
	familyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`family of (\d+)`),
		regexp.MustCompile(`(\d+) people`),
		regexp.MustCompile(`(\d+) members`),
		regexp.MustCompile(`(\d+) person`),
	}
	childPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+) children?`),
		regexp.MustCompile(`(\d+) kids?`),
		regexp.MustCompile(`child`),
		regexp.MustCompile(`children`),
	}
	premiumPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$(\d+)\s*per\s*month`),
		regexp.MustCompile(`\$(\d+)\s*monthly`),
		regexp.MustCompile(`(\d+)\s*dollars?\s*per\s*month`),
	}
)

type benefitKeywords struct {
	name     string
	keywords []string
}

// textBenefits is checked in order; every entry with a matching keyword is required.
var textBenefits = []benefitKeywords{
	{"Orthodontia - Child", []string{"orthodontia", "braces", "child"}},
	{"Orthodontia - Adult", []string{"orthodontia", "braces", "adult"}},
	{"Basic Dental Care - Adult", []string{"basic", "adult", "dental", "cleaning"}},
	{"Basic Dental Care - Child", []string{"basic", "child", "dental", "cleaning"}},
	{"Major Dental Care - Adult", []string{"major", "adult", "dental", "crown", "root"}},
	{"Major Dental Care - Child", []string{"major", "child", "dental", "crown", "root"}},
}

const defaultTextBenefit = "Basic Dental Care - Adult"

// FromText builds a profile from a free-text description using keyword and
// pattern matching. It never fails on unrecognized text; anything it cannot
// find falls back to a single adult needing basic adult dental care.
func FromText(text string, logger *slog.Logger) (*UserProfile, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lower := strings.ToLower(text)

	family, children := 1, 0
	for _, re := range familyPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			family, _ = strconv.Atoi(m[1])
			break
		}
	}
	for _, re := range childPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			children, _ = strconv.Atoi(m[1])
		} else if family > 1 {
			children = max(1, family-2)
		}
		break
	}
	adults := family - children
	if adults < 1 {
		adults = 1
		family = children + adults
	}

	var required []string
	for _, bk := range textBenefits {
		for _, kw := range bk.keywords {
			if strings.Contains(lower, kw) {
				required = append(required, bk.name)
				break
			}
		}
	}
	if len(required) == 0 {
		required = []string{defaultTextBenefit}
	}

	var excluded []string
	if strings.Contains(lower, "don't need") || strings.Contains(lower, "don't want") || strings.Contains(lower, "exclude") {
		for _, bk := range textBenefits {
			if strings.Contains(lower, strings.ToLower(bk.name)) {
				excluded = append(excluded, bk.name)
			}
		}
	}

	pref := PreferEither
	switch {
	case strings.Contains(lower, "copay"):
		pref = PreferCopay
	case strings.Contains(lower, "coinsurance"), strings.Contains(lower, "co-insurance"):
		pref = PreferCoinsurance
	}

	var budget *BudgetConstraints
	for _, re := range premiumPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			v, _ := strconv.ParseFloat(m[1], 64)
			budget = &BudgetConstraints{MaxMonthlyPremium: &v}
			break
		}
	}

	p := UserProfile{
		FamilySize:           family,
		ChildrenCount:        children,
		AdultsCount:          adults,
		ExpectedUsage:        InferUsage(required, family, children),
		Priorities:           DefaultPriorities(required, pref, budget),
		RequiredBenefits:     required,
		ExcludedBenefitsOK:   excluded,
		PreferredCostSharing: pref,
		Budget:               budget,
	}
	logger.Info("extracted profile from text",
		"family_size", family, "children", children, "benefits", len(required))
	return New(p)
}
