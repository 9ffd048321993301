package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benefitsCSV = `BusinessYear,StateCode,IssuerId,SourceName,ImportDate,StandardComponentId,PlanId,BenefitName,CopayInnTier1,CoinsInnTier1,IsEHB,IsCovered,QuantLimitOnSvc,LimitQty,LimitUnit,Exclusions
2024,AK,21989,HIOS,2023-08-15,21989AK0030001,21989AK0030001-01,Basic Dental Care - Adult,$0,0%,Yes,Covered,No,,,
2024,AK,21989,HIOS,2023-08-15,21989AK0030001,21989AK0030001-01,Routine Dental Services (Adult),$0,0%,Yes,Covered,No,,,
2024,AK,38344,HIOS,2023-08-15,38344AK0010002,38344AK0010002-01,Basic Dental Care - Adult,,50%,Yes,Not Covered,Yes,1,Visit(s) per Year,Waiting period applies
2024,AK,38344,HIOS,2023-08-15,38344AK0010002,38344AK0010002-01,Routine Dental Services (Adult),,50%,Yes,Covered,Yes,1,Visit(s) per Year,
`

func writeBenefits(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "benefits.csv")
	require.NoError(t, os.WriteFile(path, []byte(benefitsCSV), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "plantool version "+Version)
}

func TestRecommendJSONToFile(t *testing.T) {
	data := writeBenefits(t)
	outPath := filepath.Join(t.TempDir(), "nested", "recs.json")

	_, err := run(t, "recommend",
		"--data", data,
		"--family-size", "1",
		"--required", "Basic Dental Care - Adult",
		"--format", "json",
		"--output", outPath,
	)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var got struct {
		Recommendations []struct {
			PlanID string `json:"plan_id"`
			Rank   int    `json:"rank"`
		} `json:"recommendations"`
		UserProfile struct {
			FamilySize  int `json:"family_size"`
			AdultsCount int `json:"adults_count"`
		} `json:"user_profile"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got.Recommendations, 2)
	assert.Equal(t, "21989AK0030001-01", got.Recommendations[0].PlanID)
	assert.Equal(t, 1, got.Recommendations[0].Rank)
	assert.Equal(t, "38344AK0010002-01", got.Recommendations[1].PlanID)
	assert.Equal(t, 1, got.UserProfile.FamilySize)
	assert.Equal(t, 1, got.UserProfile.AdultsCount)
}

func TestRecommendTopAndStdout(t *testing.T) {
	data := writeBenefits(t)

	out, err := run(t, "recommend", "--data", data, "--family-size", "2", "--top", "1", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "21989AK0030001-01")
	assert.NotContains(t, out, "38344AK0010002-01")
}

func TestRecommendPlanFilter(t *testing.T) {
	data := writeBenefits(t)
	filter := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(filter, []byte(`[{"plan_id": "38344AK0010002-01"}]`), 0644))

	out, err := run(t, "recommend", "--data", data, "--plans", filter, "--family-size", "1", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "38344AK0010002-01")
	assert.NotContains(t, out, "21989AK0030001-01")
}

func TestRecommendErrors(t *testing.T) {
	data := writeBenefits(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"top zero", []string{"--family-size", "1", "--top", "0"}, "--top"},
		{"family mismatch", []string{"--family-size", "3", "--adults", "1", "--children", "1"}, "family size mismatch"},
		{"negative children", []string{"--family-size", "1", "--children", "-1"}, "negative"},
		{"no family size", []string{}, "--family-size is required"},
		{"bad usage", []string{"--family-size", "1", "--expected-usage", "Sometimes"}, "expected usage"},
		{"bad priority", []string{"--family-size", "1", "--priority", "luxury"}, "luxury"},
		{"bad format", []string{"--family-size", "1", "--format", "xml"}, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"recommend", "--data", data}, tt.args...)
			_, err := run(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRecommendNoPlans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	header := strings.SplitN(benefitsCSV, "\n", 2)[0]
	require.NoError(t, os.WriteFile(path, []byte(header+"\n"), 0644))

	_, err := run(t, "recommend", "--data", path, "--family-size", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plans found")
}

func TestRecommendDescribe(t *testing.T) {
	data := writeBenefits(t)

	out, err := run(t, "recommend", "--data", data, "--describe", "single adult, low usage", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"recommendations"`)
}

func TestConvert(t *testing.T) {
	data := writeBenefits(t)
	outPath := filepath.Join(t.TempDir(), "benefits.parquet")

	out, err := run(t, "convert", data, outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 4 records")

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// The parquet file feeds recommend like any other source.
	rec, err := run(t, "recommend", "--data", outPath, "--family-size", "1", "--top", "1", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, rec, "21989AK0030001-01")
}

func TestImportRequiresDatabase(t *testing.T) {
	t.Setenv("PLANTOOL_DATABASE_URL", "")
	data := writeBenefits(t)

	_, err := run(t, "import", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}
