package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ClampObserved("cost")
	m.PlanScored(0.5)
	m.Recommended(3)
	m.RowSkipped()
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteFile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestCounters(t *testing.T) {
	m := New()
	m.ClampObserved("cost")
	m.ClampObserved("cost")
	m.ClampObserved("overall")
	m.PlanScored(0.7)
	m.RowSkipped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ClampCounter("cost")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClampCounter("overall")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ClampCounter("limit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlansScored()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkippedRows()))
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.PlanScored(0.42)
	m.Recommended(1)

	path := filepath.Join(t.TempDir(), "plantool.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "plantool_plans_scored_total 1"), out)
	assert.True(t, strings.Contains(out, "plantool_recommendations_total 1"), out)
}
