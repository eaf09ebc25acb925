package metrics_test

import (
	"strings"
	"testing"

	"github.com/aretw0/rpni/internal/metrics"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	for _, kind := range []domain.OperationKind{
		domain.OpPromoteRed, domain.OpMarkBlue,
		domain.OpMerge, domain.OpDeterminize, domain.OpRollback,
		domain.OpMerge, domain.OpDeterminize, domain.OpCommit,
	} {
		c.Record(domain.Operation{Kind: kind})
	}
	c.ObserveRun(3)

	count, err := testutil.GatherAndCount(reg, "rpni_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 6, count, "one series per distinct kind")

	expected := `
# HELP rpni_merge_attempts_total Total number of red/blue merges tried
# TYPE rpni_merge_attempts_total counter
rpni_merge_attempts_total 2
# HELP rpni_rollbacks_total Total number of merges rejected by a negative example
# TYPE rpni_rollbacks_total counter
rpni_rollbacks_total 1
# HELP rpni_promotions_total Total number of states promoted to red
# TYPE rpni_promotions_total counter
rpni_promotions_total 1
# HELP rpni_hypothesis_states Number of states of the last learned hypothesis
# TYPE rpni_hypothesis_states gauge
rpni_hypothesis_states 3
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"rpni_merge_attempts_total", "rpni_rollbacks_total", "rpni_promotions_total", "rpni_hypothesis_states")
	assert.NoError(t, err)
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	_, err = metrics.NewCollector(reg)
	assert.Error(t, err)
}
