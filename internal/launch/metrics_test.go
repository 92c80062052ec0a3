package launch

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_SetStateMarksExactlyOneState(t *testing.T) {
	m := NewMetrics()

	m.SetState("validator-1", StateRunningUnsafe)
	m.SetState("validator-1", StateRunningSafe)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.state.WithLabelValues("validator-1", "RunningSafe")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.state.WithLabelValues("validator-1", "RunningUnsafe")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.state.WithLabelValues("validator-1", "Failed")))
}

func TestMetrics_ObservePhase(t *testing.T) {
	m := NewMetrics()

	m.ObservePhase("validator-1", "start_to_healthy", 3*time.Second)
	m.ObservePhase("validator-1", "install_keys", 500*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.phases))
}
