package metrics

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var collectorNamespaceSeq uint64

func nextTestNamespace() string {
	seq := atomic.AddUint64(&collectorNamespaceSeq, 1)
	return fmt.Sprintf("test_%d", seq)
}

func TestNewCollector(t *testing.T) {
	c := NewCollector(nextTestNamespace(), prometheus.NewRegistry(), zap.NewNop())
	assert.NotNil(t, c)
}

func TestNewCollectorNilDefaults(t *testing.T) {
	c := NewCollector(nextTestNamespace(), prometheus.NewRegistry(), nil)
	assert.NotNil(t, c)
	assert.NotNil(t, c.logger)
}

func TestCounters(t *testing.T) {
	c := NewCollector(nextTestNamespace(), prometheus.NewRegistry(), zap.NewNop())

	c.AddTokensIndexed(7)
	c.AddTokensIndexed(3)
	assert.Equal(t, float64(10), testutil.ToFloat64(c.tokensIndexed))

	c.AddBytesRead(2048)
	assert.Equal(t, float64(2048), testutil.ToFloat64(c.bytesRead))

	c.CacheHit()
	c.CacheHit()
	c.CacheMiss()
	assert.Equal(t, float64(2), testutil.ToFloat64(c.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.cacheMisses))
}

func TestObserveIndexBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(nextTestNamespace(), reg, zap.NewNop())

	c.ObserveIndexBatch(5*time.Millisecond, 500)
	c.ObserveIndexBatch(time.Millisecond, 120)

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestObserveAnalysis(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(nextTestNamespace(), reg, zap.NewNop())

	c.ObserveAnalysis(30*time.Millisecond, "ok")
	c.ObserveAnalysis(5*time.Millisecond, "error")

	n := testutil.CollectAndCount(c.analysisDuration)
	assert.Equal(t, 2, n)
}
