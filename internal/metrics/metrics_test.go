package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCollector_Counters(t *testing.T) {
	collector := NewCollector(zap.NewNop())

	collector.RunStarted()
	collector.RunStarted()
	collector.RunFinished()
	collector.ArtifactCreated("dataset")
	collector.FileUploaded(100)
	collector.FileUploaded(50)

	assert.Equal(t, float64(2), testutil.ToFloat64(collector.runsStarted))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.runsFinished))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.artifactsCreated.WithLabelValues("dataset")))
	assert.Equal(t, float64(2), testutil.ToFloat64(collector.filesUploaded))
	assert.Equal(t, float64(150), testutil.ToFloat64(collector.uploadBytes))
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(zap.NewNop())

	handler := collector.Handler()
	assert.NotNil(t, handler)
}
