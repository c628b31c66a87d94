package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestCloudWatch_Count(t *testing.T) {
	fake := &fakeCloudWatch{}
	m := newCloudWatch(fake, "", nil)

	m.Count(context.Background(), CartCheckouts, map[string]string{"source": "cart"})

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, "BrickCo", aws.ToString(in.Namespace))
	require.Len(t, in.MetricData, 1)
	d := in.MetricData[0]
	assert.Equal(t, CartCheckouts, aws.ToString(d.MetricName))
	assert.Equal(t, 1.0, aws.ToFloat64(d.Value))
	assert.Equal(t, types.StandardUnitCount, d.Unit)
	require.Len(t, d.Dimensions, 1)
	assert.Equal(t, "source", aws.ToString(d.Dimensions[0].Name))
}

func TestCloudWatch_ReportsErrors(t *testing.T) {
	fake := &fakeCloudWatch{err: errors.New("throttled")}
	var got error
	m := newCloudWatch(fake, "Test", func(err error) { got = err })

	m.Value(context.Background(), StockLedgerDrift, 2, nil)

	require.Error(t, got)
	assert.Contains(t, got.Error(), StockLedgerDrift)
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.Count(context.Background(), OrdersCompleted, nil)
}
