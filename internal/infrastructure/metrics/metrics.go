package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Business metric names.
const (
	CartCheckouts     = "CartCheckouts"
	OrdersCompleted   = "OrdersCompleted"
	OrdersCancelled   = "OrdersCancelled"
	StockLedgerDrift  = "StockLedgerDrift"
	InventoryLowStock = "InventoryLowStock"
)

// Recorder publishes business metrics. Implementations must not block
// the caller on failure.
type Recorder interface {
	Count(ctx context.Context, name string, dimensions map[string]string)
	Value(ctx context.Context, name string, value float64, dimensions map[string]string)
}

// Nop discards every data point.
type Nop struct{}

func (Nop) Count(context.Context, string, map[string]string)           {}
func (Nop) Value(context.Context, string, float64, map[string]string) {}

// putMetricDataAPI is the part of *cloudwatch.Client the recorder needs.
type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatch sends each data point to CloudWatch Metrics.
type CloudWatch struct {
	client    putMetricDataAPI
	namespace string
	onError   func(error)
}

// NewCloudWatch loads the default AWS configuration for region. A non-empty
// endpoint overrides the service URL (LocalStack).
func NewCloudWatch(ctx context.Context, region, endpoint, namespace string, onError func(error)) (*CloudWatch, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := cloudwatch.NewFromConfig(cfg, func(o *cloudwatch.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return newCloudWatch(client, namespace, onError), nil
}

func newCloudWatch(client putMetricDataAPI, namespace string, onError func(error)) *CloudWatch {
	if namespace == "" {
		namespace = "BrickCo"
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &CloudWatch{client: client, namespace: namespace, onError: onError}
}

func (m *CloudWatch) Count(ctx context.Context, name string, dimensions map[string]string) {
	m.put(ctx, name, 1, types.StandardUnitCount, dimensions)
}

func (m *CloudWatch) Value(ctx context.Context, name string, value float64, dimensions map[string]string) {
	m.put(ctx, name, value, types.StandardUnitNone, dimensions)
}

func (m *CloudWatch) put(ctx context.Context, name string, value float64, unit types.StandardUnit, dimensions map[string]string) {
	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dims,
			},
		},
	})
	if err != nil {
		m.onError(fmt.Errorf("failed to put metric %s: %w", name, err))
	}
}
