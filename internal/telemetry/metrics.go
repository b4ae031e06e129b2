// Package telemetry publishes fetch-cycle metrics to AWS CloudWatch.
// Publishing is disabled unless ENABLE_METRICS is set; the nil publisher is
// safe to call so consumers never branch on configuration.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/config"
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Publisher emits dashboard fetch-cycle metrics.
//
// Metrics emitted:
//   - PageRefresh: Dims {Page, Result} -- on every page refresh outcome
//   - PageRefreshLatency: Dims {Page} -- wall time of the refresh fan-out
//   - UpstreamCall: Dims {Endpoint, Result} -- per metrics API call outcome
//   - RequestCount / RequestLatency: Dims {Method, Endpoint, Status} -- per
//     served HTTP request
type Publisher struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

// Result values for the Result dimension.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultPartial = "partial"
)

// New builds a Publisher per the observability configuration. Returns nil
// when metrics are disabled; a nil Publisher discards all records.
func New(ctx context.Context, obs config.ObservabilityConfig, awsCfg config.AWSConfig, logger *slog.Logger) (*Publisher, error) {
	if !obs.EnableMetrics {
		return nil, nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(awsCfg.Region),
	}
	if awsCfg.EndpointURL != "" {
		loadOpts = append(loadOpts, awsconfig.WithBaseEndpoint(awsCfg.EndpointURL))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return NewWithClient(cloudwatch.NewFromConfig(cfg), obs.MetricNamespace, logger), nil
}

// NewWithClient builds a Publisher around an existing CloudWatch client.
func NewWithClient(client CloudWatchClient, namespace string, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, namespace: namespace, logger: logger}
}

// RecordPageRefresh emits a PageRefresh count with Page and Result dimensions.
func (p *Publisher) RecordPageRefresh(ctx context.Context, page, result string) {
	if p == nil {
		return
	}
	p.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String("PageRefresh"),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("Page"), Value: aws.String(page)},
			{Name: aws.String("Result"), Value: aws.String(result)},
		},
	})
}

// RecordPageRefreshLatency emits the wall time of a page refresh fan-out.
func (p *Publisher) RecordPageRefreshLatency(ctx context.Context, page string, duration time.Duration) {
	if p == nil {
		return
	}
	p.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String("PageRefreshLatency"),
		Value:      aws.Float64(float64(duration.Milliseconds())),
		Unit:       cwtypes.StandardUnitMilliseconds,
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("Page"), Value: aws.String(page)},
		},
	})
}

// RecordRequest emits a request count and latency pair for one served HTTP
// request. Implements the core.MetricsCollector contract.
func (p *Publisher) RecordRequest(method, endpoint, status string, duration time.Duration) {
	if p == nil {
		return
	}
	ctx := context.Background()
	dims := []cwtypes.Dimension{
		{Name: aws.String("Method"), Value: aws.String(method)},
		{Name: aws.String("Endpoint"), Value: aws.String(endpoint)},
		{Name: aws.String("Status"), Value: aws.String(status)},
	}
	p.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String("RequestCount"),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: dims,
	})
	p.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String("RequestLatency"),
		Value:      aws.Float64(float64(duration.Milliseconds())),
		Unit:       cwtypes.StandardUnitMilliseconds,
		Dimensions: dims,
	})
}

// RecordUpstreamCall emits an UpstreamCall count with Endpoint and Result
// dimensions.
func (p *Publisher) RecordUpstreamCall(ctx context.Context, endpoint, result string) {
	if p == nil {
		return
	}
	p.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String("UpstreamCall"),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("Endpoint"), Value: aws.String(endpoint)},
			{Name: aws.String("Result"), Value: aws.String(result)},
		},
	})
}

func (p *Publisher) put(ctx context.Context, datum cwtypes.MetricDatum) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	}
	if _, err := p.client.PutMetricData(ctx, input); err != nil {
		p.logger.Error("failed to publish metric",
			"metric", aws.ToString(datum.MetricName),
			"error", err,
		)
	}
}
