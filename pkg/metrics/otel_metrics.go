package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 审核相关指标
	VerificationsTotal   metric.Int64Counter
	VerificationDuration metric.Float64Histogram

	// 罚款与捐赠指标
	FinesIssuedTotal      metric.Int64Counter
	FineAmountPenceTotal  metric.Int64Counter
	FinesPaidTotal        metric.Int64Counter
	DonationsTotal        metric.Int64Counter

	// 通知指标
	NotificationsSentTotal metric.Int64Counter
	PushDeliveryTotal      metric.Int64Counter
}

var (
	metrics *OTelMetrics
	meter   = otel.Meter("teatime-authority")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.VerificationsTotal, err = meter.Int64Counter(
		"verifications_total",
		metric.WithDescription("Total number of photo verifications"),
		metric.WithUnit("{verification}"),
	)
	if err != nil {
		return err
	}

	metrics.VerificationDuration, err = meter.Float64Histogram(
		"verification_duration_seconds",
		metric.WithDescription("Time spent verifying a photo in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.FinesIssuedTotal, err = meter.Int64Counter(
		"fines_issued_total",
		metric.WithDescription("Total number of fines issued"),
		metric.WithUnit("{fine}"),
	)
	if err != nil {
		return err
	}

	metrics.FineAmountPenceTotal, err = meter.Int64Counter(
		"fine_amount_pence_total",
		metric.WithDescription("Total amount of fines issued in pence"),
		metric.WithUnit("{pence}"),
	)
	if err != nil {
		return err
	}

	metrics.FinesPaidTotal, err = meter.Int64Counter(
		"fines_paid_total",
		metric.WithDescription("Total number of fines settled by payment"),
		metric.WithUnit("{fine}"),
	)
	if err != nil {
		return err
	}

	metrics.DonationsTotal, err = meter.Int64Counter(
		"donations_total",
		metric.WithDescription("Total number of donation submissions"),
		metric.WithUnit("{donation}"),
	)
	if err != nil {
		return err
	}

	metrics.NotificationsSentTotal, err = meter.Int64Counter(
		"notifications_sent_total",
		metric.WithDescription("Total number of notifications emitted"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return err
	}

	metrics.PushDeliveryTotal, err = meter.Int64Counter(
		"push_delivery_total",
		metric.WithDescription("Total number of push delivery attempts"),
		metric.WithUnit("{push}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordVerification 记录一次审核结果
func RecordVerification(verifyContext, outcome string, duration float64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := []attribute.KeyValue{
		attribute.String("context", verifyContext),
		attribute.String("outcome", outcome),
	}
	m.VerificationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.VerificationDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("context", verifyContext),
	))
}

// RecordFineIssued 记录罚款开具
func RecordFineIssued(amountPence int64, offenseCount int) {
	m := GetMetrics()
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.Int("offense_count", offenseCount))
	m.FinesIssuedTotal.Add(ctx, 1, attrs)
	m.FineAmountPenceTotal.Add(ctx, amountPence, attrs)
}

// RecordFineSettled 记录罚款结清
func RecordFineSettled(method string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.FinesPaidTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("method", method),
	))
}

// RecordDonation 记录捐赠提交结果
func RecordDonation(outcome string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.DonationsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordNotificationSent 记录通知写入
func RecordNotificationSent(notificationType string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.NotificationsSentTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("type", notificationType),
	))
}

// RecordPushDelivery 记录推送投递尝试
func RecordPushDelivery(status string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.PushDeliveryTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}
