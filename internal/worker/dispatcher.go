package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb         *redis.Client
	notifyEmail string
}

func NewDispatcher(rdb *redis.Client, notifyEmail string) *Dispatcher {
	return &Dispatcher{rdb: rdb, notifyEmail: notifyEmail}
}

// NotifyConversion queues an email announcing that a lead reached the
// converted status. Satisfies the lead service's ConversionNotifier.
func (d *Dispatcher) NotifyConversion(ctx context.Context, leadName, city string, totalArea decimal.Decimal) error {
	if d.rdb == nil || d.notifyEmail == "" {
		return nil
	}
	payload := EmailJobPayload{
		ToEmail: d.notifyEmail,
		Subject: fmt.Sprintf("Lead converted: %s", leadName),
		Body: fmt.Sprintf(
			"Lead %s (%s) was marked as converted.\nTotal registered area: %s ha.\n",
			leadName, city, totalArea.StringFixed(2)),
	}
	return d.enqueue(ctx, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueEmail, encoded).Err()
}
