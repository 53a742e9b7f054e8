package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/zonetrack/apiserver/internal/mq"
)

// Channels events are published on.
const (
	ChannelAssetMoved  = "asset.moved"
	ChannelAlertRaised = "alert.raised"
)

// AssetMoved is emitted after a movement has been committed.
type AssetMoved struct {
	AssetID      int       `json:"assetId"`
	AssetName    string    `json:"assetName"`
	FromZoneID   int       `json:"fromZoneId"`
	ToZoneID     int       `json:"toZoneId"`
	ToZoneName   string    `json:"toZoneName"`
	MovementType string    `json:"movementType"`
	ShiftTime    string    `json:"shiftTime"`
	MovedBy      string    `json:"movedBy,omitempty"`
	LogID        int       `json:"logId"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// AlertRaised is emitted for every stored alert.
type AlertRaised struct {
	AlertID    int       `json:"alertId"`
	AssetID    *int      `json:"assetId"`
	ZoneID     *int      `json:"zoneId"`
	AlertType  string    `json:"alertType"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher encodes domain events as JSON messages.
type Publisher struct {
	queue *mq.MQ
}

func NewPublisher(queue *mq.MQ) *Publisher {
	return &Publisher{queue: queue}
}

// AssetMoved publishes event keyed by asset so consumers see each asset's
// movements in order.
func (p *Publisher) AssetMoved(ctx context.Context, event AssetMoved) error {
	return p.publish(ctx, ChannelAssetMoved, AssetOrderingKey(event.AssetID), event)
}

func (p *Publisher) AlertRaised(ctx context.Context, event AlertRaised) error {
	return p.publish(ctx, ChannelAlertRaised, "", event)
}

// AssetOrderingKey is the ordering key shared by all events of one asset.
func AssetOrderingKey(assetID int) string {
	return "asset-" + strconv.Itoa(assetID)
}

func (p *Publisher) publish(ctx context.Context, channel, orderingKey string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", channel, err)
	}
	attrs := map[string]string{
		mq.AttrContentType: "application/json",
		mq.AttrEventType:   channel,
	}
	if orderingKey != "" {
		attrs[mq.AttrOrderingKey] = orderingKey
	}
	if _, err := p.queue.Publish(ctx, channel, data, attrs); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// DecodeAlertRaised parses an alert.raised message body.
func DecodeAlertRaised(msg mq.Message) (AlertRaised, error) {
	var event AlertRaised
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return AlertRaised{}, fmt.Errorf("decode alert event %s: %w", msg.ID, err)
	}
	return event, nil
}
