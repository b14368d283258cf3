package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanoria/pricingservice/internal/domain"
	"github.com/sanoria/pricingservice/internal/log"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(TypeQuoteComputed, "sess-1", QuoteComputedData{
		Quote:          domain.PriceQuote{Subtotal: 2000, Total: 2000},
		ShippingMethod: "standard",
		ItemCount:      2,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, TypeQuoteComputed, event.Type)
	assert.Equal(t, "sess-1", event.SessionID)
	assert.Equal(t, 1, event.Version)
	assert.NotZero(t, event.Timestamp)

	var data QuoteComputedData
	require.NoError(t, json.Unmarshal(event.Data, &data))
	assert.Equal(t, int64(2000), data.Quote.Total)
	assert.Equal(t, "standard", data.ShippingMethod)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	publisher := NewKafkaPublisherWithProducer(producer, "storefront.pricing", log.NewNop().Logger)

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event Event
		return json.Unmarshal(value, &event)
	})

	event, err := NewEvent(TypePromotionRejected, "sess-1", PromotionRejectedData{
		Code:   "BOGUS",
		Reason: string(domain.RejectionCodeNotFound),
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), event))
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	publisher := NewKafkaPublisherWithProducer(producer, "storefront.pricing", log.NewNop().Logger)

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event, err := NewEvent(TypeQuoteComputed, "", QuoteComputedData{})
	require.NoError(t, err)
	assert.Error(t, publisher.Publish(context.Background(), event))
	require.NoError(t, publisher.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	event, err := NewEvent(TypeQuoteComputed, "", QuoteComputedData{})
	require.NoError(t, err)
	assert.NoError(t, p.Publish(context.Background(), event))
	assert.NoError(t, p.Close())
}
