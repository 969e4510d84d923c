package event

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
	pkgkafka "github.com/0xsarwagya/thahrav-new/pkg/kafka"
)

type capturedPublish struct {
	topic string
	event *pkgkafka.Event
}

type fakePublisher struct {
	published []capturedPublish
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, event *pkgkafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, capturedPublish{topic: topic, event: event})
	return nil
}

func newTestProducer(pub Publisher) *Producer {
	return NewProducer(pub, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestProducer_PublishUserRegistered(t *testing.T) {
	pub := &fakePublisher{}
	p := newTestProducer(pub)

	user := &domain.User{ID: "u-1", Email: "alice@example.com"}
	require.NoError(t, p.PublishUserRegistered(context.Background(), user))

	require.Len(t, pub.published, 1)
	assert.Equal(t, TopicUserRegistered, pub.published[0].topic)
	assert.Equal(t, "u-1", pub.published[0].event.Subject)

	var data UserRegisteredData
	require.NoError(t, json.Unmarshal(pub.published[0].event.Data, &data))
	assert.Equal(t, "alice@example.com", data.Email)
}

func TestProducer_PublishAddressCreated_KeyedByOwner(t *testing.T) {
	pub := &fakePublisher{}
	p := newTestProducer(pub)

	a := &domain.Address{ID: "addr-1", UserID: "u-1", Country: "USA", IsShipping: true}
	require.NoError(t, p.PublishAddressCreated(context.Background(), a))

	require.Len(t, pub.published, 1)
	assert.Equal(t, TopicAddressCreated, pub.published[0].topic)
	// Partitioned by owner so one user's address events stay ordered.
	assert.Equal(t, "u-1", pub.published[0].event.Subject)
}

func TestProducer_NilProducerDropsEvents(t *testing.T) {
	var p *Producer

	user := &domain.User{ID: "u-1", Email: "alice@example.com"}
	assert.NoError(t, p.PublishUserRegistered(context.Background(), user))
	assert.NoError(t, p.PublishProfileUpdated(context.Background(), user))
	assert.NoError(t, p.PublishSignInRequested(context.Background(), "alice@example.com"))
}

func TestProducer_PublishError(t *testing.T) {
	pub := &fakePublisher{err: assert.AnError}
	p := newTestProducer(pub)

	err := p.PublishSignInRequested(context.Background(), "alice@example.com")
	assert.Error(t, err)
}
