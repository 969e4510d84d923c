package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
	pkgkafka "github.com/0xsarwagya/thahrav-new/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicUserRegistered  = "storefront.user.registered"
	TopicProfileUpdated  = "storefront.user.profile_updated"
	TopicAddressCreated  = "storefront.address.created"
	TopicAddressUpdated  = "storefront.address.updated"
	TopicSignInRequested = "storefront.auth.signin_requested"
)

// Source identifier for events originating from this service.
const Source = "storefront"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProfileUpdatedData is the payload for a user.profile_updated event.
type ProfileUpdatedData struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// AddressData is the payload for address.created and address.updated events.
type AddressData struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
	IsShipping bool   `json:"is_shipping"`
	IsBilling  bool   `json:"is_billing"`
}

// SignInRequestedData is the payload for an auth.signin_requested event.
type SignInRequestedData struct {
	Email string `json:"email"`
}

// Publisher is the minimal Kafka producer surface needed here; satisfied by
// *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront domain events to Kafka. A nil Producer is
// valid and drops every publish, which keeps call sites unconditional when
// no brokers are configured.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	if p == nil || p.kafka == nil {
		return nil
	}

	data := UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
	}
	return p.publish(ctx, TopicUserRegistered, user.ID, data)
}

// PublishProfileUpdated publishes a user.profile_updated event.
func (p *Producer) PublishProfileUpdated(ctx context.Context, user *domain.User) error {
	if p == nil || p.kafka == nil {
		return nil
	}

	data := ProfileUpdatedData{
		ID:    user.ID,
		Name:  user.Name,
		Image: user.Image,
	}
	return p.publish(ctx, TopicProfileUpdated, user.ID, data)
}

// PublishAddressCreated publishes an address.created event.
func (p *Producer) PublishAddressCreated(ctx context.Context, a *domain.Address) error {
	if p == nil || p.kafka == nil {
		return nil
	}
	return p.publish(ctx, TopicAddressCreated, a.UserID, addressData(a))
}

// PublishAddressUpdated publishes an address.updated event.
func (p *Producer) PublishAddressUpdated(ctx context.Context, a *domain.Address) error {
	if p == nil || p.kafka == nil {
		return nil
	}
	return p.publish(ctx, TopicAddressUpdated, a.UserID, addressData(a))
}

// PublishSignInRequested publishes an auth.signin_requested event.
func (p *Producer) PublishSignInRequested(ctx context.Context, email string) error {
	if p == nil || p.kafka == nil {
		return nil
	}
	return p.publish(ctx, TopicSignInRequested, email, SignInRequestedData{Email: email})
}

func (p *Producer) publish(ctx context.Context, topic, subject string, data any) error {
	event, err := pkgkafka.NewEvent(topic, subject, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.String("subject", subject),
	)

	return nil
}

func addressData(a *domain.Address) AddressData {
	return AddressData{
		ID:         a.ID,
		UserID:     a.UserID,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
		IsShipping: a.IsShipping,
		IsBilling:  a.IsBilling,
	}
}
