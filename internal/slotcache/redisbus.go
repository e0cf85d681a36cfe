package slotcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultInvalidationChannel = "slotcache:invalidate"

	publishTimeout = 2 * time.Second
)

// Invalidator é o que o fluxo de agendamento chama depois de persistir.
// *Cache e *RedisBus implementam.
type Invalidator interface {
	InvalidateDate(date string)
	InvalidateResource(resourceID string)
	Clear()
}

var (
	_ Invalidator = (*Cache)(nil)
	_ Invalidator = (*RedisBus)(nil)
)

type MessageKind string

const (
	KindDate     MessageKind = "date"
	KindResource MessageKind = "resource"
	KindClear    MessageKind = "clear"
)

type Message struct {
	Origin string      `json:"origin"`
	Kind   MessageKind `json:"kind"`
	Value  string      `json:"value,omitempty"`
}

// RedisBus aplica a invalidação no cache local e publica para as outras
// réplicas. Falha ao publicar só é logada: o cache local já está coerente.
type RedisBus struct {
	rdb     *redis.Client
	channel string
	origin  string
	local   *Cache
	log     *zap.Logger
}

func NewRedisBus(rdb *redis.Client, channel string, local *Cache, log *zap.Logger) *RedisBus {
	if channel == "" {
		channel = DefaultInvalidationChannel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBus{
		rdb:     rdb,
		channel: channel,
		origin:  uuid.NewString(),
		local:   local,
		log:     log.Named("slotcache.bus"),
	}
}

func (b *RedisBus) InvalidateDate(date string) {
	b.local.InvalidateDate(date)
	b.publish(Message{Kind: KindDate, Value: date})
}

func (b *RedisBus) InvalidateResource(resourceID string) {
	b.local.InvalidateResource(resourceID)
	b.publish(Message{Kind: KindResource, Value: resourceID})
}

func (b *RedisBus) Clear() {
	b.local.Clear()
	b.publish(Message{Kind: KindClear})
}

func (b *RedisBus) publish(msg Message) {
	msg.Origin = b.origin

	payload, err := json.Marshal(msg)
	if err != nil {
		b.log.Warn("encode invalidation", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.log.Warn("publish invalidation",
			zap.String("kind", string(msg.Kind)),
			zap.String("value", msg.Value),
			zap.Error(err),
		)
	}
}

// Apply processa uma mensagem recebida do canal. Mensagens da própria
// réplica são ignoradas.
func (b *RedisBus) Apply(payload string) error {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return fmt.Errorf("decode invalidation: %w", err)
	}

	if msg.Origin == b.origin {
		return nil
	}

	switch msg.Kind {
	case KindDate:
		b.local.InvalidateDate(msg.Value)
	case KindResource:
		b.local.InvalidateResource(msg.Value)
	case KindClear:
		b.local.Clear()
	default:
		return fmt.Errorf("unknown invalidation kind %q", msg.Kind)
	}
	return nil
}

// Subscribe escuta o canal até ctx ser cancelado.
func (b *RedisBus) Subscribe(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	b.log.Info("listening for invalidations", zap.String("channel", b.channel), zap.String("origin", b.origin))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			if err := b.Apply(m.Payload); err != nil {
				b.log.Warn("apply invalidation", zap.Error(err))
			}
		}
	}
}
