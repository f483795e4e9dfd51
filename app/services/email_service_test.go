package services

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmailSender(t *testing.T) {
	sender := NewMockEmailSender(log.New(io.Discard, "", 0))
	ctx := context.Background()

	id, err := sender.SendEmail(ctx, EmailMessage{
		FromEmail: "noreply@example.com",
		To:        []string{"owner@example.com"},
		Subject:   "New leads",
		HTML:      "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	tests := []struct {
		name string
		msg  EmailMessage
	}{
		{name: "NoRecipients", msg: EmailMessage{FromEmail: "noreply@example.com"}},
		{name: "BadRecipient", msg: EmailMessage{FromEmail: "noreply@example.com", To: []string{"not-an-email"}}},
		{name: "NoSender", msg: EmailMessage{To: []string{"owner@example.com"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sender.SendEmail(ctx, tt.msg)
			assert.Error(t, err)
		})
	}

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "New leads", sent[0].Subject)
}

func TestNewBrevoEmailSenderRequiresKey(t *testing.T) {
	_, err := NewBrevoEmailSender("")
	assert.ErrorIs(t, err, ErrEmailProviderNotConfigured)

	sender, err := NewBrevoEmailSender("xkeysib-test")
	require.NoError(t, err)
	assert.NotNil(t, sender)
}

func TestRedisRunLockUnreachable(t *testing.T) {
	rc := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rc.Close()

	release, err := NewRedisRunLock(rc, "test:lock", time.Minute).Acquire(context.Background())
	require.Error(t, err)
	assert.Nil(t, release)
	assert.False(t, errors.Is(err, ErrRunLockHeld))
}
