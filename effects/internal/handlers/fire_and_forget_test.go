package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/on-the-ground/memo_ive_go/effects/internal/handlers"

	"github.com/stretchr/testify/assert"
)

func TestFireAndForgetHandler_BasicExecution(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 1)

	handler := handlers.NewFireAndForgetHandler(
		ctx,
		10,
		func(ctx context.Context, msg string) {
			received <- msg
		},
		func() {}, // no-op teardown
	)
	defer handler.Close()

	handler.FireAndForgetEffect(ctx, "hello")

	select {
	case msg := <-received:
		assert.Equal(t, "hello", msg)
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for handler")
	}
}

func TestFireAndForgetHandler_CancelledContextDropsPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	time.Sleep(100 * time.Millisecond)

	called := make(chan struct{}, 1)

	handler := handlers.NewFireAndForgetHandler(
		ctx,
		10,
		func(ctx context.Context, msg string) {
			called <- struct{}{}
		},
		func() {},
	)
	defer handler.Close()

	handler.FireAndForgetEffect(ctx, "should-not-send")

	select {
	case <-called:
		t.Fatal("handler should not have been called")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFireAndForgetHandler_SendAfterCloseIsDropped(t *testing.T) {
	ctx := context.Background()
	called := make(chan int, 1)

	handler := handlers.NewFireAndForgetHandler(ctx, 1, func(_ context.Context, n int) {
		called <- n
	}, func() {})
	handler.Close()

	assert.NotPanics(t, func() {
		handler.FireAndForgetEffect(ctx, 1)
	})
	select {
	case <-called:
		t.Fatal("handler should not run after close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFireAndForgetHandler_TeardownRunsOnce(t *testing.T) {
	teardowns := 0
	handler := handlers.NewFireAndForgetHandler(
		context.Background(),
		1,
		func(context.Context, int) {},
		func() { teardowns++ },
	)

	handler.Close()
	handler.Close()
	assert.Equal(t, 1, teardowns)
}
