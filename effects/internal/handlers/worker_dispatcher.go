package handlers

import (
	"context"
	"sync"

	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
)

// WorkerDispatcher hands out the inbound channel of the worker responsible for a message.
type WorkerDispatcher[T any] interface {
	GetChannelOf(msg T) chan T
	NumWorkers() int
	// Stop waits for every worker to return, then passes each message still
	// queued to drop. The workers' ctx must already be done.
	Stop(drop func(T))
}

// workerPool is the set of worker goroutines behind a dispatcher.
type workerPool[T any] struct {
	effectChs []chan T
	running   *sync.WaitGroup
}

func startWorkers[T any](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
) workerPool[T] {
	pool := workerPool[T]{
		effectChs: make([]chan T, numWorkers),
		running:   &sync.WaitGroup{},
	}
	ready := sync.WaitGroup{}
	for i := range pool.effectChs {
		ch := make(chan T, bufferSize)
		pool.effectChs[i] = ch
		ready.Add(1)
		pool.running.Add(1)
		go func() {
			defer pool.running.Done()
			runWorker(ctx, ch, handleFn, ready.Done)
		}()
	}
	ready.Wait()
	return pool
}

func (p workerPool[T]) NumWorkers() int { return len(p.effectChs) }

func (p workerPool[T]) Stop(drop func(T)) {
	p.running.Wait()
	for _, ch := range p.effectChs {
		drain(ch, drop)
	}
}

func drain[T any](ch chan T, drop func(T)) {
	for {
		select {
		case msg := <-ch:
			drop(msg)
		default:
			return
		}
	}
}

// --- single queue ---

type singleQueue[T any] struct {
	workerPool[T]
}

func (q singleQueue[T]) GetChannelOf(_ T) chan T { return q.effectChs[0] }

// NewSingleQueue starts one worker draining a channel of the given buffer size.
// The worker returns when ctx is done.
func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	return singleQueue[T]{startWorkers(ctx, 1, bufferSize, handleFn)}
}

// --- partitioned queue ---

type partitionedQueue[T effectmodel.Partitionable] struct {
	workerPool[T]
}

func (pq partitionedQueue[T]) GetChannelOf(msg T) chan T {
	return pq.effectChs[getIndexByHash(msg, len(pq.effectChs))]
}

// NewPartitionedQueue starts numWorkers workers.
// Messages with the same PartitionKey always land on the same worker,
// so state keyed by partition is only ever touched by one goroutine.
func NewPartitionedQueue[T effectmodel.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	return partitionedQueue[T]{startWorkers(ctx, numWorkers, bufferSize, handleFn)}
}

func runWorker[T any](
	ctx context.Context,
	ch chan T,
	handleFn func(context.Context, T),
	onReady func(),
) {
	onReady()
	for {
		select {
		case msg := <-ch:
			handleFn(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}
