package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/hexcorp/hive-ai/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes inbound chat messages to a fixed set of workers using
// consistent hashing on the channel name, guaranteeing per-channel message
// ordering through the handler chain.
type Dispatcher struct {
	workers []chan ports.InboundMessage
	router  ports.MessageRouter
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, router ports.MessageRouter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.InboundMessage, numWorkers),
		router:  router,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.InboundMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a message to the worker responsible for its channel.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(msg ports.InboundMessage) {
	d.workers[d.shardIndex(msg.Channel)] <- msg
}

// shardIndex maps a channel name deterministically to a worker index.
func (d *Dispatcher) shardIndex(channel string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(channel))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.InboundMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			d.log.Debug().
				Str("message_id", msg.ID).
				Str("channel", msg.Channel).
				Int("worker_id", id).
				Msg("dispatching message")
			d.router.Dispatch(ctx, msg)
		}
	}
}
