package broadcast

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path"
	"sync"

	"github.com/alexandrevicenzi/go-sse"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultQueueSize = 256

// SSEOptions configures the server-sent events transport.
type SSEOptions struct {
	QueueSize     int
	RetryInterval int // milliseconds, sent to clients as the reconnect hint
}

type outgoing struct {
	channel string
	message *sse.Message
}

// SSEBroadcaster publishes notifications over server-sent events.
// Publish only enqueues; a single worker drains the queue so messages leave
// in the order they were published.
type SSEBroadcaster struct {
	server *sse.Server
	queue  chan outgoing
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	logger *logrus.Logger

	// logWriter feeds go-sse's logger into logrus; closing it stops the
	// goroutine logrus runs behind it.
	logWriter *io.PipeWriter
}

// NewSSEBroadcaster starts the delivery worker. Call Close on shutdown.
func NewSSEBroadcaster(opts SSEOptions, logger *logrus.Logger) *SSEBroadcaster {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}

	logWriter := logger.WriterLevel(logrus.DebugLevel)
	b := &SSEBroadcaster{
		server: sse.NewServer(&sse.Options{
			RetryInterval: opts.RetryInterval,
			Headers: map[string]string{
				"Access-Control-Allow-Origin": "*",
			},
			// Subscribers connect to /events/<channel>.
			ChannelNameFunc: func(r *http.Request) string {
				return path.Base(r.URL.Path)
			},
			Logger: log.New(logWriter, "go-sse: ", 0),
		}),
		queue:     make(chan outgoing, opts.QueueSize),
		done:      make(chan struct{}),
		logger:    logger,
		logWriter: logWriter,
	}

	b.wg.Add(1)
	go b.run()
	return b
}

// Publish marshals payload and queues it for delivery. When the queue is full
// the message is dropped.
func (b *SSEBroadcaster) Publish(channel, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.WithError(err).WithField("channel", channel).Error("broadcast: failed to marshal payload")
		return
	}

	msg := sse.NewMessage(uuid.NewString(), string(data), event)
	select {
	case b.queue <- outgoing{channel: channel, message: msg}:
	default:
		b.logger.WithFields(logrus.Fields{
			"channel": channel,
			"event":   event,
		}).Warn("broadcast: queue full, dropping message")
	}
}

func (b *SSEBroadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case out := <-b.queue:
			b.deliver(out)
		case <-b.done:
			for {
				select {
				case out := <-b.queue:
					b.deliver(out)
				default:
					return
				}
			}
		}
	}
}

func (b *SSEBroadcaster) deliver(out outgoing) {
	if !b.server.HasChannel(out.channel) {
		return
	}
	b.server.SendMessage(out.channel, out.message)
}

// ServeHTTP subscribes the request to the channel named by the last path segment.
func (b *SSEBroadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.server.ServeHTTP(w, r)
}

// ClientCount returns the number of connected subscribers.
func (b *SSEBroadcaster) ClientCount() int {
	return b.server.ClientCount()
}

// Close flushes queued messages and disconnects every subscriber.
func (b *SSEBroadcaster) Close() {
	b.once.Do(func() {
		close(b.done)
		b.wg.Wait()
		b.server.Shutdown()
		b.logWriter.Close()
	})
}
