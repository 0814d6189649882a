package consumerWorker

import (
	"context"

	"github.com/wb-go/wbf/zlog"
)

// Consumer is the queue side of the RabbitMQ client.
type Consumer interface {
	Consume(handler func([]byte) error) error
}

// Reader feeds queued registration notifications to a delivery function.
type Reader struct {
	RMQ     Consumer
	deliver func([]byte) error
	done    chan struct{}
	cancel  context.CancelFunc
}

func NewReader(rmq Consumer, deliver func([]byte) error) *Reader {
	return &Reader{
		RMQ:     rmq,
		deliver: deliver,
		done:    make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("🐇 RabbitMQ notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			if cctx.Err() != nil {
				return cctx.Err()
			}
			if err := r.deliver(body); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Msg("Failed to send registration notification from queue")
				return err
			}
			zlog.Logger.Info().Msg("📧 Queued registration notification sent")
			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("🛑 RabbitMQ notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
