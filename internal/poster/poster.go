package poster

import (
	"context"
	"log"
	"time"

	"affiliatebot/internal/observability"
	"affiliatebot/internal/queue"
)

// Queue is the slice of PostQueue the poster consumes.
type Queue interface {
	Dequeue(ctx context.Context) (*queue.Entry, error)
}

// Publisher delivers one rendered post to a social surface.
type Publisher interface {
	Publish(ctx context.Context, body string) error
}

// Poster is the single task that drains the post queue. One poster owns
// the consumption side of the queue; the atomic dequeue keeps delivery
// FIFO even if a second instance is started by mistake.
type Poster struct {
	queue       Queue
	publisher   Publisher
	postsPerDay int
}

func New(q Queue, pub Publisher, postsPerDay int) *Poster {
	if postsPerDay <= 0 {
		postsPerDay = 3
	}
	return &Poster{queue: q, publisher: pub, postsPerDay: postsPerDay}
}

// Interval is the spacing between posts for the configured daily cadence.
func (p *Poster) Interval() time.Duration {
	return 24 * time.Hour / time.Duration(p.postsPerDay)
}

// Run publishes on a fixed cadence until the context is cancelled.
func (p *Poster) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	log.Printf("[poster] scheduling %d posts per day (every %s)", p.postsPerDay, p.Interval())

	for {
		select {
		case <-ctx.Done():
			log.Println("[poster] stopping")
			return
		case <-ticker.C:
			if err := p.PostNext(ctx); err != nil {
				log.Printf("[poster] post failed: %v", err)
			}
		}
	}
}

// PostNext claims and publishes the oldest queued entry. An empty queue is
// not an error.
func (p *Poster) PostNext(ctx context.Context) error {
	entry, err := p.queue.Dequeue(ctx)
	if err != nil {
		return err
	}
	if entry == nil {
		log.Println("[poster] queue empty, nothing to post")
		return nil
	}

	if err := p.publisher.Publish(ctx, entry.Body); err != nil {
		return err
	}

	observability.PostsPublished.Inc()
	log.Printf("[poster] published post %s for %s/%s", entry.ID, entry.Platform, entry.ProductID)
	return nil
}
