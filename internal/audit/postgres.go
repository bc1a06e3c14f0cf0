// Package audit records every routing query's shape and outcome to
// Postgres for later analysis, off the query's own latency path: a
// bounded channel absorbs bursts and a single background goroutine
// drains it (C11).
package audit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one completed query's audit entry.
type Record struct {
	RequestID     string
	FromLat       float64
	FromLon       float64
	ToLat         float64
	ToLon         float64
	DepartureSec  int32
	NumResults    int
	NumberOfRides int
	DurationMs    int64
	TimedOut      bool
	ErrorMessage  string
	LoggedAt      time.Time
}

// dropWarnEvery throttles the "audit channel full, dropping record" log
// line so a sustained overload doesn't itself become a logging flood.
const dropWarnEvery = 100

// Sink buffers Records in memory and writes them to Postgres on a
// single background goroutine. A full buffer drops the incoming record
// rather than blocking the caller's query path.
type Sink struct {
	pool    *pgxpool.Pool
	records chan Record
	done    chan struct{}
	dropped int
}

// NewSink opens a pgx pool against databaseURL and starts the
// background writer. bufferSize bounds how many pending records may
// queue before new ones are dropped.
func NewSink(databaseURL string, bufferSize int) (*Sink, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating audit connection pool: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging audit database: %w", err)
	}

	s := &Sink{
		pool:    pool,
		records: make(chan Record, bufferSize),
		done:    make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Record enqueues a completed query for asynchronous persistence. It
// never blocks: a full buffer drops the record and counts it.
func (s *Sink) Record(r Record) {
	select {
	case s.records <- r:
	default:
		s.dropped++
		if s.dropped%dropWarnEvery == 1 {
			log.Printf("audit: buffer full, dropped %d record(s) so far", s.dropped)
		}
	}
}

// Close stops accepting new records and waits for the writer goroutine
// to drain what's pending.
func (s *Sink) Close() {
	close(s.records)
	<-s.done
	s.pool.Close()
}

func (s *Sink) run() {
	defer close(s.done)
	for r := range s.records {
		if err := s.insert(r); err != nil {
			log.Printf("audit: failed to write query record %s: %v", r.RequestID, err)
		}
	}
}

func (s *Sink) insert(r Record) error {
	const query = `
		INSERT INTO query_audit (
			request_id, from_lat, from_lon, to_lat, to_lon,
			departure_sec, num_results, number_of_rides,
			duration_ms, timed_out, error_message, logged_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx, query,
		r.RequestID, r.FromLat, r.FromLon, r.ToLat, r.ToLon,
		r.DepartureSec, r.NumResults, r.NumberOfRides,
		r.DurationMs, r.TimedOut, r.ErrorMessage, r.LoggedAt,
	)
	return err
}
