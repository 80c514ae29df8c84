// Package archive records coaching exchanges: a summary row in an Index and
// the full transcript JSON in a BlobStore.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coachlab/coachlab/internal/metrics"
	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/scoring"
)

// ErrNotFound is returned when a session or blob does not exist.
var ErrNotFound = errors.New("not found")

// Record summarizes one archived coaching exchange.
type Record struct {
	ID         string        `json:"id"`
	ScenarioID string        `json:"scenarioId"`
	Score      int           `json:"score"`
	Badge      scoring.Badge `json:"badge"`
	Enriched   bool          `json:"enriched"`
	StorageRef string        `json:"storageRef"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Transcript is the full archived exchange.
type Transcript struct {
	Record   Record         `json:"record"`
	Request  coach.Request  `json:"request"`
	Response coach.Response `json:"response"`
}

// Filter narrows a listing. Limit <= 0 uses DefaultListLimit.
type Filter struct {
	ScenarioID string
	Limit      int
}

// Listing bounds.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

func (f Filter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// Index stores and queries session records.
type Index interface {
	Put(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
	Ping(ctx context.Context) error
}

// BlobStore abstracts transcript storage.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Archive ties an Index to a BlobStore. The zero value is not usable; use New
// or Disabled.
type Archive struct {
	index  Index
	blobs  BlobStore
	logger *zap.Logger
	now    func() time.Time
}

// New creates an archive over index and blobs.
func New(index Index, blobs BlobStore, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{index: index, blobs: blobs, logger: logger, now: time.Now}
}

// Disabled returns an archive that records nothing.
func Disabled() *Archive {
	return &Archive{logger: zap.NewNop(), now: time.Now}
}

// Enabled reports whether the archive persists anything.
func (a *Archive) Enabled() bool {
	return a.index != nil && a.blobs != nil
}

// blobKey lays transcripts out by day.
func blobKey(id string, at time.Time) string {
	return "sessions/" + at.UTC().Format("2006/01/02") + "/" + id + ".json"
}

// Save archives one exchange. The transcript is written before the index row
// so a listed session always has a transcript.
func (a *Archive) Save(ctx context.Context, req coach.Request, resp coach.Response) (Record, error) {
	if !a.Enabled() {
		return Record{}, nil
	}

	scenario := req.ScenarioID
	if scenario == "" {
		scenario = coach.DefaultScenarioID
	}
	rec := Record{
		ID:         uuid.NewString(),
		ScenarioID: scenario,
		Score:      resp.Feedback.Score,
		Badge:      resp.Feedback.Badge,
		Enriched:   resp.Enriched,
		CreatedAt:  a.now().UTC(),
	}
	rec.StorageRef = blobKey(rec.ID, rec.CreatedAt)

	data, err := json.Marshal(Transcript{Record: rec, Request: req, Response: resp})
	if err != nil {
		return Record{}, fmt.Errorf("marshal transcript: %w", err)
	}
	if err := a.blobs.Put(ctx, rec.StorageRef, data); err != nil {
		metrics.RecordArchiveFailure("blob")
		return Record{}, fmt.Errorf("store transcript: %w", err)
	}
	if err := a.index.Put(ctx, rec); err != nil {
		metrics.RecordArchiveFailure("index")
		return Record{}, fmt.Errorf("index session: %w", err)
	}

	a.logger.Debug("session archived",
		zap.String("session_id", rec.ID),
		zap.String("scenario", rec.ScenarioID),
		zap.Int("score", rec.Score),
	)
	return rec, nil
}

// List returns recent sessions, newest first. A disabled archive returns an
// empty list.
func (a *Archive) List(ctx context.Context, f Filter) ([]Record, error) {
	if !a.Enabled() {
		return []Record{}, nil
	}
	f.Limit = f.limit()
	recs, err := a.index.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// Transcript loads the full exchange for a session ID.
func (a *Archive) Transcript(ctx context.Context, id string) (*Transcript, error) {
	if !a.Enabled() {
		return nil, ErrNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	rec, err := a.index.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := a.blobs.Get(ctx, rec.StorageRef)
	if err != nil {
		return nil, fmt.Errorf("load transcript %s: %w", id, err)
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", id, err)
	}
	return &t, nil
}

// Ping checks the index. A disabled archive is always healthy.
func (a *Archive) Ping(ctx context.Context) error {
	if !a.Enabled() {
		return nil
	}
	return a.index.Ping(ctx)
}
