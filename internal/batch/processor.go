// Package batch implements the bulk bookmark mutation engine: one
// user-initiated action applied to a bounded set of bookmarks, with ownership
// narrowing, tag reconciliation, audit logging, and per-item error
// accumulation.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/tmarks/tmarks/internal/metrics"
	"github.com/tmarks/tmarks/internal/store"
)

// Action is a batch action kind. The set is closed: the processor's handler
// map is built from exactly these values and nothing else dispatches.
type Action string

const (
	ActionDelete     Action = "delete"
	ActionUpdateTags Action = "update_tags"
	ActionPin        Action = "pin"
	ActionUnpin      Action = "unpin"
	ActionArchive    Action = "archive"
	ActionUnarchive  Action = "unarchive"
)

// MaxBatchSize is the largest bookmark id set a single request may carry.
const MaxBatchSize = 100

// Request is one batch mutation request. AddTagIDs and RemoveTagIDs are only
// meaningful for update_tags.
type Request struct {
	Action       Action   `json:"action"`
	BookmarkIDs  []string `json:"bookmark_ids"`
	AddTagIDs    []string `json:"add_tag_ids,omitempty"`
	RemoveTagIDs []string `json:"remove_tag_ids,omitempty"`
}

// ItemError is a single bookmark's failure during the add-tag phase. Item
// errors never fail the enclosing request.
type ItemError struct {
	BookmarkID string `json:"bookmark_id"`
	Message    string `json:"message"`
}

// Result is the outcome of a dispatched batch action. AffectedCount is the
// number of bookmarks actually changed, which may be smaller than the
// requested set when ids are unowned or already deleted.
type Result struct {
	Success       bool        `json:"success"`
	AffectedCount int64       `json:"affected_count"`
	Errors        []ItemError `json:"errors,omitempty"`
}

// Invalidator drops cached views for an owner after a mutation.
type Invalidator interface {
	Invalidate(ownerID string)
}

// auditEntry is an audit write pending until the action's transaction
// resolves.
type auditEntry struct {
	eventType string
	payload   any
}

// handlerFunc applies one action kind inside tx, filling res and appending
// any audit entries to record.
type handlerFunc func(ctx context.Context, tx *sqlx.Tx, ownerID string, req Request, res *Result, record *[]auditEntry) error

// Processor validates and dispatches batch actions. Each action's statement
// sequence runs inside a single transaction, so a mid-sequence storage
// failure rolls back rather than leaving partial writes.
type Processor struct {
	db            *sqlx.DB
	bookmarks     *store.BookmarkStore
	tags          *store.TagStore
	ownership     *store.OwnershipStore
	audit         *store.AuditStore
	invalidator   Invalidator
	auditBlocking bool
	logger        *slog.Logger
	handlers      map[Action]handlerFunc
}

// Options configures a Processor.
type Options struct {
	// AuditBlocking makes audit writes part of the action transaction: a
	// failed audit insert rolls the whole action back. When false, audit
	// writes happen after commit and a failure is only logged.
	AuditBlocking bool
}

func NewProcessor(db *sqlx.DB, bookmarks *store.BookmarkStore, tags *store.TagStore, ownership *store.OwnershipStore, audit *store.AuditStore, invalidator Invalidator, logger *slog.Logger, opts Options) *Processor {
	p := &Processor{
		db:            db,
		bookmarks:     bookmarks,
		tags:          tags,
		ownership:     ownership,
		audit:         audit,
		invalidator:   invalidator,
		auditBlocking: opts.AuditBlocking,
		logger:        logger,
	}
	p.handlers = map[Action]handlerFunc{
		ActionDelete:     p.applyDelete,
		ActionUpdateTags: p.applyUpdateTags,
		ActionPin:        p.applyPinned(true),
		ActionUnpin:      p.applyPinned(false),
		ActionArchive:    p.applyArchived(true),
		ActionUnarchive:  p.applyArchived(false),
	}
	return p
}

// Apply validates req and dispatches it for ownerID. Validation failures are
// reported before any mutation. On success the owner's share cache is
// invalidated unconditionally, whatever the action kind.
func (p *Processor) Apply(ctx context.Context, ownerID string, req Request) (*Result, error) {
	handler, ok := p.handlers[req.Action]
	if !ok {
		// Caller-supplied action strings never become label values, so an
		// authenticated client cannot mint unbounded metric series.
		metrics.BatchActionsTotal.WithLabelValues("unknown", "invalid").Inc()
		return nil, errInvalidAction(req.Action)
	}
	if len(req.BookmarkIDs) == 0 {
		metrics.BatchActionsTotal.WithLabelValues(string(req.Action), "invalid").Inc()
		return nil, ErrInvalidRequest
	}
	if len(req.BookmarkIDs) > MaxBatchSize {
		metrics.BatchActionsTotal.WithLabelValues(string(req.Action), "invalid").Inc()
		return nil, ErrTooManyItems
	}

	res := &Result{Success: true}
	var audits []auditEntry

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch transaction: %w", err)
	}

	if err := handler(ctx, tx, ownerID, req, res, &audits); err != nil {
		_ = tx.Rollback()
		var berr *Error
		if errors.As(err, &berr) {
			metrics.BatchActionsTotal.WithLabelValues(string(req.Action), "not_found").Inc()
			return nil, berr
		}
		metrics.BatchActionsTotal.WithLabelValues(string(req.Action), "error").Inc()
		return nil, fmt.Errorf("apply %s: %w", req.Action, err)
	}

	if p.auditBlocking {
		for _, entry := range audits {
			if err := p.audit.Record(ctx, tx, ownerID, entry.eventType, entry.payload); err != nil {
				_ = tx.Rollback()
				metrics.BatchActionsTotal.WithLabelValues(string(req.Action), "error").Inc()
				return nil, fmt.Errorf("record audit entry: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.BatchActionsTotal.WithLabelValues(string(req.Action), "error").Inc()
		return nil, fmt.Errorf("commit batch transaction: %w", err)
	}

	if !p.auditBlocking {
		for _, entry := range audits {
			if err := p.audit.Record(ctx, p.db, ownerID, entry.eventType, entry.payload); err != nil {
				p.logger.Warn("audit write failed",
					"owner_id", ownerID, "event_type", entry.eventType, "error", err)
			}
		}
	}

	p.invalidator.Invalidate(ownerID)
	metrics.BatchActionsTotal.WithLabelValues(string(req.Action), "success").Inc()
	return res, nil
}

// applyDelete soft-deletes the owned, active subset of the requested ids and
// clears their click statistics. The audit entry carries the requested ids
// and the true affected count.
func (p *Processor) applyDelete(ctx context.Context, tx *sqlx.Tx, ownerID string, req Request, res *Result, record *[]auditEntry) error {
	n, err := p.bookmarks.SoftDeleteBatch(ctx, tx, ownerID, req.BookmarkIDs)
	if err != nil {
		return err
	}
	res.AffectedCount = n
	*record = append(*record, auditEntry{
		eventType: store.EventBatchDeleteBookmarks,
		payload: map[string]any{
			"bookmark_ids": req.BookmarkIDs,
			"count":        n,
		},
	})
	return nil
}

// applyPinned builds the pin/unpin handler. The toggles touch updated_at and
// are not audited.
func (p *Processor) applyPinned(pinned bool) handlerFunc {
	return func(ctx context.Context, tx *sqlx.Tx, ownerID string, req Request, res *Result, _ *[]auditEntry) error {
		n, err := p.bookmarks.SetPinnedBatch(ctx, tx, ownerID, req.BookmarkIDs, pinned)
		if err != nil {
			return err
		}
		res.AffectedCount = n
		return nil
	}
}

// applyArchived builds the archive/unarchive handler.
func (p *Processor) applyArchived(archived bool) handlerFunc {
	return func(ctx context.Context, tx *sqlx.Tx, ownerID string, req Request, res *Result, _ *[]auditEntry) error {
		n, err := p.bookmarks.SetArchivedBatch(ctx, tx, ownerID, req.BookmarkIDs, archived)
		if err != nil {
			return err
		}
		res.AffectedCount = n
		return nil
	}
}

// applyUpdateTags reconciles tag membership for the owned, active subset of
// the requested bookmarks: remove phase strictly before add phase, per-pair
// idempotent inserts with error accumulation, then a usage_count recompute
// for every tag the add phase touched.
func (p *Processor) applyUpdateTags(ctx context.Context, tx *sqlx.Tx, ownerID string, req Request, res *Result, record *[]auditEntry) error {
	validBookmarks, err := p.ownership.FilterBookmarkIDs(ctx, tx, ownerID, req.BookmarkIDs)
	if err != nil {
		return err
	}
	if len(validBookmarks) == 0 {
		return ErrNoValidBookmarks
	}

	if len(req.RemoveTagIDs) > 0 {
		if err := p.tags.RemoveAssociations(ctx, tx, ownerID, validBookmarks, req.RemoveTagIDs); err != nil {
			return err
		}
	}

	if len(req.AddTagIDs) > 0 {
		validTags, err := p.ownership.FilterTagIDs(ctx, tx, ownerID, req.AddTagIDs)
		if err != nil {
			return err
		}
		if len(validTags) > 0 {
			for _, bookmarkID := range validBookmarks {
				for _, tagID := range validTags {
					if err := p.tags.AddAssociation(ctx, tx, bookmarkID, tagID, ownerID); err != nil {
						res.Errors = append(res.Errors, ItemError{
							BookmarkID: bookmarkID,
							Message:    fmt.Sprintf("failed to add tag %s", tagID),
						})
						metrics.BatchItemErrorsTotal.Inc()
						p.logger.Warn("add tag association failed",
							"owner_id", ownerID, "bookmark_id", bookmarkID, "tag_id", tagID, "error", err)
					}
				}
			}
			// Recompute after all inserts for a tag have settled.
			for _, tagID := range validTags {
				if err := p.tags.RecomputeUsageCount(ctx, tx, tagID, ownerID); err != nil {
					return err
				}
			}
		}
	}

	if err := p.bookmarks.TouchBatch(ctx, tx, ownerID, validBookmarks); err != nil {
		return err
	}

	// Tag changes are association-table writes, so the affected count is the
	// valid bookmark count rather than a rows-changed figure.
	res.AffectedCount = int64(len(validBookmarks))
	*record = append(*record, auditEntry{
		eventType: store.EventBatchUpdateTags,
		payload: map[string]any{
			"bookmark_ids":   validBookmarks,
			"add_tag_ids":    req.AddTagIDs,
			"remove_tag_ids": req.RemoveTagIDs,
		},
	})
	return nil
}
