// Package blobrepo persists all deliveries as one serialized document stored
// under a single key of a kvstore.Store.
//
// A unit of work loads the document on Begin and writes it back on Commit.
// The factory serializes units of work with a mutex held from Begin until
// Commit or Rollback, so read-modify-write cycles never interleave within a
// process.
//
// Usage:
//
//	codec, _ := blobrepo.NewCodec(blobrepo.FormatMsgPack, blobrepo.CompressionZstd)
//	factory := blobrepo.NewUnitOfWorkFactory(store, codec, logger)
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.DeliveryRepository().Add(ctx, d); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package blobrepo

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"meddelivery/internal/adapters/out/kvstore"
	"meddelivery/internal/core/ports"
	"meddelivery/internal/pkg/errs"
)

// DocumentKey is the kvstore key holding the deliveries document.
const DocumentKey = "deliveries"

// ErrNoActiveTransaction is returned when the unit of work is used outside Begin/Commit.
var ErrNoActiveTransaction = errors.New("no active unit of work")

type UnitOfWorkFactory struct {
	store  kvstore.Store
	codec  Codec
	logger *slog.Logger
	mu     *sync.Mutex
}

func NewUnitOfWorkFactory(store kvstore.Store, codec Codec, logger *slog.Logger) *UnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitOfWorkFactory{
		store:  store,
		codec:  codec,
		logger: logger.With("component", "blobrepo", "codec", codec.String()),
		mu:     &sync.Mutex{},
	}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{
		store:  f.store,
		codec:  f.codec,
		logger: f.logger,
		mu:     f.mu,
	}
}

// UnitOfWork holds the decoded document between Begin and Commit.
type UnitOfWork struct {
	store  kvstore.Store
	codec  Codec
	logger *slog.Logger
	mu     *sync.Mutex

	records []deliveryRecord
	active  bool
	dirty   bool
}

// Begin locks the document and loads it. A missing document starts empty. An
// undecodable document is logged and replaced by an empty one on the next
// Commit, and records that do not restore are logged and dropped the same way.
// A failing store is reported as *errs.StorageUnavailableError.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.active {
		return nil
	}

	uow.mu.Lock()

	data, err := uow.store.Get(ctx, DocumentKey)
	switch {
	case errors.Is(err, kvstore.ErrKeyNotFound):
		uow.records = nil
	case err != nil:
		uow.mu.Unlock()
		return errs.NewStorageUnavailableError("read deliveries", err)
	default:
		var doc document
		if decodeErr := uow.codec.Decode(data, &doc); decodeErr != nil {
			uow.logger.WarnContext(ctx, "Stored deliveries are unreadable, starting empty", "error", decodeErr)
			uow.records = nil
		} else {
			uow.records = uow.keepRestorable(ctx, doc.Deliveries)
		}
	}

	uow.active = true
	uow.dirty = false
	return nil
}

// keepRestorable drops records that no longer restore into a delivery. The
// cleaned document is written back by the next Commit that changes anything.
func (uow *UnitOfWork) keepRestorable(ctx context.Context, records []deliveryRecord) []deliveryRecord {
	kept := records[:0]
	for _, rec := range records {
		if _, err := toDomain(rec); err != nil {
			uow.logger.WarnContext(ctx, "Dropping unreadable delivery record", "delivery_id", rec.ID, "error", err)
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// Commit writes the document back if anything changed and releases the lock.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	defer uow.release()

	if !uow.dirty {
		return nil
	}

	data, err := uow.codec.Encode(document{Version: documentVersion, Deliveries: uow.records})
	if err != nil {
		return errs.NewStorageUnavailableError("encode deliveries", err)
	}
	if err = uow.store.Set(ctx, DocumentKey, data); err != nil {
		return errs.NewStorageUnavailableError("write deliveries", err)
	}
	return nil
}

// Rollback discards pending changes. After Commit it returns ErrNoActiveTransaction.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.release()
	return nil
}

func (uow *UnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return &Repository{uow: uow}
}

func (uow *UnitOfWork) release() {
	uow.records = nil
	uow.active = false
	uow.dirty = false
	uow.mu.Unlock()
}

func (uow *UnitOfWork) indexOf(id string) int {
	for i := range uow.records {
		if uow.records[i].ID == id {
			return i
		}
	}
	return -1
}
