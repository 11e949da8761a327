package deliveryrepo

import (
	"context"
	"errors"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
// Database failures are returned as *errs.StorageUnavailableError.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new delivery row; the database assigns its sequence number.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewStorageUnavailableError("insert delivery", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column except the identity and sequence, zero values included.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "seq").
		Updates(&dto)
	if result.Error != nil {
		return errs.NewStorageUnavailableError("update delivery", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a delivery by ID.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, errs.NewStorageUnavailableError("select delivery", err)
	}

	return toDomain(dto)
}

func (r *GormDeliveryRepository) GetAll(ctx context.Context) ([]*delivery.Delivery, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

func (r *GormDeliveryRepository) GetAllByPatient(ctx context.Context, patientID string) ([]*delivery.Delivery, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("patient_id = ?", patientID))
}

func (r *GormDeliveryRepository) GetAllInTransit(ctx context.Context) ([]*delivery.Delivery, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("status = ?", int(delivery.InTransit)))
}

func (r *GormDeliveryRepository) find(_ context.Context, query *gorm.DB) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	if err := query.Order("seq").Find(&dtos).Error; err != nil {
		return nil, errs.NewStorageUnavailableError("select deliveries", err)
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}
