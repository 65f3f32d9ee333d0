// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The history column holds the append-only state-change log as a JSON array;
// the version column is the optimistic-concurrency marker. Timestamps are
// owned by the domain, so GORM's automatic tracking is disabled.
type OrderDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CustomerName string         `gorm:"not null"`
	Items        pq.StringArray `gorm:"type:text[];not null"`
	Notes        string
	State        string `gorm:"index;not null"`
	Version      int64  `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
	History      datatypes.JSON
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// historyEntry is the JSON shape of one history element.
type historyEntry struct {
	State      string    `json:"state"`
	OccurredAt time.Time `json:"occurred_at"`
	Notes      string    `json:"notes"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	changes := aggregate.History()
	entries := make([]historyEntry, 0, len(changes))
	for _, change := range changes {
		entries = append(entries, historyEntry{
			State:      string(change.State()),
			OccurredAt: change.OccurredAt(),
			Notes:      change.Notes(),
		})
	}

	historyJSON, err := json.Marshal(entries)
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		CustomerName: aggregate.CustomerName(),
		Items:        aggregate.Items(),
		Notes:        aggregate.Notes(),
		State:        string(aggregate.State()),
		Version:      aggregate.Version(),
		CreatedAt:    aggregate.CreatedAt(),
		UpdatedAt:    aggregate.UpdatedAt(),
		History:      datatypes.JSON(historyJSON),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including its history using RestoreOrder,
// which re-validates the invariants persisted data could have broken.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var entries []historyEntry
	if err = json.Unmarshal(dto.History, &entries); err != nil {
		return nil, err
	}

	history := make([]order.StateChange, 0, len(entries))
	for _, entry := range entries {
		change, changeErr := order.NewStateChange(order.State(entry.State), entry.OccurredAt, entry.Notes)
		if changeErr != nil {
			return nil, changeErr
		}
		history = append(history, change)
	}

	return order.RestoreOrder(
		id,
		dto.CustomerName,
		dto.Items,
		dto.Notes,
		order.State(dto.State),
		dto.Version,
		dto.CreatedAt,
		dto.UpdatedAt,
		history,
	)
}
