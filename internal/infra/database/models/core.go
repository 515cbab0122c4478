package models

import (
	"time"
)

// KVEntry is one stored value of the catalog cache.
type KVEntry struct {
	Key   string    `json:"key" gorm:"primaryKey;type:text"`
	Value []byte    `json:"value" gorm:"type:bytea;not null"`
	MDate time.Time `json:"mdate" gorm:"autoUpdateTime;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
