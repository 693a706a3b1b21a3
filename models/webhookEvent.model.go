package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEvent is an audit record of every authenticated gateway notification,
// stored before processing so failed side effects can be traced and replayed.
type WebhookEvent struct {
	gorm.Model
	EventID         string         `json:"event_id" gorm:"index"`
	EventType       string         `json:"event_type" gorm:"index"`
	Payload         datatypes.JSON `json:"payload"`
	SignatureValid  bool           `json:"signature_valid" gorm:"default:false"`
	ProcessingError string         `json:"processing_error" gorm:"type:text"`
}
