package main

import (
	"time"

	"gorm.io/gorm"
)

// LeadModel is the persisted form of a LeadRecord plus its delivery outcome.
type LeadModel struct {
	gorm.Model
	LeadID        string    `gorm:"uniqueIndex;not null"`
	ChatID        int64     `gorm:"index"`
	Username      string
	Niche         string    `gorm:"type:text"`
	Name          string    `gorm:"type:text"`
	Phone         string
	CapturedAt    time.Time `gorm:"index"`
	DeliveredAt   *time.Time
	DeliveryError string
}

func (LeadModel) TableName() string {
	return "leads"
}

// Message is one inbound or outbound line of a free-text or voice exchange.
type Message struct {
	gorm.Model
	ChatID    int64     `gorm:"index"`
	UserID    int64     `gorm:"index"`
	Username  string    `gorm:"index"`
	Kind      string    `gorm:"index"` // "text", "voice" or "reply"
	Text      string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"index"`
	IsUser    bool
}

// FunnelHit marks that a chat reached a dialogue step at least once.
type FunnelHit struct {
	ID        uint   `gorm:"primaryKey"`
	State     string `gorm:"uniqueIndex:idx_funnel_state_chat;not null"`
	ChatID    int64  `gorm:"uniqueIndex:idx_funnel_state_chat;not null"`
	CreatedAt time.Time
}
