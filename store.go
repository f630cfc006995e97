package main

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists leads, the message log and funnel hits.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SaveLead inserts a lead before delivery is attempted.
func (s *Store) SaveLead(lead LeadRecord) error {
	row := LeadModel{
		LeadID:     lead.ID,
		ChatID:     lead.ChatID,
		Username:   lead.Username,
		Niche:      lead.Niche,
		Name:       lead.Name,
		Phone:      lead.Phone,
		CapturedAt: lead.CreatedAt,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save lead %s: %w", lead.ID, err)
	}
	return nil
}

// MarkLeadDelivered records a successful delivery to the notification sink.
func (s *Store) MarkLeadDelivered(leadID string, at time.Time) error {
	return s.updateLead(leadID, map[string]interface{}{
		"delivered_at":   at,
		"delivery_error": "",
	})
}

// MarkLeadFailed records why delivery failed. The lead is not resent.
func (s *Store) MarkLeadFailed(leadID string, cause error) error {
	return s.updateLead(leadID, map[string]interface{}{
		"delivery_error": cause.Error(),
	})
}

func (s *Store) updateLead(leadID string, fields map[string]interface{}) error {
	res := s.db.Model(&LeadModel{}).Where("lead_id = ?", leadID).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update lead %s: %w", leadID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("lead %s: %w", leadID, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetLead loads a persisted lead by its identifier.
func (s *Store) GetLead(leadID string) (LeadModel, error) {
	var row LeadModel
	err := s.db.Where("lead_id = ?", leadID).First(&row).Error
	return row, err
}

func (s *Store) StoreMessage(message Message) error {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	return s.db.Create(&message).Error
}

// RecordFunnel notes that chatID reached state. Repeat visits are ignored.
func (s *Store) RecordFunnel(state State, chatID int64) error {
	hit := FunnelHit{State: string(state), ChatID: chatID}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&hit).Error
}

// funnelCounts returns the number of distinct chats per reached state.
func (s *Store) funnelCounts() (map[State]int64, error) {
	var rows []struct {
		State string
		Count int64
	}
	err := s.db.Model(&FunnelHit{}).
		Select("state, count(*) as count").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[State]int64, len(rows))
	for _, r := range rows {
		counts[State(r.State)] = r.Count
	}
	return counts, nil
}

// Stats aggregates counters for the /stats command.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.Model(&LeadModel{}).Count(&st.TotalLeads).Error; err != nil {
		return st, err
	}
	if err := s.db.Model(&LeadModel{}).Where("delivered_at IS NOT NULL").Count(&st.DeliveredLeads).Error; err != nil {
		return st, err
	}
	if err := s.db.Model(&Message{}).Count(&st.TotalMessages).Error; err != nil {
		return st, err
	}
	counts, err := s.funnelCounts()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return st, err
	}
	st.Funnel = counts
	return st, nil
}
