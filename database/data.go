package database

import (
	"go-portprobe/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"time"
)

// Scan statuses stored with every record.
const (
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// ScanRecord defines one persisted scan run.
type ScanRecord struct {
	ID            uint                        `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time                   `json:"created_at"`
	Host          string                      `gorm:"column:host" json:"host"`
	Address       string                      `gorm:"column:address" json:"address"`
	StartPort     uint16                      `gorm:"column:start_port" json:"start_port"`
	EndPort       uint16                      `gorm:"column:end_port" json:"end_port"`
	Concurrency   int                         `gorm:"column:concurrency" json:"concurrency"`
	TimeoutMillis int                         `gorm:"column:timeout_ms" json:"timeout_ms"`
	Status        string                      `gorm:"column:status;index" json:"status"`
	Error         string                      `gorm:"column:error" json:"error,omitempty"`
	Total         int                         `gorm:"column:total" json:"total"`
	ClosedCount   int                         `gorm:"column:closed_count" json:"closed_count"`
	OpenPorts     datatypes.JSONSlice[uint16] `gorm:"column:open_ports" json:"open_ports"`
	Duration      string                      `gorm:"column:duration" json:"duration"`
}

// Fill copies a completed scan's summary into the record.
func (r *ScanRecord) Fill(s *models.ScanSummary) {
	r.Status = StatusCompleted
	r.Total = s.Total
	r.ClosedCount = s.ClosedCount
	r.OpenPorts = datatypes.JSONSlice[uint16](s.OpenPorts)
}

// SettingsDB holds the last used scan settings, always in row 1.
type SettingsDB struct {
	gorm.Model
	Host          string `gorm:"column:host"`
	Ports         string `gorm:"column:ports"`
	Concurrency   int    `gorm:"column:concurrency"`
	TimeoutMillis int    `gorm:"column:timeout_ms"`
	Output        string `gorm:"column:output"`
}
