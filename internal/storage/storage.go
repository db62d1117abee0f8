// Package storage persists reconstruction results to a local SQLite database
// so downstream analysis can query runs without re-reconstructing.
package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go.uber.org/zap"

	"github.com/telarray/airshower/internal/log"
	"github.com/telarray/airshower/internal/pipeline"
)

// ReconstructedEvent is the persisted form of one reconstruction result.
// Quantities are stored in fixed units: degrees, meters and g/cm².
type ReconstructedEvent struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"index;size:36"`
	EventID     uint64
	AltDeg      float64
	AzDeg       float64
	CoreXMeters float64
	CoreYMeters float64
	SlantDepth  float64 // g/cm²
	Valid       bool
	Telescopes  int
	CreatedAt   time.Time
}

// FromResult converts a pipeline result for persistence.
func FromResult(r pipeline.Result) ReconstructedEvent {
	return ReconstructedEvent{
		EventID:     r.EventID,
		AltDeg:      r.Geometry.Alt.Deg(),
		AzDeg:       r.Geometry.Az.Deg(),
		CoreXMeters: r.Geometry.CoreX.Meters(),
		CoreYMeters: r.Geometry.CoreY.Meters(),
		SlantDepth:  r.SlantDepth.GramsPerSquareCentimeter(),
		Valid:       r.Geometry.Valid,
		Telescopes:  r.Geometry.NTelescopes,
	}
}

// Client holds the connection to the results database
type Client struct {
	db *gorm.DB
}

// NewClient opens (creating if needed) the results database at path and
// migrates the schema.
func NewClient(path string) (*Client, error) {
	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("opening results database: %w", err)
	}
	if err := db.AutoMigrate(&ReconstructedEvent{}); err != nil {
		return nil, fmt.Errorf("migrating results schema: %w", err)
	}
	return &Client{db: db}, nil
}

// SaveRun stores the results of one reconstruction run under runID.
func (c *Client) SaveRun(runID string, results []pipeline.Result) error {
	if len(results) == 0 {
		return nil
	}
	records := make([]ReconstructedEvent, len(results))
	now := time.Now()
	for i, r := range results {
		records[i] = FromResult(r)
		records[i].RunID = runID
		records[i].CreatedAt = now
	}
	if err := c.db.Create(&records).Error; err != nil {
		return fmt.Errorf("saving run %s: %w", runID, err)
	}
	log.Infow("run saved", "run", runID, "events", len(records))
	return nil
}

// RunResults returns all stored results of a run, in event order.
func (c *Client) RunResults(runID string) ([]ReconstructedEvent, error) {
	var records []ReconstructedEvent
	err := c.db.Where("run_id = ?", runID).Order("event_id").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	return records, nil
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
