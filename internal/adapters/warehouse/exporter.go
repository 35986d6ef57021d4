// Package warehouse exports completed screening results to ClickHouse so
// they can be analyzed alongside other long-term datasets. The exporter is
// optional; the service runs without it when no warehouse address is
// configured.
package warehouse

import (
	"context"
	"fmt"
	"sync"

	"github.com/ClickHouse/ch-go"
	"github.com/google/uuid"

	"github.com/kselvik/anemos/internal/domain/model"
	"github.com/kselvik/anemos/pkg/logger"
	"github.com/kselvik/anemos/pkg/metrics"
)

const (
	defaultDatabase    = "anemos"
	defaultTablePrefix = "anemos"
)

// Exporter writes screening results into a ClickHouse table over the
// native protocol. All inserts from one Exporter share a run id so a
// single screening campaign can be queried as a unit.
type Exporter struct {
	mu       sync.Mutex
	client   *ch.Client
	database string
	prefix   string
	runID    string
	exported int64

	logger logger.Logger
}

// New connects to ClickHouse and ensures the results table exists.
func New(ctx context.Context, addr string, opts ...Option) (*Exporter, error) {
	e := &Exporter{
		database: defaultDatabase,
		prefix:   defaultTablePrefix,
		runID:    uuid.NewString(),
		logger:   logger.Get().Named("warehouse"),
	}
	for _, opt := range opts {
		opt(e)
	}

	client, err := ch.Dial(ctx, ch.Options{
		Address:     addr,
		Database:    e.database,
		Compression: ch.CompressionLZ4,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to clickhouse at %s: %w", addr, err)
	}
	e.client = client

	if err := e.client.Do(ctx, ch.Query{Body: e.tableDDL()}); err != nil {
		_ = e.client.Close()
		return nil, fmt.Errorf("ensure table %s: %w", e.tableName(), err)
	}

	e.logger.Info(ctx, "warehouse connected",
		logger.String("addr", addr),
		logger.String("table", e.tableName()),
		logger.String("runID", e.runID),
	)
	return e, nil
}

// RunID returns the identifier shared by every row this exporter writes.
func (e *Exporter) RunID() string {
	return e.runID
}

func (e *Exporter) tableName() string {
	return fmt.Sprintf("%s.%s_site_aep", e.database, e.prefix)
}

func (e *Exporter) tableDDL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id       String,
	site_id      String,
	aep_mwh      Float64,
	curve_name   String,
	hub_height_m Float64,
	year         Int32,
	computed_at  DateTime
) ENGINE = MergeTree
ORDER BY (run_id, site_id)`, e.tableName())
}

// Export inserts a batch of screening results. The batch is written in one
// native-protocol insert.
func (e *Exporter) Export(ctx context.Context, results []model.SiteAEP) error {
	if len(results) == 0 {
		return ErrEmptyBatch
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return ErrNotConnected
	}

	batch := newAEPBatch()
	for _, r := range results {
		batch.Add(e.runID, r)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (run_id, site_id, aep_mwh, curve_name, hub_height_m, year, computed_at) VALUES",
		e.tableName(),
	)
	if err := e.client.Do(ctx, ch.Query{
		Body:  query,
		Input: batch.Input(),
	}); err != nil {
		metrics.RecordExportError()
		metrics.RecordErrorByComponent("warehouse", "insert_error")
		return fmt.Errorf("insert %d rows into %s: %w", batch.Len(), e.tableName(), err)
	}

	e.exported += int64(batch.Len())
	metrics.RecordExportedRows(batch.Len())
	e.logger.Debug(ctx, "exported results",
		logger.Int("rows", batch.Len()),
		logger.Int("total", int(e.exported)),
	)
	return nil
}

// Exported returns the number of rows written so far.
func (e *Exporter) Exported() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exported
}

// Close releases the ClickHouse connection.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}
