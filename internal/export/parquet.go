package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/flavormetrics/internal/analytics"
	"github.com/chrisdamba/flavormetrics/internal/cloudwriter"
	"github.com/chrisdamba/flavormetrics/internal/models"
)

const (
	ForecastsFile       = "forecasts.parquet"
	MenuEngineeringFile = "menu_engineering.parquet"

	parallelWriters = 4
)

type ForecastRecord struct {
	RestaurantID    string `parquet:"name=restaurant_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	ForecastDate    string `parquet:"name=forecast_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	DayOfWeek       int32  `parquet:"name=day_of_week, type=INT32"`
	PredictedCovers int32  `parquet:"name=predicted_covers, type=INT32"`
	ConfidenceLow   int32  `parquet:"name=confidence_low, type=INT32"`
	ConfidenceHigh  int32  `parquet:"name=confidence_high, type=INT32"`
	ModelVersion    string `parquet:"name=model_version, type=BYTE_ARRAY, convertedtype=UTF8"`
	GeneratedAt     int64  `parquet:"name=generated_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

type MenuEngineeringRecord struct {
	RestaurantID       string  `parquet:"name=restaurant_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	PeriodStart        string  `parquet:"name=period_start, type=BYTE_ARRAY, convertedtype=UTF8"`
	PeriodEnd          string  `parquet:"name=period_end, type=BYTE_ARRAY, convertedtype=UTF8"`
	MenuItemID         string  `parquet:"name=menu_item_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name               string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category           string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quantity           int64   `parquet:"name=quantity, type=INT64"`
	Revenue            float64 `parquet:"name=revenue, type=DOUBLE"`
	Cost               float64 `parquet:"name=cost, type=DOUBLE"`
	Profit             float64 `parquet:"name=profit, type=DOUBLE"`
	ContributionMargin float64 `parquet:"name=contribution_margin, type=DOUBLE"`
	PopularityIndex    float64 `parquet:"name=popularity_index, type=DOUBLE"`
	ProfitabilityIndex float64 `parquet:"name=profitability_index, type=DOUBLE"`
	Classification     string  `parquet:"name=classification, type=BYTE_ARRAY, convertedtype=UTF8"`
	SuggestedPrice     float64 `parquet:"name=suggested_price, type=DOUBLE"`
}

// CloudParquetFile adapts a write-only cloud object to source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
	aborted     bool
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

func (c *CloudParquetFile) Open(string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

// Close uploads the object unless Abort was called.
func (c *CloudParquetFile) Close() error {
	if c.aborted {
		return nil
	}
	return c.cloudWriter.Close()
}

// Abort drops the buffered object so a failed export never reaches the bucket.
func (c *CloudParquetFile) Abort() {
	c.aborted = true
}

// Exporter writes analytics snapshots as Parquet, either under a local folder
// or into a bucket with the same relative keys.
type Exporter struct {
	folder  string
	bucket  string
	factory cloudwriter.CloudWriterFactory
}

func NewExporter(ctx context.Context, cfg models.ExportConfig) (*Exporter, error) {
	if cfg.Destination != "s3" {
		return &Exporter{folder: cfg.OutputFolder}, nil
	}
	factory, err := cloudwriter.NewS3WriterFactory(ctx, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
	}
	return NewCloudExporter(cfg.OutputFolder, cfg.Bucket, factory), nil
}

func NewCloudExporter(folder, bucket string, factory cloudwriter.CloudWriterFactory) *Exporter {
	return &Exporter{folder: folder, bucket: bucket, factory: factory}
}

func (e *Exporter) open(ctx context.Context, restaurantID, name string) (source.ParquetFile, string, error) {
	if e.factory != nil {
		key := path.Join(e.folder, restaurantID, name)
		cw, err := e.factory.NewWriter(ctx, e.bucket, key)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return NewCloudParquetFile(cw), fmt.Sprintf("s3://%s/%s", e.bucket, key), nil
	}

	dir := filepath.Join(e.folder, restaurantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating %s: %w", dir, err)
	}
	filePath := filepath.Join(dir, name)
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, filePath, nil
}

// write streams records through a parquet writer; schema comes from obj's tags.
// On failure the file is aborted rather than finished.
func write[T any](fw source.ParquetFile, obj *T, records []T) error {
	pw, err := writer.NewParquetWriter(fw, obj, parallelWriters)
	if err != nil {
		abort(fw)
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	for i := range records {
		if err := pw.Write(records[i]); err != nil {
			abort(fw)
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		abort(fw)
		return fmt.Errorf("finishing parquet file: %w", err)
	}
	return fw.Close()
}

func abort(fw source.ParquetFile) {
	if a, ok := fw.(interface{ Abort() }); ok {
		a.Abort()
	}
	_ = fw.Close()
}

// discard removes a partial local file after a failed write.
func (e *Exporter) discard(location string) {
	if e.factory != nil {
		return
	}
	if err := os.Remove(location); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("location", location).Msg("failed to remove partial export")
	}
}

// WriteForecasts exports stored demand forecast rows and returns where they
// went.
func (e *Exporter) WriteForecasts(ctx context.Context, restaurantID string, rows []*models.DemandForecast) (string, error) {
	records := make([]ForecastRecord, len(rows))
	for i, r := range rows {
		records[i] = ForecastRecord{
			RestaurantID:    r.RestaurantID,
			ForecastDate:    r.Date.Format(time.DateOnly),
			DayOfWeek:       int32(r.Date.Weekday()),
			PredictedCovers: int32(r.PredictedCovers),
			ConfidenceLow:   int32(r.ConfidenceLow),
			ConfidenceHigh:  int32(r.ConfidenceHigh),
			ModelVersion:    r.ModelVersion,
			GeneratedAt:     r.GeneratedAt.UnixMilli(),
		}
	}

	fw, location, err := e.open(ctx, restaurantID, ForecastsFile)
	if err != nil {
		return "", err
	}
	if err := write(fw, new(ForecastRecord), records); err != nil {
		e.discard(location)
		return "", fmt.Errorf("exporting forecasts: %w", err)
	}
	log.Info().Str("restaurant_id", restaurantID).Int("rows", len(records)).Str("location", location).Msg("forecasts exported")
	return location, nil
}

// WriteMenuEngineering exports a menu-engineering report for [start, end].
func (e *Exporter) WriteMenuEngineering(ctx context.Context, restaurantID string, report analytics.MenuReport, start, end time.Time) (string, error) {
	report = report.Rounded()
	records := make([]MenuEngineeringRecord, len(report.Items))
	for i, it := range report.Items {
		records[i] = MenuEngineeringRecord{
			RestaurantID:       restaurantID,
			PeriodStart:        start.Format(time.DateOnly),
			PeriodEnd:          end.Format(time.DateOnly),
			MenuItemID:         it.MenuItemID,
			Name:               it.Name,
			Category:           it.Category,
			Quantity:           int64(it.Quantity),
			Revenue:            it.Revenue,
			Cost:               it.Cost,
			Profit:             it.Profit,
			ContributionMargin: it.ContributionMargin,
			PopularityIndex:    it.PopularityIndex,
			ProfitabilityIndex: it.ProfitabilityIndex,
			Classification:     it.Classification,
			SuggestedPrice:     it.SuggestedPrice,
		}
	}

	fw, location, err := e.open(ctx, restaurantID, MenuEngineeringFile)
	if err != nil {
		return "", err
	}
	if err := write(fw, new(MenuEngineeringRecord), records); err != nil {
		e.discard(location)
		return "", fmt.Errorf("exporting menu engineering: %w", err)
	}
	log.Info().Str("restaurant_id", restaurantID).Int("rows", len(records)).Str("location", location).Msg("menu engineering exported")
	return location, nil
}
