package export

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/chrisdamba/flavormetrics/internal/analytics"
	"github.com/chrisdamba/flavormetrics/internal/cloudwriter"
	"github.com/chrisdamba/flavormetrics/internal/models"
)

func sampleForecasts() []*models.DemandForecast {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return []*models.DemandForecast{
		{RestaurantID: "r1", Date: day, PredictedCovers: 50, ConfidenceLow: 35, ConfidenceHigh: 65, ModelVersion: "dow-mean-v1", GeneratedAt: day},
		{RestaurantID: "r1", Date: day.AddDate(0, 0, 1), PredictedCovers: 61, ConfidenceLow: 40, ConfidenceHigh: 82, ModelVersion: "dow-mean-v1", GeneratedAt: day},
	}
}

func TestWriteForecastsLocal(t *testing.T) {
	dir := t.TempDir()
	exp := &Exporter{folder: dir}

	location, err := exp.WriteForecasts(context.Background(), "r1", sampleForecasts())
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "r1", ForecastsFile); location != want {
		t.Errorf("location = %s, want %s", location, want)
	}

	fr, err := local.NewLocalFileReader(location)
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(ForecastRecord), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer pr.ReadStop()

	if n := pr.GetNumRows(); n != 2 {
		t.Fatalf("file has %d rows, want 2", n)
	}
	rows := make([]ForecastRecord, 2)
	if err := pr.Read(&rows); err != nil {
		t.Fatal(err)
	}
	if rows[0].ForecastDate != "2026-03-02" || rows[0].DayOfWeek != 1 || rows[1].PredictedCovers != 61 {
		t.Errorf("rows = %+v", rows)
	}
}

type memoryWriter struct {
	bytes.Buffer
	closed bool
}

func (m *memoryWriter) Close() error {
	m.closed = true
	return nil
}

type memoryFactory struct {
	keys    []string
	writers []*memoryWriter
	failing bool
}

var errBucketFull = errors.New("bucket full")

type failingWriter struct{ *memoryWriter }

func (failingWriter) Write([]byte) (int, error) { return 0, errBucketFull }

func (f *memoryFactory) NewWriter(_ context.Context, bucket, key string) (cloudwriter.CloudWriter, error) {
	w := &memoryWriter{}
	if f.failing {
		f.keys = append(f.keys, bucket+"/"+key)
		f.writers = append(f.writers, w)
		return failingWriter{w}, nil
	}
	f.keys = append(f.keys, bucket+"/"+key)
	f.writers = append(f.writers, w)
	return w, nil
}

func TestWriteMenuEngineeringCloud(t *testing.T) {
	factory := &memoryFactory{}
	exp := NewCloudExporter("exports", "reports", factory)
	report := analytics.ClassifyMenu([]analytics.ItemSales{
		{MenuItemID: "m1", Name: "Burger", Category: "mains", Price: 12, UnitCost: 4, Quantity: 10, Revenue: 120, Cost: 40, Profit: 80},
		{MenuItemID: "m2", Name: "Salad", Category: "starters", Price: 8, UnitCost: 2, Quantity: 2, Revenue: 16, Cost: 4, Profit: 12},
	})
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	location, err := exp.WriteMenuEngineering(context.Background(), "r1", report, start, start.AddDate(0, 0, 27))
	if err != nil {
		t.Fatal(err)
	}

	if location != "s3://reports/exports/r1/menu_engineering.parquet" {
		t.Errorf("location = %s", location)
	}
	if len(factory.keys) != 1 || factory.keys[0] != "reports/exports/r1/menu_engineering.parquet" {
		t.Fatalf("keys = %v", factory.keys)
	}
	w := factory.writers[0]
	if !w.closed {
		t.Error("cloud writer was not closed")
	}
	data := w.Bytes()
	if len(data) < 8 || string(data[:4]) != "PAR1" || string(data[len(data)-4:]) != "PAR1" {
		t.Errorf("output is not a parquet file (%d bytes)", len(data))
	}
}

func TestCloudParquetFileSeek(t *testing.T) {
	f := NewCloudParquetFile(&memoryWriter{})
	f.Write([]byte("abcd"))

	if off, _ := f.Seek(0, 1); off != 4 {
		t.Errorf("offset after write = %d, want 4", off)
	}
	if _, err := f.Seek(0, 2); err == nil {
		t.Error("seek from end should fail")
	}
	if _, err := f.Read(make([]byte, 1)); err == nil {
		t.Error("read should fail")
	}
}

func TestFailedCloudExportIsNotUploaded(t *testing.T) {
	factory := &memoryFactory{failing: true}
	exp := NewCloudExporter("exports", "reports", factory)

	if _, err := exp.WriteForecasts(context.Background(), "r1", sampleForecasts()); err == nil {
		t.Fatal("expected the write failure to surface")
	}
	if len(factory.writers) != 1 {
		t.Fatalf("writers = %d, want 1", len(factory.writers))
	}
	if factory.writers[0].closed {
		t.Error("partial object was uploaded")
	}
}

func TestCloudParquetFileAbort(t *testing.T) {
	w := &memoryWriter{}
	f := NewCloudParquetFile(w)
	f.Write([]byte("PAR1"))
	f.Abort()

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if w.closed {
		t.Error("aborted file was uploaded")
	}
}
