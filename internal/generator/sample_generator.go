package generator

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jaswdr/faker"
	"github.com/sirupsen/logrus"
)

// SampleGenerator writes a small linked demo dataset (customers, orders,
// payments) whose foreign-key columns genuinely satisfy value containment,
// so running the analyzer on its output demonstrates the whole pipeline.
type SampleGenerator struct {
	Faker  faker.Faker
	Logger *logrus.Logger
}

// NewSampleGenerator creates a new sample dataset generator.
func NewSampleGenerator(logger *logrus.Logger) *SampleGenerator {
	return &SampleGenerator{
		Faker:  faker.New(),
		Logger: logger,
	}
}

// WriteSampleDataset writes customers.csv, orders.csv and payments.csv
// into dir.
func (sg *SampleGenerator) WriteSampleDataset(dir string, customers, orders int) error {
	if customers < 1 || orders < 1 {
		return fmt.Errorf("sample sizes must be positive, got %d customers and %d orders", customers, orders)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := sg.writeCustomers(filepath.Join(dir, "customers.csv"), customers); err != nil {
		return err
	}
	if err := sg.writeOrders(filepath.Join(dir, "orders.csv"), orders, customers); err != nil {
		return err
	}
	if err := sg.writePayments(filepath.Join(dir, "payments.csv"), orders); err != nil {
		return err
	}

	sg.Logger.Infof("Wrote sample dataset to %s (%d customers, %d orders)", dir, customers, orders)
	return nil
}

func (sg *SampleGenerator) writeCustomers(path string, n int) error {
	rows := [][]string{{"customer_id", "name", "email", "city", "signup_date"}}
	for i := 1; i <= n; i++ {
		rows = append(rows, []string{
			strconv.Itoa(i),
			sg.Faker.Person().Name(),
			sg.Faker.Internet().Email(),
			sg.Faker.Address().City(),
			randomDate().Format("2006-01-02"),
		})
	}
	return writeCSV(path, rows)
}

func (sg *SampleGenerator) writeOrders(path string, n, customers int) error {
	rows := [][]string{{"order_id", "customer_id", "amount", "order_date"}}
	for i := 1; i <= n; i++ {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(sg.Faker.IntBetween(1, customers)),
			strconv.FormatFloat(sg.Faker.RandomFloat(2, 5, 500), 'f', 2, 64),
			randomDate().Format("2006-01-02"),
		})
	}
	return writeCSV(path, rows)
}

func (sg *SampleGenerator) writePayments(path string, orders int) error {
	rows := [][]string{{"payment_id", "order_id", "amount", "settled"}}
	for i := 1; i <= orders; i++ {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(sg.Faker.IntBetween(1, orders)),
			strconv.FormatFloat(sg.Faker.RandomFloat(2, 5, 500), 'f', 2, 64),
			strconv.FormatBool(sg.Faker.Boolean().Bool()),
		})
	}
	return writeCSV(path, rows)
}

func randomDate() time.Time {
	return time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
