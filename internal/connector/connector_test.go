package connector

import (
	"errors"
	"os"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return logger
}

func TestNewDatabaseConnector(t *testing.T) {
	// Set environment variables for testing
	os.Setenv("ANALYZER_MYSQL_HOST", "test-host")
	os.Setenv("ANALYZER_MYSQL_USER", "test-user")
	os.Setenv("ANALYZER_MYSQL_PASSWORD", "test-password")
	os.Setenv("ANALYZER_MYSQL_DATABASE", "test-database")
	os.Setenv("ANALYZER_MYSQL_PORT", "3307")
	defer func() {
		os.Unsetenv("ANALYZER_MYSQL_HOST")
		os.Unsetenv("ANALYZER_MYSQL_USER")
		os.Unsetenv("ANALYZER_MYSQL_PASSWORD")
		os.Unsetenv("ANALYZER_MYSQL_DATABASE")
		os.Unsetenv("ANALYZER_MYSQL_PORT")
	}()

	db := NewDatabaseConnector("", "", "", "", "", testLogger())

	if db.Host != "test-host" {
		t.Errorf("Expected host to be 'test-host', got '%s'", db.Host)
	}
	if db.User != "test-user" {
		t.Errorf("Expected user to be 'test-user', got '%s'", db.User)
	}
	if db.Password != "test-password" {
		t.Errorf("Expected password to be 'test-password', got '%s'", db.Password)
	}
	if db.Database != "test-database" {
		t.Errorf("Expected database to be 'test-database', got '%s'", db.Database)
	}
	if db.Port != "3307" {
		t.Errorf("Expected port to be '3307', got '%s'", db.Port)
	}

	// Explicit parameters win over the environment
	db = NewDatabaseConnector("explicit-host", "explicit-user", "explicit-password", "explicit-database", "3308", testLogger())
	if db.Host != "explicit-host" || db.Port != "3308" {
		t.Errorf("Expected explicit parameters to be used, got %s:%s", db.Host, db.Port)
	}
}

func TestApplySchema(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer mockDB.Close()

	dc := &DatabaseConnector{DB: mockDB, Logger: testLogger()}

	mock.ExpectExec("CREATE TABLE customers").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE orders").WillReturnError(errors.New("boom"))
	mock.ExpectExec("ALTER TABLE orders").WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := dc.ApplySchema([]string{
		"CREATE TABLE customers (id INT);",
		"CREATE TABLE orders (id INT);",
		"ALTER TABLE orders ADD FOREIGN KEY (customer_id) REFERENCES customers (id);",
	})
	if err != nil {
		t.Fatalf("ApplySchema returned error: %v", err)
	}

	// The failing statement is skipped, the rest are applied
	if applied != 2 {
		t.Errorf("Expected 2 applied statements, got %d", applied)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet sqlmock expectations: %v", err)
	}
}

func TestConnectRequiresDatabase(t *testing.T) {
	dc := &DatabaseConnector{Logger: testLogger()}
	if err := dc.Connect(); err == nil {
		t.Error("Expected an error when no database name is configured")
	}
}
