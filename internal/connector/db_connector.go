package connector

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// DatabaseConnector executes the generated schema statements against a
// live MySQL database.
type DatabaseConnector struct {
	Host     string
	User     string
	Password string
	Database string
	Port     string
	DB       *sql.DB
	Logger   *logrus.Logger
}

// NewDatabaseConnector creates a connector, falling back to ANALYZER_MYSQL_*
// environment variables for any parameter left empty.
func NewDatabaseConnector(host, user, password, database, port string, logger *logrus.Logger) *DatabaseConnector {
	if host == "" {
		host = getEnvOrDefault("ANALYZER_MYSQL_HOST", "localhost")
	}
	if user == "" {
		user = getEnvOrDefault("ANALYZER_MYSQL_USER", "root")
	}
	if password == "" {
		password = getEnvOrDefault("ANALYZER_MYSQL_PASSWORD", "")
	}
	if database == "" {
		database = getEnvOrDefault("ANALYZER_MYSQL_DATABASE", "")
	}
	if port == "" {
		port = getEnvOrDefault("ANALYZER_MYSQL_PORT", "3306")
	}

	return &DatabaseConnector{
		Host:     host,
		User:     user,
		Password: password,
		Database: database,
		Port:     port,
		Logger:   logger,
	}
}

// Connect establishes the MySQL connection.
func (dc *DatabaseConnector) Connect() error {
	if dc.Database == "" {
		return fmt.Errorf("database name must be provided either as an argument or as ANALYZER_MYSQL_DATABASE environment variable")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", dc.User, dc.Password, dc.Host, dc.Port, dc.Database)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		dc.Logger.Errorf("Error connecting to MySQL database: %v", err)
		return err
	}

	if err := db.Ping(); err != nil {
		dc.Logger.Errorf("Error pinging MySQL database: %v", err)
		return err
	}

	dc.DB = db
	dc.Logger.Infof("Connected to MySQL database: %s", dc.Database)
	return nil
}

// Disconnect closes the database connection.
func (dc *DatabaseConnector) Disconnect() {
	if dc.DB != nil {
		if err := dc.DB.Close(); err != nil {
			dc.Logger.Errorf("Error closing database connection: %v", err)
		} else {
			dc.Logger.Info("MySQL connection closed")
		}
	}
}

// ExecuteStatement executes one SQL statement.
func (dc *DatabaseConnector) ExecuteStatement(statement string) error {
	if dc.DB == nil {
		if err := dc.Connect(); err != nil {
			return err
		}
	}

	if _, err := dc.DB.Exec(statement); err != nil {
		dc.Logger.Errorf("Error executing statement: %v", err)
		return err
	}
	return nil
}

// ApplySchema executes the generated statements in order. A statement that
// fails is logged and skipped; the count of applied statements is returned.
func (dc *DatabaseConnector) ApplySchema(statements []string) (int, error) {
	if dc.DB == nil {
		if err := dc.Connect(); err != nil {
			return 0, err
		}
	}

	applied := 0
	for _, stmt := range statements {
		if err := dc.ExecuteStatement(stmt); err != nil {
			dc.Logger.Warningf("Skipping failed statement: %v", err)
			continue
		}
		applied++
	}

	dc.Logger.Infof("Applied %d/%d schema statements", applied, len(statements))
	return applied, nil
}

// getEnvOrDefault gets an environment variable or returns a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
