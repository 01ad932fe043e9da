package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/sirupsen/logrus"
)

// SetupLogging configures the logging system.
func SetupLogging(logLevel string) *logrus.Logger {
	logger := logrus.New()

	levelStr := logLevel
	if levelStr == "" {
		levelStr = os.Getenv("ANALYZER_LOG_LEVEL")
		if levelStr == "" {
			levelStr = "info"
		}
	}

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stdout)

	return logger
}

// LoadEnvironmentVariables loads environment variables from a .env file
// if one exists.
func LoadEnvironmentVariables(envFile string, logger *logrus.Logger) {
	if _, err := os.Stat(envFile); err != nil {
		logger.Debugf("No %s file found, using existing environment variables", envFile)
		return
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warningf("Error loading %s file: %v", envFile, err)
		return
	}
	logger.Infof("Loaded environment variables from %s", envFile)
}

// GetEnvInt gets an integer value from an environment variable.
func GetEnvInt(varName string, defaultValue int) int {
	value := os.Getenv(varName)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// PrintSchemaReport prints a console summary of the inferred schema.
func PrintSchemaReport(model *models.SchemaModel, loadOrder []string, circularGroups [][]string) {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SCHEMA INFERENCE REPORT")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Println("\n1. BASIC STATISTICS")
	fmt.Printf("   Tables analyzed: %d\n", len(model.TableOrder))
	fmt.Printf("   Relationships inferred: %d\n", len(model.Relationships))
	fmt.Printf("   Skipped items: %d\n", len(model.Diagnostics))

	fmt.Println("\n2. PRIMARY KEY CANDIDATES")
	for _, table := range model.TableOrder {
		pks := model.PKCandidates[table]
		if len(pks) > 0 {
			fmt.Printf("   %s: %s\n", table, strings.Join(pks, ", "))
		} else {
			fmt.Printf("   %s: (none)\n", table)
		}
	}

	fmt.Println("\n3. RELATIONSHIPS")
	if len(model.Relationships) == 0 {
		fmt.Println("   (none detected)")
	}
	for _, rel := range model.Relationships {
		fmt.Printf("   %s.%s -> %s.%s (%s)\n",
			rel.ChildTable, rel.ChildColumn, rel.ParentTable, rel.ParentColumn, rel.Cardinality)
	}

	fmt.Println("\n4. DATE COLUMNS")
	for _, table := range model.TableOrder {
		cols := model.DateColumns[table]
		if len(cols) > 0 {
			fmt.Printf("   %s: %s\n", table, strings.Join(cols, ", "))
		} else {
			fmt.Printf("   %s: None\n", table)
		}
	}

	if len(circularGroups) > 0 {
		fmt.Println("\n5. CIRCULAR REFERENCES")
		for _, group := range circularGroups {
			fmt.Printf("   %s\n", strings.Join(group, " <-> "))
		}
	}

	fmt.Println("\n6. RECOMMENDED TABLE LOAD ORDER")
	for i, table := range loadOrder {
		fmt.Printf("   %3d. %s\n", i+1, table)
	}

	if len(model.Diagnostics) > 0 {
		fmt.Println("\n7. SKIPPED ITEMS")
		for _, d := range model.Diagnostics {
			target := d.Table
			if d.Column != "" {
				target += "." + d.Column
			}
			fmt.Printf("   [%s] %s: %s\n", d.Stage, target, d.Message)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
}
