package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/samber/oops"

	"github.com/goride/admin-api/internal/core/domain"
)

// Per-kind tables. Admins and customers carry a single name; drivers carry
// their split name and vehicle details.
var tables = map[domain.Kind]struct {
	name    string
	profile []string
}{
	domain.KindAdmin:    {name: "admins", profile: []string{"name"}},
	domain.KindCustomer: {name: "customers", profile: []string{"name"}},
	domain.KindDriver:   {name: "drivers", profile: []string{"first_name", "last_name", "gender", "ride_type", "auto_number"}},
}

func createAccountTable(driver Driver, kind domain.Kind) string {
	t := tables[kind]
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.name)
	if driver == DriverMySQL {
		b.WriteString("  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,\n")
	} else {
		b.WriteString("  id INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	}
	for _, col := range t.profile {
		fmt.Fprintf(&b, "  %s VARCHAR(100) NOT NULL DEFAULT '',\n", col)
	}
	b.WriteString(`  email VARCHAR(191) NOT NULL UNIQUE,
  mobile VARCHAR(32) NOT NULL UNIQUE,
  password VARCHAR(255) NOT NULL,
  status VARCHAR(16) NOT NULL DEFAULT 'Active',
  profile_pic VARCHAR(255) NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
)`)
	return b.String()
}

func createRideTable(driver Driver) string {
	id := "ride_id INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == DriverMySQL {
		id = "ride_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY"
	}
	return `CREATE TABLE IF NOT EXISTS ride_details (
  ` + id + `,
  ride_type VARCHAR(50) NOT NULL,
  vehicle_name VARCHAR(100) NOT NULL,
  capacity INTEGER NOT NULL DEFAULT 0,
  base_fare DECIMAL(10,2) NOT NULL DEFAULT 0,
  per_km_fare DECIMAL(10,2) NOT NULL DEFAULT 0,
  description TEXT,
  created_at DATETIME NOT NULL
)`
}

// Migrate creates every table that does not exist yet.
func Migrate(ctx context.Context, db *sql.DB, driver Driver) error {
	stmts := make([]string, 0, len(domain.Kinds)+2)
	for _, k := range domain.Kinds {
		stmts = append(stmts, createAccountTable(driver, k))
	}
	stmts = append(stmts, createRideTable(driver))
	if driver == DriverSQLite {
		stmts = append(stmts, "CREATE INDEX IF NOT EXISTS idx_ride_details_type ON ride_details (ride_type)")
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return oops.Code("MIGRATION_FAILED").With("statement", firstLine(stmt)).Wrap(err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
