package resolver

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/ginjaninja78/sales-summary-report/internal/types"

	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLServer = "sqlserver"
	DriverSQLite    = "sqlite"
)

// SQLDialer dials endpoints through database/sql.
type SQLDialer struct {
	// Driver is DriverSQLServer or DriverSQLite.
	Driver string
}

// DSN builds the data source name for an endpoint.
// For sqlite the endpoint is the path of an existing database file and the
// credentials are not used.
func (d SQLDialer) DSN(endpoint string, creds types.Credentials) (string, error) {
	switch d.Driver {
	case DriverSQLServer, "":
		q := url.Values{}
		if creds.Database != "" {
			q.Set("database", creds.Database)
		}
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(creds.Username, creds.Password),
			Host:     endpoint,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	case DriverSQLite:
		// mode=rw fails on a missing file instead of creating it
		return "file:" + endpoint + "?mode=rw", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", d.Driver)
	}
}

func (d SQLDialer) driverName() string {
	if d.Driver == "" {
		return DriverSQLServer
	}
	return d.Driver
}

// Dial opens a handle and pings it under ctx. The handle holds at most one
// open connection since it is owned by a single site job.
func (d SQLDialer) Dial(ctx context.Context, endpoint string, creds types.Credentials) (types.Conn, error) {
	dsn, err := d.DSN(endpoint, creds)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", endpoint, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", endpoint, err)
	}

	return db, nil
}
