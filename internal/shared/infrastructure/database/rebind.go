package database

import "github.com/jmoiron/sqlx"

// Rebind rewrites the portable "?" placeholders used by repositories into the
// driver's native bind syntax.
func Rebind(driver Driver, query string) string {
	if driver == DriverPostgres {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return query
}
