package db

import (
	"strings"

	"github.com/angelmondragon/gestor-pedidos/pkg/config"
	"gorm.io/gorm"
)

// DialectOf returns the dialect name of conn, empty when conn is nil.
func DialectOf(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// ContainsOperator is the case-insensitive substring operator for the dialect.
// sqlite LIKE and the default mysql collations already ignore ASCII case.
func ContainsOperator(conn *gorm.DB) string {
	if DialectOf(conn) == config.DriverPostgres {
		return "ILIKE"
	}
	return "LIKE"
}

// ContainsPattern wraps term as a LIKE pattern.
func ContainsPattern(term string) string {
	return "%" + strings.TrimSpace(term) + "%"
}
