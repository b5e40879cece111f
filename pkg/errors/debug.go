package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump flattens an error for request logs: its code, every wrapped
// layer, and which database constraint rejected the write when one did
// (barcode or email uniqueness, non-negative stock, payment method checks).
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`
	Details    any    `json:"details,omitempty"`

	Chain []string `json:"chain,omitempty"`

	SQLState   string `json:"sql_state,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	DBDetail   string `json:"db_detail,omitempty"`
	DBMessage  string `json:"db_message,omitempty"`
}

// sqlite reports constraint failures only as text, e.g.
// "UNIQUE constraint failed: products.barcode".
var sqliteConstraintPrefixes = []string{
	"UNIQUE constraint failed: ",
	"CHECK constraint failed: ",
	"NOT NULL constraint failed: ",
	"FOREIGN KEY constraint failed",
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(d.Code).Retryable
		d.Details = te.Details()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		d.SQLState = pgxErr.Code
		d.Constraint = pgxErr.ConstraintName
		d.Table = pgxErr.TableName
		d.Column = pgxErr.ColumnName
		d.DBDetail = pgxErr.Detail
		d.DBMessage = pgxErr.Message
	case errors.As(err, &pqErr):
		d.SQLState = string(pqErr.Code)
		d.Constraint = pqErr.Constraint
		d.Table = pqErr.Table
		d.Column = pqErr.Column
		d.DBDetail = pqErr.Detail
		d.DBMessage = pqErr.Message
	default:
		for e := err; e != nil; e = errors.Unwrap(e) {
			if d.fillSQLite(e.Error()) {
				break
			}
		}
	}
	return d
}

func (d *ErrorDump) fillSQLite(msg string) bool {
	for _, prefix := range sqliteConstraintPrefixes {
		idx := strings.Index(msg, prefix)
		if idx < 0 {
			continue
		}
		d.DBMessage = strings.TrimSpace(msg[idx:])
		target := strings.TrimSpace(msg[idx+len(prefix):])
		if target == "" || !strings.HasSuffix(prefix, ": ") {
			return true
		}
		d.Constraint = target
		// UNIQUE and NOT NULL name table.column
		if table, column, ok := strings.Cut(target, "."); ok && !strings.ContainsAny(target, " ,") {
			d.Table, d.Column = table, column
		}
		return true
	}
	return false
}

// LogFields is the subset of the dump attached to request logs.
func (d ErrorDump) LogFields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.Retryable {
		fields["retryable"] = true
	}
	if d.SQLState != "" {
		fields["sql_state"] = d.SQLState
	}
	if d.Constraint != "" {
		fields["db_constraint"] = d.Constraint
	}
	if d.Table != "" {
		fields["db_table"] = d.Table
	}
	return fields
}
