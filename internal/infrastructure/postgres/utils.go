package postgres

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// likePattern escapa comodines y envuelve en %...% para ILIKE.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// args acumula placeholders posicionales para armar WHERE dinámicos.
type args struct {
	vals  []any
	where []string
}

func (a *args) add(cond string, v any) {
	a.vals = append(a.vals, v)
	a.where = append(a.where, strings.ReplaceAll(cond, "?", placeholder(len(a.vals))))
}

func (a *args) clause() string {
	if len(a.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(a.where, " AND ")
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
