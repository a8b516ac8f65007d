package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// rowStub implements pgx.Row with a scripted Scan.
type rowStub struct{ scan func(dest ...any) error }

func (r rowStub) Scan(dest ...any) error { return r.scan(dest...) }

// rowsStub implements pgx.Rows over a fixed set of value rows.
type rowsStub struct {
	data [][]any
	idx  int
	err  error
}

func (r *rowsStub) Close()                                       {}
func (r *rowsStub) Err() error                                   { return r.err }
func (r *rowsStub) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rowsStub) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rowsStub) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *rowsStub) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = row[i].(string)
		case *int64:
			*v = row[i].(int64)
		}
	}
	return nil
}

func (r *rowsStub) Values() ([]any, error) { return nil, nil }
func (r *rowsStub) RawValues() [][]byte    { return nil }
func (r *rowsStub) Conn() *pgx.Conn        { return nil }

// poolStub implements PgxPool with scripted responses and captures the
// SQL and args of every Exec call.
type poolStub struct {
	execErr  error
	execTag  pgconn.CommandTag
	row      pgx.Row
	rows     pgx.Rows
	queryErr error

	execSQL  []string
	execArgs [][]any
}

func (p *poolStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.execSQL = append(p.execSQL, sql)
	p.execArgs = append(p.execArgs, args)
	return p.execTag, p.execErr
}

func (p *poolStub) QueryRow(context.Context, string, ...any) pgx.Row { return p.row }

func (p *poolStub) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return p.rows, p.queryErr
}
