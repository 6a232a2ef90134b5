package shell

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sqlsqrt/sqlsqrt/driver"
	"github.com/sqlsqrt/sqlsqrt/ora"
	"github.com/sqlsqrt/sqlsqrt/render"
)

// DefaultPageSize is the number of rows printed per page before the shell
// hands control back and waits for .it.
const DefaultPageSize = 20

const describeSQL = `select column_name as "Name", ` +
	`nullable as "Null?", ` +
	`concat(concat(concat(data_type,'('),data_length),')') as "Type" ` +
	`from all_tab_columns where table_name = :1`

// Options configures a Shell. Out and ErrOut are required.
type Options struct {
	// Out receives result tables and informational messages.
	Out io.Writer

	// ErrOut receives rendered statement errors. Statement errors never
	// terminate the shell.
	ErrOut io.Writer

	// Logger emits debug-level traces of statement execution.
	Logger zerolog.Logger

	// PageSize overrides DefaultPageSize when positive.
	PageSize int
}

// command is one entry in the dispatch table. Exact commands match the whole
// line; prefix commands consume the rest of the line as their argument.
type command struct {
	name   string
	prefix bool
	help   string
	run    func(s *Shell, arg string) (quit bool, err error)
}

// Shell evaluates one input line at a time against a connection. It owns the
// active statement used for paging but never the connection itself.
type Shell struct {
	conn     *ora.Conn
	out      io.Writer
	errOut   io.Writer
	log      zerolog.Logger
	pageSize int
	active   *ora.Stmt
	commands []command
}

// New builds a shell over an established connection. The dispatch table is
// constructed here once; commands are matched in order, exact names before
// prefixes.
func New(conn *ora.Conn, opts Options) *Shell {
	s := &Shell{
		conn:     conn,
		out:      opts.Out,
		errOut:   opts.ErrOut,
		log:      opts.Logger,
		pageSize: opts.PageSize,
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	s.commands = []command{
		{name: ".exit", help: "leave the shell",
			run: func(*Shell, string) (bool, error) { return true, nil }},
		{name: ".help", help: "list available commands",
			run: (*Shell).cmdHelp},
		{name: ".it", help: "fetch the next page of the active statement",
			run: (*Shell).cmdIterate},
		{name: ".describe ", prefix: true, help: ".describe <table>: list the columns of a table",
			run: (*Shell).cmdDescribe},
	}
	return s
}

// Close discards the active statement. The connection stays open; it belongs
// to the caller.
func (s *Shell) Close() {
	s.discardActive()
}

// Eval processes one complete input line: a meta-command when it starts with
// a dot, SQL otherwise. Statement errors are rendered to ErrOut and returned;
// they never set quit. The returned error tells the caller whether the line
// deserves a history entry.
func (s *Shell) Eval(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if strings.HasPrefix(line, ".") {
		for _, c := range s.commands {
			if c.prefix {
				if strings.HasPrefix(line, c.name) {
					return c.run(s, strings.TrimSpace(line[len(c.name):]))
				}
			} else if line == c.name {
				return c.run(s, "")
			}
		}
		fmt.Fprintf(s.errOut, "Unknown command %q, try .help\n", line)
		return false, nil
	}
	return false, s.runSQL(line)
}

func (s *Shell) cmdHelp(string) (bool, error) {
	for _, c := range s.commands {
		fmt.Fprintf(s.out, "%-12s %s\n", strings.TrimSpace(c.name), c.help)
	}
	return false, nil
}

func (s *Shell) cmdIterate(string) (bool, error) {
	if s.active == nil {
		fmt.Fprintln(s.out, "No active statement")
		return false, nil
	}
	exhausted, err := s.printResults(s.active, s.pageSize)
	if err != nil {
		s.report(err)
		return false, err
	}
	if exhausted {
		s.discardActive()
	}
	return false, nil
}

// cmdDescribe looks a table up in the data dictionary. The table name goes
// through a bound CHAR array variable rather than string interpolation.
func (s *Shell) cmdDescribe(table string) (bool, error) {
	if table == "" {
		fmt.Fprintln(s.errOut, "Usage: .describe <table>")
		return false, nil
	}
	if err := s.describe(table); err != nil {
		s.report(err)
		return false, err
	}
	return false, nil
}

func (s *Shell) describe(table string) error {
	v, err := s.conn.NewArrayVar(ora.VarOpts{
		OracleType:   driver.OracleTypeChar,
		NativeType:   driver.NativeTypeBytes,
		MaxArraySize: 1,
		Sizing:       ora.ByteBufferSizing{Size: uint32(len(table))},
	})
	if err != nil {
		return err
	}
	defer v.Close()
	if err := v.SetBytes(0, []byte(table)); err != nil {
		return err
	}

	stmt, err := s.conn.Prepare(describeSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()
	if err := stmt.BindByPos(1, v); err != nil {
		return err
	}
	if err := stmt.Execute(); err != nil {
		return err
	}
	_, err = s.printResults(stmt, math.MaxInt)
	return err
}

// runSQL prepares and executes the line, prints the first page, and keeps
// the statement active for .it when more rows remain.
func (s *Shell) runSQL(sql string) error {
	start := time.Now()
	stmt, err := s.conn.Prepare(sql)
	if err != nil {
		s.report(err)
		return err
	}
	if err := stmt.Execute(); err != nil {
		stmt.Close()
		s.report(err)
		return err
	}
	s.log.Debug().Str("sql", sql).Dur("elapsed", time.Since(start)).Msg("statement executed")

	s.setActive(stmt)
	exhausted, err := s.printResults(stmt, s.pageSize)
	if err != nil {
		s.report(err)
		return err
	}
	if exhausted {
		s.discardActive()
	}
	return nil
}

func (s *Shell) setActive(stmt *ora.Stmt) {
	s.discardActive()
	s.active = stmt
}

func (s *Shell) discardActive() {
	if s.active != nil {
		s.active.Close()
		s.active = nil
	}
}

// printResults renders up to maxRows rows of stmt as a table followed by a
// row-count trailer. It reports exhausted only when the result set ended
// within this page; a page that fills exactly leaves the statement fetchable.
func (s *Shell) printResults(stmt *ora.Stmt, maxRows int) (exhausted bool, err error) {
	found, err := stmt.Fetch()
	if err != nil {
		return false, err
	}
	if !found {
		fmt.Fprintln(s.out, "No rows returned")
		return true, nil
	}

	numCols, err := stmt.NumColumns()
	if err != nil {
		return false, err
	}
	tbl := render.New(int(numCols))
	header := tbl.AddRow()
	for pos := uint32(1); pos <= numCols; pos++ {
		info, err := stmt.ColumnInfo(pos)
		if err != nil {
			return false, err
		}
		if err := tbl.SetCell(header, int(pos-1), info.Name()); err != nil {
			return false, err
		}
	}

	printed := 0
	for {
		row := tbl.AddRow()
		for pos := uint32(1); pos <= numCols; pos++ {
			cell, err := stmt.ColumnValue(pos)
			if err != nil {
				return false, err
			}
			text, err := formatCell(cell)
			if err != nil {
				return false, err
			}
			if err := tbl.SetCell(row, int(pos-1), text); err != nil {
				return false, err
			}
		}
		printed++
		if printed >= maxRows {
			break
		}
		found, err = stmt.Fetch()
		if err != nil {
			return false, err
		}
		if !found {
			exhausted = true
			break
		}
	}

	if err := tbl.Render(s.out); err != nil {
		return false, err
	}
	fmt.Fprintf(s.out, "Fetched %d rows\n", printed)
	return exhausted, nil
}

// formatCell renders one result cell for display. Null wins over the type
// switch; types without a display form render a placeholder rather than
// failing the whole row.
func formatCell(c ora.Cell) (string, error) {
	if c.IsNull() {
		return "<null>", nil
	}
	switch c.NativeType() {
	case driver.NativeTypeBoolean:
		b, err := c.Bool()
		if err != nil {
			return "", err
		}
		if b {
			return "TRUE", nil
		}
		return "FALSE", nil
	case driver.NativeTypeBytes:
		b, err := c.Bytes()
		if err != nil {
			return "", err
		}
		return `"` + string(b) + `"`, nil
	case driver.NativeTypeInt64:
		n, err := c.Int64()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case driver.NativeTypeUint64:
		n, err := c.Uint64()
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(n, 10), nil
	case driver.NativeTypeFloat:
		f, err := c.Float32()
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case driver.NativeTypeDouble:
		f, err := c.Float64()
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case driver.NativeTypeTimestamp:
		ts, err := c.Timestamp()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d-%d-%d %d:%d:%d.%d Z%d",
			ts.Year, ts.Month, ts.Day,
			ts.Hour, ts.Minute, ts.Second, ts.FSecond,
			ts.TZHourOffset), nil
	case driver.NativeTypeRowid:
		r, err := c.RowID()
		if err != nil {
			return "", err
		}
		defer r.Close()
		return r.String(), nil
	default:
		return "unsupported type", nil
	}
}

// report renders an error to ErrOut in the interactive format. Binding-layer
// errors print their operation context; anything else prints as-is.
func (s *Shell) report(err error) {
	var oerr *ora.Error
	if errors.As(err, &oerr) {
		if oerr.Info != nil {
			fmt.Fprintf(s.errOut, "Error %s: %s\n", oerr.Context, oerr.Info.Message)
			return
		}
		fmt.Fprintf(s.errOut, "Error %s\n", oerr.Context)
		return
	}
	fmt.Fprintf(s.errOut, "Error %s\n", err)
}
