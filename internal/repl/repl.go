// Package repl implements the interactive command loop of the lsdb CLI
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"

	"github.com/leengari/lsdb/internal/executor"
)

const help = `Commands:
  use <database>              select a database
  ls                          list databases
  <op> [table] [json]         run a command, e.g.
                                query people {"query":{"age":30},"sort":[["name","asc"]]}
                                insert people {"data":{"name":"Ann","age":30}}
  {"op":...}                  run a raw JSON command
  help                        show this text
  exit, \q                    quit`

// Start reads commands from in until EOF or exit, printing results to out
func Start(session *executor.Session, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	fmt.Fprintln(out, "Welcome to lsdb")
	fmt.Fprintln(out, "Type 'help' for commands, 'exit' or '\\q' to quit.")

	for {
		prompt := "> "
		if db := session.DB(); db != nil {
			prompt = db.Name() + "> "
		}
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "exit", "\\q":
			return
		case "help", "\\h":
			fmt.Fprintln(out, help)
			continue
		}

		cmd, err := ParseLine(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		result, err := session.Run(cmd)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		PrintResult(out, result)
	}
}

// ParseLine turns one REPL line into a command. A line starting with '{' is
// a raw JSON command; otherwise it is "op [table] [json object]", where the
// object supplies the remaining command members.
func ParseLine(line string) (executor.Command, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "{") {
		return executor.ParseCommand([]byte(line))
	}

	head, rest := line, ""
	if i := strings.IndexByte(line, '{'); i >= 0 {
		head, rest = strings.TrimSpace(line[:i]), line[i:]
	}
	words := strings.Fields(head)
	if len(words) == 0 || len(words) > 2 {
		return executor.Command{}, fmt.Errorf("expected '<op> [table] [json]', got %q", line)
	}

	var cmd executor.Command
	if rest != "" {
		if err := json.Unmarshal([]byte(rest), &cmd); err != nil {
			return executor.Command{}, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	cmd.Op = strings.ToLower(words[0])
	if len(words) == 2 {
		// "use" and "drop_database" name a database, everything else a table
		switch cmd.Op {
		case "use", "drop_database":
			cmd.Database = words[1]
		default:
			cmd.Table = words[1]
		}
	}
	return cmd, nil
}

// PrintResult writes a result in human readable form
func PrintResult(w io.Writer, res *executor.Result) {
	if res.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", res.Error)
		return
	}

	if res.Text != "" {
		fmt.Fprintln(w, res.Text)
	}
	if res.Exists != nil {
		fmt.Fprintln(w, *res.Exists)
	}
	for _, name := range res.Names {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	if len(res.IDs) > 0 && len(res.Rows) == 0 {
		fmt.Fprintf(w, "IDs: %v\n", res.IDs)
	}
	if res.Stats != nil {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "database\t%s\n", res.Stats.Database)
		fmt.Fprintf(tw, "tables\t%d\n", res.Stats.Tables)
		fmt.Fprintf(tw, "rows\t%d\n", res.Stats.Rows)
		fmt.Fprintf(tw, "blob\t%s\n", res.Stats.BlobSize)
		tw.Flush()
	}

	if len(res.Columns) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

		fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))

		// Separator
		sep := make([]string, len(res.Columns))
		for i := range sep {
			sep[i] = "---"
		}
		fmt.Fprintln(tw, strings.Join(sep, "\t"))

		// Rows
		for _, row := range res.Rows {
			cells := make([]string, len(res.Columns))
			for i, col := range res.Columns {
				val, ok := row.Get(col)
				if !ok {
					cells[i] = "NULL"
				} else {
					cells[i] = val.String()
				}
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		tw.Flush()
	}

	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
}
