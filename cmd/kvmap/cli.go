package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/andreyvit/kvmap"
	"github.com/andreyvit/kvmap/num"
)

type cmdDump struct {
	Namespace string `short:"n" help:"Only dump this namespace, printing keys without the namespace prefix."`
	Limit     int    `short:"l" help:"Stop after this many entries; 0 means no limit."`
	Reverse   bool   `short:"r" help:"Iterate in descending key order."`
	Segments  int    `short:"s" default:"1" help:"Number of elements in each key, used to split keys into segments."`
	Values    string `default:"hex" enum:"hex,msgpack,cbor,json,text,none" help:"How to print values (hex, msgpack, cbor, json, text, none)."`
}

type cmdCount struct {
	Namespace string `short:"n" help:"Only count entries of this namespace."`
}

type cmdDec struct {
	Type string   `short:"t" default:"udec128" enum:"udec128,udec256,dec128,dec256" help:"Decimal type (udec128, udec256, dec128, dec256)."`
	Op   string   `arg:"" enum:"add,sub,mul,div,rem,pow,sqrt,floor,ceil,inv" help:"Operation: add, sub, mul, div, rem, pow, sqrt, floor, ceil, inv."`
	Args []string `arg:"" help:"Operands; pow takes an integer exponent as its second operand."`
}

type cliArgs struct {
	Engine  string `short:"e" default:"bolt" enum:"bolt,leveldb" help:"Storage engine (bolt or leveldb)."`
	Path    string `short:"p" type:"path" help:"Database file (bolt) or directory (leveldb)."`
	Bucket  string `short:"b" default:"kv" help:"Bolt bucket holding the keys."`
	Verbose bool   `short:"v" help:"Log storage transactions on stderr."`

	Dump  cmdDump  `cmd:"" help:"Print the entries of a store in key order."`
	Count cmdCount `cmd:"" help:"Count the entries of a store."`
	Dec   cmdDec   `cmd:"" help:"Evaluate fixed-point decimal arithmetic."`
}

// CliConfig contains the configuration for the kvmap cli
type CliConfig struct {
	Name        string
	Description string
	Exit        func(int)
	Stdout      io.Writer
	Stderr      io.Writer
}

func NewCliConfig() *CliConfig {
	return &CliConfig{
		Name:        "kvmap",
		Description: "Inspect kvmap stores and evaluate decimal arithmetic.",
		Exit:        func(i int) { os.Exit(i) },
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// Cli parses args and runs the selected subcommand. It takes the arguments
// explicitly so that subcommands can be tested without touching os.Args.
func Cli(args []string, config *CliConfig) (int, error) {
	var cli cliArgs
	parser, err := kong.New(&cli,
		kong.Name(config.Name),
		kong.Description(config.Description),
		kong.Exit(config.Exit),
		kong.Writers(config.Stdout, config.Stderr),
	)
	if err != nil {
		return 1, err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return 2, err
	}

	cmd := strings.Split(ctx.Command(), " ")[0]
	switch cmd {
	case "dec":
		out, err := evalDec(cli.Dec.Type, cli.Dec.Op, cli.Dec.Args)
		if err != nil {
			return 1, err
		}
		fmt.Fprintln(config.Stdout, out)
		return 0, nil
	case "dump", "count":
		db, err := openDB(&cli, config.Stderr)
		if err != nil {
			return 1, err
		}
		defer db.Close()
		err = db.Read(func(s kvmap.Storage) error {
			if cmd == "dump" {
				return dump(s, &cli.Dump, config.Stdout)
			}
			n, err := count(s, cli.Count.Namespace)
			if err != nil {
				return err
			}
			fmt.Fprintln(config.Stdout, n)
			return nil
		})
		if err != nil {
			return 1, err
		}
		return 0, nil
	default:
		return 1, fmt.Errorf("unknown command %q", ctx.Command())
	}
}

func openDB(cli *cliArgs, stderr io.Writer) (*kvmap.DB, error) {
	if cli.Path == "" {
		return nil, fmt.Errorf("--path is required")
	}
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	opt := kvmap.Options{
		Logger:  slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		Verbose: cli.Verbose,
		Bucket:  cli.Bucket,
	}
	switch cli.Engine {
	case "leveldb":
		return kvmap.OpenLevelDB(cli.Path, opt)
	default:
		return kvmap.OpenBolt(cli.Path, opt)
	}
}

// scan iterates either a whole store or, through a raw Map, the keys of a
// single namespace with the namespace trimmed.
func scan(s kvmap.Storage, namespace string, order kvmap.Order) kvmap.Iterator {
	if namespace == "" {
		return s.Scan(nil, nil, order)
	}
	m := kvmap.NewMapCodec[kvmap.Bytes, []byte](namespace, kvmap.Raw{})
	return m.RangeRaw(s, nil, nil, order)
}

func dump(s kvmap.Storage, cmd *cmdDump, w io.Writer) error {
	order := kvmap.Ascending
	if cmd.Reverse {
		order = kvmap.Descending
	}
	it := scan(s, cmd.Namespace, order)
	defer it.Close()

	var n int
	for it.Next() {
		if cmd.Limit > 0 && n >= cmd.Limit {
			break
		}
		n++
		key := formatKey(it.Key(), cmd.Namespace == "", cmd.Segments)
		if cmd.Values == "none" {
			fmt.Fprintln(w, key)
			continue
		}
		val, err := formatValue(it.Value(), cmd.Values)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		fmt.Fprintf(w, "%s = %s\n", key, val)
	}
	return it.Err()
}

// formatKey prints raw as hex segments separated by slashes. Keys that do not
// split as requested are printed whole.
func formatKey(raw []byte, namespaced bool, segments int) string {
	var buf strings.Builder
	if namespaced {
		ns, rest, err := kvmap.SplitNamespace(raw)
		if err != nil {
			// not a collection key, e.g. an Item
			return hex.EncodeToString(raw)
		}
		buf.WriteString(ns)
		buf.WriteByte(':')
		raw = rest
	}
	if segments < 1 {
		segments = 1
	}
	segs, err := kvmap.SplitKey(raw, segments)
	if err != nil {
		return hex.EncodeToString(raw)
	}
	for i, seg := range segs {
		if i > 0 {
			buf.WriteByte('/')
		}
		buf.WriteString(hex.EncodeToString(seg))
	}
	return buf.String()
}

func formatValue(raw []byte, mode string) (string, error) {
	switch mode {
	case "msgpack":
		v, err := kvmap.MsgPack[any]{}.Decode(raw)
		return fmt.Sprint(v), err
	case "cbor":
		v, err := kvmap.CBOR[any]{}.Decode(raw)
		return fmt.Sprint(v), err
	case "json":
		v, err := kvmap.JSON[any]{}.Decode(raw)
		return fmt.Sprint(v), err
	case "text":
		return strconv.Quote(string(raw)), nil
	default:
		return hex.EncodeToString(raw), nil
	}
}

func count(s kvmap.Storage, namespace string) (int, error) {
	if namespace != "" {
		m := kvmap.NewMapCodec[kvmap.Bytes, []byte](namespace, kvmap.Raw{})
		return kvmap.Count(m.KeysRaw(s, nil, nil, kvmap.Ascending))
	}
	it := s.Scan(nil, nil, kvmap.Ascending)
	defer it.Close()
	var n int
	for it.Next() {
		n++
	}
	return n, it.Err()
}

func evalDec(typ, op string, args []string) (string, error) {
	switch typ {
	case "udec256":
		return evalDecOf[num.Bits256U, num.Places18](op, args)
	case "dec128":
		return evalDecOf[num.Bits128S, num.Places18](op, args)
	case "dec256":
		return evalDecOf[num.Bits256S, num.Places18](op, args)
	default:
		return evalDecOf[num.Bits128U, num.Places18](op, args)
	}
}

func evalDecOf[W num.Width, S num.Scale](op string, args []string) (string, error) {
	arity := 2
	switch op {
	case "sqrt", "floor", "ceil", "inv":
		arity = 1
	}
	if len(args) != arity {
		return "", fmt.Errorf("%s takes %d operands, got %d", op, arity, len(args))
	}
	a, err := num.ParseDec[W, S](args[0])
	if err != nil {
		return "", err
	}
	if op == "pow" {
		exp, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return "", fmt.Errorf("invalid exponent %q: %w", args[1], err)
		}
		return stringify(a.CheckedPow(uint32(exp)))
	}
	var b num.Dec[W, S]
	if arity == 2 {
		if b, err = num.ParseDec[W, S](args[1]); err != nil {
			return "", err
		}
	}
	switch op {
	case "add":
		return stringify(a.CheckedAdd(b))
	case "sub":
		return stringify(a.CheckedSub(b))
	case "mul":
		return stringify(a.CheckedMul(b))
	case "div":
		return stringify(a.CheckedDiv(b))
	case "rem":
		return stringify(a.CheckedRem(b))
	case "sqrt":
		return stringify(a.CheckedSqrt())
	case "floor":
		return stringify(a.CheckedFloor())
	case "ceil":
		return stringify(a.CheckedCeil())
	case "inv":
		return stringify(a.CheckedInv())
	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}
}

func stringify[T fmt.Stringer](v T, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
