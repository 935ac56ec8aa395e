package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wippyai/thinvec"
	"github.com/wippyai/thinvec/alloc"
)

var scriptFile string

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVarP(&scriptFile, "file", "f", "-", "Script file, - for stdin")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a script of vector operations",
		Long: `The run command applies one operation per line to a vector of int64 and
prints what the operations return. Blank lines and lines starting with #
are skipped. The first failing line stops the script.

Operations:
  push N...            append values
  extend N...          append values through an iterator
  pop                  remove and print the last value
  insert I N           insert N at index I
  remove I             remove and print the value at I
  swap-remove I        remove the value at I, filling the hole from the end
  truncate N           keep the first N values
  clear                remove every value
  resize N X           grow with X or shrink to N values
  reserve N            make room for N more values
  reserve-exact N      make room for exactly N more values
  shrink [N]           shrink capacity to the length, or to at least N
  drain A B            remove and print the values in [A, B)
  drain-filter even|odd|neg
                       remove and print the matching values
  splice A B N...      replace [A, B) with the given values
  retain even|odd|neg  keep the matching values
  dedup                remove consecutive duplicates
  sort                 sort in place
  split-off I          split at I and print the tail
  print                print the values
  stats                print length, capacity, alignment and allocator totals
  json                 print the values as JSON

Example:
  thinvec run --file ops.txt
  printf 'push 1 2 3\ndrain 0 2\nprint\n' | thinvec run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if scriptFile != "-" {
				f, err := os.Open(scriptFile)
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				in = f
			}
			it := newInterpreter(cmd.OutOrStdout())
			defer it.Close()
			return it.Run(in)
		},
	}
}

// interpreter applies script operations to one vector.
type interpreter struct {
	vec     thinvec.Vec[int64]
	out     io.Writer
	printer *message.Printer
}

func newInterpreter(out io.Writer) *interpreter {
	return &interpreter{
		vec:     thinvec.New[int64](),
		out:     out,
		printer: message.NewPrinter(language.English),
	}
}

// Close frees the vector.
func (it *interpreter) Close() {
	it.vec.Free()
}

// Run executes every line of r.
func (it *interpreter) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if err := it.Exec(scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}

// Exec executes one line. Index and range violations are reported as
// errors and leave the vector unchanged.
func (it *interpreter) Exec(line string) (err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()

	op, args := fields[0], fields[1:]
	nums, err := parseInts(args)
	if err != nil && !takesWord(op) {
		return err
	}

	v := &it.vec
	switch op {
	case "push":
		for _, n := range nums {
			v.Push(n)
		}
	case "extend":
		v.Extend(slices.Values(nums))
	case "pop":
		if x, ok := v.Pop(); ok {
			it.printf("%d\n", x)
		} else {
			it.printf("empty\n")
		}
	case "insert":
		if err := arity(op, nums, 2); err != nil {
			return err
		}
		v.Insert(int(nums[0]), nums[1])
	case "remove":
		if err := arity(op, nums, 1); err != nil {
			return err
		}
		it.printf("%d\n", v.Remove(int(nums[0])))
	case "swap-remove":
		if err := arity(op, nums, 1); err != nil {
			return err
		}
		it.printf("%d\n", v.SwapRemove(int(nums[0])))
	case "truncate":
		if err := arity(op, nums, 1); err != nil {
			return err
		}
		v.Truncate(int(nums[0]))
	case "clear":
		v.Clear()
	case "resize":
		if err := arity(op, nums, 2); err != nil {
			return err
		}
		v.Resize(int(nums[0]), nums[1])
	case "reserve", "reserve-exact":
		if err := arity(op, nums, 1); err != nil {
			return err
		}
		if op == "reserve" {
			return v.TryReserve(int(nums[0]))
		}
		return v.TryReserveExact(int(nums[0]))
	case "shrink":
		if len(nums) == 0 {
			v.ShrinkToFit()
		} else {
			v.ShrinkTo(int(nums[0]))
		}
	case "drain":
		if err := arity(op, nums, 2); err != nil {
			return err
		}
		it.printValues("drained", slices.Collect(v.Drain(int(nums[0]), int(nums[1])).All()))
	case "drain-filter":
		pred, err := predicate(args)
		if err != nil {
			return err
		}
		it.printValues("drained", slices.Collect(v.DrainFilter(pred).All()))
	case "splice":
		if len(nums) < 2 {
			return fmt.Errorf("splice needs a range")
		}
		sp := v.Splice(int(nums[0]), int(nums[1]), slices.Values(nums[2:]))
		it.printValues("removed", slices.Collect(sp.All()))
	case "retain":
		pred, err := predicate(args)
		if err != nil {
			return err
		}
		v.Retain(pred)
	case "dedup":
		thinvec.Dedup(v)
	case "sort":
		slices.Sort(v.Slice())
	case "split-off":
		if err := arity(op, nums, 1); err != nil {
			return err
		}
		tail := v.SplitOff(int(nums[0]))
		it.printValues("tail", tail.Slice())
		tail.Free()
	case "print":
		it.printf("%s\n", v.String())
	case "stats":
		st := alloc.Default().Stats()
		it.printf("len=%d cap=%d align=%d live=%d bytes=%d\n",
			v.Len(), v.Cap(), v.Alignment(), st.Live, st.Bytes)
	case "json":
		data, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		it.printf("%s\n", data)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
	return nil
}

func (it *interpreter) printf(format string, args ...any) {
	it.printer.Fprintf(it.out, format, args...)
}

func (it *interpreter) printValues(label string, xs []int64) {
	it.printf("%s %v\n", label, xs)
}

func takesWord(op string) bool {
	return op == "retain" || op == "drain-filter"
}

func parseInts(args []string) ([]int64, error) {
	nums := make([]int64, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

func arity(op string, nums []int64, n int) error {
	if len(nums) != n {
		return fmt.Errorf("%s takes %d argument(s), got %d", op, n, len(nums))
	}
	return nil
}

func predicate(args []string) (func(*int64) bool, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one of even, odd, neg")
	}
	switch args[0] {
	case "even":
		return func(x *int64) bool { return *x%2 == 0 }, nil
	case "odd":
		return func(x *int64) bool { return *x%2 != 0 }, nil
	case "neg":
		return func(x *int64) bool { return *x < 0 }, nil
	default:
		return nil, fmt.Errorf("unknown predicate %q", args[0])
	}
}
