package main

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wippyai/thinvec/internal/layout"
)

type layoutOptions struct {
	size      uint
	align     uint
	capacity  int
	alignment uint
	target    string
	cacheLine bool
	steps     int
}

var layoutOpts layoutOptions

func init() {
	cmd := newLayoutCmd()
	f := cmd.Flags()
	f.UintVar(&layoutOpts.size, "size", 8, "Element size in bytes")
	f.UintVar(&layoutOpts.align, "align", 0, "Element alignment (default: natural alignment for --size)")
	f.IntVar(&layoutOpts.capacity, "cap", 0, "Capacity in elements")
	f.UintVar(&layoutOpts.alignment, "alignment", 0, "Block alignment (default: max of element and header alignment)")
	f.StringVar(&layoutOpts.target, "target", "native", "Target: native or wasm32")
	f.BoolVar(&layoutOpts.cacheLine, "cache-line", false, "Align the block to the CPU cache line")
	f.IntVar(&layoutOpts.steps, "growth", 8, "Number of growth steps to show")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Compute the block layout for an element type and capacity",
		Long: `The layout command computes where the header and payload of a thin vector
block sit, how large the block is, the largest capacity the target accepts
and the capacities the growth policy steps through.

Example:
  thinvec layout --size 4 --cap 100
  thinvec layout --size 12 --align 4 --alignment 64 --target wasm32
  thinvec layout --size 1 --cache-line --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := computeLayout(layoutOpts)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), report)
			}
			printLayout(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

type layoutReport struct {
	Target      string `json:"target"`
	ElemSize    uint64 `json:"elem_size"`
	ElemAlign   uint64 `json:"elem_align"`
	HeaderSize  uint64 `json:"header_size"`
	Alignment   uint64 `json:"alignment"`
	Offset      uint64 `json:"payload_offset"`
	Capacity    int    `json:"capacity"`
	Size        uint64 `json:"block_size"`
	MaxElements int    `json:"max_elements"`
	Growth      []int  `json:"growth"`
}

func targetByName(name string) (layout.Target, error) {
	switch name {
	case "native", "":
		return layout.Native, nil
	case "wasm32":
		return layout.Wasm32, nil
	default:
		return layout.Target{}, fmt.Errorf("unknown target %q (want native or wasm32)", name)
	}
}

// naturalAlign is the largest power of two up to 8 dividing size.
func naturalAlign(size uintptr) uintptr {
	a := uintptr(1)
	for a < 8 && size%(a*2) == 0 {
		a *= 2
	}
	return a
}

func computeLayout(opts layoutOptions) (layoutReport, error) {
	target, err := targetByName(opts.target)
	if err != nil {
		return layoutReport{}, err
	}
	if opts.size == 0 {
		return layoutReport{}, fmt.Errorf("element size must be positive")
	}

	elem := layout.Elem{Size: uintptr(opts.size), Align: uintptr(opts.align)}
	if elem.Align == 0 {
		elem.Align = naturalAlign(elem.Size)
	}
	if !layout.IsPowerOfTwo(elem.Align) {
		return layoutReport{}, fmt.Errorf("element alignment %d is not a power of two", elem.Align)
	}
	alignment := uintptr(opts.alignment)
	if opts.cacheLine {
		alignment = max(alignment, unsafe.Sizeof(cpu.CacheLinePad{}))
	}
	if alignment == 0 {
		alignment = target.MaxAlign(elem.Align)
	}
	alignment = max(alignment, target.MaxAlign(elem.Align))

	l, err := target.Make(elem, opts.capacity, alignment)
	if err != nil {
		return layoutReport{}, fmt.Errorf("layout: %w", err)
	}

	report := layoutReport{
		Target:      target.Name,
		ElemSize:    uint64(elem.Size),
		ElemAlign:   uint64(elem.Align),
		HeaderSize:  uint64(target.HeaderSize),
		Alignment:   uint64(l.Align),
		Offset:      uint64(l.Offset),
		Capacity:    l.Cap,
		Size:        uint64(l.Size),
		MaxElements: target.MaxElements(elem, alignment),
	}
	c := 0
	for range opts.steps {
		c = layout.NextCapacity(elem.Size, c)
		if c > report.MaxElements {
			break
		}
		report.Growth = append(report.Growth, c)
	}
	return report, nil
}

func printLayout(w io.Writer, r layoutReport) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Target:         %s\n", r.Target)
	p.Fprintf(w, "Element:        size %d, align %d\n", r.ElemSize, r.ElemAlign)
	p.Fprintf(w, "Header:         %d bytes\n", r.HeaderSize)
	p.Fprintf(w, "Block align:    %d\n", r.Alignment)
	p.Fprintf(w, "Payload offset: %d\n", r.Offset)
	p.Fprintf(w, "Capacity:       %d\n", r.Capacity)
	p.Fprintf(w, "Block size:     %d bytes\n", r.Size)
	p.Fprintf(w, "Max elements:   %d\n", r.MaxElements)
	p.Fprintf(w, "Growth:         %v\n", r.Growth)
}
