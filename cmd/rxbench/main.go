package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/jppellet/scala.rx/rx"
)

const iterationsKey = "iterations"

func main() {
	cmd := &cli.Command{
		Name:  "rxbench",
		Usage: "Benchmark pulse propagation through scala.rx graphs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  iterationsKey,
				Usage: "updates to push through each graph",
				Value: 100,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "propagate",
				Usage:  "w*h grids of map chains off one source",
				Action: runPropagate,
			},
			{
				Name:   "deep",
				Usage:  "single deep chain of dynamic signals",
				Action: runDeep,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func runPropagate(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Int(iterationsKey))
	ww := []int{1, 10, 100}
	hh := []int{1, 10, 100}

	tbl := table.NewWriter()
	tbl.SetTitle("scala.rx propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "checksum"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := rx.NewReactiveSystem()
			src := rx.Source(rs, 1)
			leaves := make([]rx.Signal[int], 0, w)
			for i := 0; i < w; i++ {
				var last rx.Signal[int] = src
				for j := 0; j < h; j++ {
					last = rx.Map(rs, last, func(v int) (int, error) {
						return v + 1, nil
					})
				}
				leaves = append(leaves, last)
			}

			// checksum the observed leaves so the work cannot be elided
			// and runs stay comparable
			digest := xxhash.New()
			var buf [8]byte
			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Set(i + 2)
				tach.AddTime(time.Since(start))

				for _, leaf := range leaves {
					binary.LittleEndian.PutUint64(buf[:], uint64(leaf.Now().Value()))
					digest.Write(buf[:])
				}
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
					fmt.Sprintf("%016x", digest.Sum64()),
				},
			})
		}
	}

	tbl.Render()
	return nil
}

func runDeep(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Int(iterationsKey))
	depths := []int{10, 100, 1000}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"depth", "iterations", "recomputes", "total", "per update", "checksum"})

	for _, depth := range depths {
		log.Printf("running deep chain, depth %d", depth)

		rs := rx.NewReactiveSystem()
		src := rx.Source(rs, 0)
		var recomputes atomic.Int64
		var last rx.Signal[int] = src
		for i := 0; i < depth; i++ {
			prev := last
			last = rx.Dynamic(rs, fmt.Sprintf("layer-%d", i), func(ctx *rx.Ctx) (int, error) {
				recomputes.Add(1)
				v, err := prev.Get(ctx)
				return v + 1, err
			})
		}

		digest := xxhash.New()
		var buf [8]byte
		start := time.Now()
		for i := 1; i <= iters; i++ {
			src.Set(i)
			binary.LittleEndian.PutUint64(buf[:], uint64(last.Now().Value()))
			digest.Write(buf[:])
		}
		total := time.Since(start)

		tbl.Append([]string{
			humanize.Comma(int64(depth)),
			humanize.Comma(int64(iters)),
			humanize.Comma(recomputes.Load()),
			total.String(),
			(total / time.Duration(iters)).String(),
			fmt.Sprintf("%016x", digest.Sum64()),
		})
	}

	tbl.Render()
	return nil
}
