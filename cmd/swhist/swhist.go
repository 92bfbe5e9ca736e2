// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// swhist summarises the score distribution of sw output and renders it as
// a histogram.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	in   = flag.String("in", "", "sw output file (default stdin)")
	out  = flag.String("out", "scores.png", "histogram image file")
	bins = flag.Int("bins", 50, "number of histogram bins")
)

func main() {
	flag.Parse()

	f := os.Stdin
	if *in != "" {
		var err error
		f, err = os.Open(*in)
		if err != nil {
			log.Fatalf("failed to open %q: %v", *in, err)
		}
		defer f.Close()
	}

	scores, err := readScores(f)
	if err != nil {
		log.Fatalf("failed to read scores: %v", err)
	}
	if len(scores) == 0 {
		log.Fatal("no scores found in input")
	}

	sort.Float64s(scores)
	fmt.Printf("n = %d\n", len(scores))
	fmt.Printf("mean = %.2f\n", stat.Mean(scores, nil))
	fmt.Printf("sd = %.2f\n", stat.StdDev(scores, nil))
	for _, q := range []float64{0.25, 0.5, 0.75} {
		fmt.Printf("q%02.0f = %.0f\n", q*100, stat.Quantile(q, stat.Empirical, scores, nil))
	}

	p, err := plot.New()
	if err != nil {
		log.Fatalf("failed to create plot: %v", err)
	}
	p.Title.Text = "local alignment scores"
	p.X.Label.Text = "score"
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(scores), *bins)
	if err != nil {
		log.Fatalf("failed to build histogram: %v", err)
	}
	p.Add(h)

	err = p.Save(15*vg.Centimeter, 10*vg.Centimeter, *out)
	if err != nil {
		log.Fatalf("failed to save %q: %v", *out, err)
	}
}

// readScores collects the value of each "score: <int>" line written by sw.
func readScores(f *os.File) ([]float64, error) {
	var scores []float64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "score: ") {
			continue
		}
		v, err := strconv.Atoi(strings.TrimPrefix(line, "score: "))
		if err != nil {
			return nil, fmt.Errorf("bad score line %q: %v", line, err)
		}
		scores = append(scores, float64(v))
	}
	return scores, sc.Err()
}
