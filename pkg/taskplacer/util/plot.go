/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package util

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// FitnessSeries is the best fitness of one cluster per generation.
type FitnessSeries struct {
	Cluster string
	Best    []float64
}

// ServerLoad is the CPU the best chromosome assigns to one server.
type ServerLoad struct {
	ServerID string
	Assigned float64
	Capacity float64
	Failed   bool
}

// PlotFitnessHistory writes a line chart of best fitness per generation, one
// line per cluster, to an HTML file.
func PlotFitnessHistory(series []FitnessSeries, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return RenderFitnessHistory(f, series)
}

// RenderFitnessHistory renders the fitness history chart to w.
func RenderFitnessHistory(w io.Writer, series []FitnessSeries) error {
	if len(series) == 0 {
		return fmt.Errorf("no fitness history to plot")
	}

	generations := 0
	for _, s := range series {
		generations = max(generations, len(s.Best))
	}
	xAxis := make([]string, generations)
	for i := range xAxis {
		xAxis[i] = strconv.Itoa(i + 1)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Best Fitness per Generation",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "generation",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "fitness",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	line.SetXAxis(xAxis)
	for _, s := range series {
		data := make([]opts.LineData, len(s.Best))
		for i, v := range s.Best {
			data[i] = opts.LineData{Value: chartValue(v)}
		}
		line.AddSeries(s.Cluster, data)
	}

	return line.Render(w)
}

// PlotServerLoad writes a bar chart comparing assigned CPU to capacity per
// server.
func PlotServerLoad(cluster string, loads []ServerLoad, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return RenderServerLoad(f, cluster, loads)
}

// RenderServerLoad renders the server load chart to w. Failed servers are
// labeled in the axis.
func RenderServerLoad(w io.Writer, cluster string, loads []ServerLoad) error {
	if len(loads) == 0 {
		return fmt.Errorf("no servers to plot for %s", cluster)
	}

	names := make([]string, len(loads))
	assigned := make([]opts.BarData, len(loads))
	capacity := make([]opts.BarData, len(loads))
	for i, l := range loads {
		names[i] = l.ServerID
		if l.Failed {
			names[i] += " (failed)"
		}
		assigned[i] = opts.BarData{Value: l.Assigned}
		capacity[i] = opts.BarData{Value: l.Capacity}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("CPU Assignment for %s", cluster),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "MIPS",
		}))

	bar.SetXAxis(names).
		AddSeries("Assigned", assigned).
		AddSeries("Capacity", capacity)

	return bar.Render(w)
}

// chartValue maps values JSON cannot encode to echarts' empty marker.
func chartValue(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "-"
	}
	return v
}
