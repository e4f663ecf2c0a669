package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	dose "github.com/drakos74/free-dose"
	"github.com/drakos74/free-dose/infra/config"
	dosemath "github.com/drakos74/free-dose/internal/math"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// input is the JSON shape of a dataset file.
type input struct {
	Doses     []float64 `json:"doses"`
	Responses []float64 `json:"responses"`
	Weights   []float64 `json:"weights,omitempty"`
}

func main() {

	file := flag.String("data", "", "dataset json file")
	conf := flag.String("config", "", "fit options json file")
	flag.Parse()

	if *file == "" {
		panic("no dataset file given")
	}

	b, err := os.ReadFile(*file)
	if err != nil {
		panic(fmt.Sprintf("could not read dataset : %+v", err))
	}
	var in input
	if err := json.Unmarshal(b, &in); err != nil {
		panic(fmt.Sprintf("could not unmarshal dataset : %+v", err))
	}

	engine, err := dose.New(in.Doses, in.Responses, in.Weights, config.MustLoad(*conf))
	if err != nil {
		panic(fmt.Sprintf("could not set up engine : %+v", err))
	}

	results := engine.FitAll()
	weights := engine.Weights()

	type row struct {
		t dose.ModelType
		r *dose.FitResult
	}
	rows := make([]row, 0, len(results))
	for t, r := range results {
		rows = append(rows, row{t: t, r: r})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].r.AIC < rows[j].r.AIC
	})

	for _, r := range rows {
		fmt.Printf("%-18s aic=%s r2=%s rmse=%s weight=%s\n",
			r.t,
			dosemath.Format(r.r.AIC),
			dosemath.Format(r.r.RSquared),
			dosemath.Format(r.r.RMSE),
			dosemath.Format(weights[r.t]))
	}

	pred, sd, err := engine.PredictWithUncertainty(in.Doses, nil, true)
	if err != nil {
		panic(fmt.Sprintf("could not predict : %+v", err))
	}
	for i, d := range in.Doses {
		fmt.Printf("dose=%s ensemble=%s ± %s\n",
			dosemath.Format(d), dosemath.Format(pred[i]), dosemath.Format(sd[i]))
	}
}
