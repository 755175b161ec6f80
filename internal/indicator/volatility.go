package indicator

import "math"

// AnnualizedVolatility computes the annualized standard deviation of
// daily log returns over a series of closes, using sample (not
// population) stddev. Neither the metrics engine nor the sizing
// expression calls it.
func AnnualizedVolatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 {
			continue
		}
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}
	if len(rets) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	sd := 0.0
	for _, r := range rets {
		sd += (r - mean) * (r - mean)
	}
	sd = math.Sqrt(sd / float64(len(rets)-1))
	return sd * math.Sqrt(252)
}
