package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		samples []float64
		mean    float64
		stdev   float64
	}
	cases := []tc{
		{[]float64{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]float64{1, 0, 1, 1, 0.5, 0}, 0.5833333333333, 0.4915960401250},
		{[]float64{7}, 7, 0},
		{[]float64{}, 0, 0},
		{[]float64{40, 40}, 40, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, v := range c.samples {
			s.Push(v)
		}
		is.Equal(s.Count(), len(c.samples))
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestMinMax(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	for _, v := range []float64{31, 12, 57, 20} {
		s.Push(v)
	}
	is.Equal(s.Min(), 12.0)
	is.Equal(s.Max(), 57.0)
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540))
	is.True(FuzzyEqual(ZVal(99), 2.575829303549))
}

func TestInterval(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	for _, v := range []float64{10, 12, 23, 23, 16, 23, 21, 16} {
		s.Push(v)
	}
	lo, hi := s.Interval(95)
	// 18 +/- 1.96 * 5.2372/sqrt(8)
	is.True(FuzzyEqual(hi-18, 18-lo))
	is.True(FuzzyEqual(hi-18, 1.959963984540*5.2372293656638/2.8284271247462))

	empty := &Statistic{}
	lo, hi = empty.Interval(95)
	is.Equal(lo, 0.0)
	is.Equal(hi, 0.0)
}
