package value

import "fmt"

// Money is an amount in kobo (1/100 NGN). All arithmetic stays in integer
// kobo; formatting to naira happens only at the edges.
type Money int64

const Currency = "NGN"

func NairaToKobo(naira int64) Money {
	return Money(naira * 100)
}

func (m Money) Kobo() int64 {
	return int64(m)
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d NGN", m/100, m%100)
}
