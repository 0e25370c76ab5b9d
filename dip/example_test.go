package dip_test

import (
	"fmt"

	"github.com/cwbudde/algo-spectral/dip"
	"github.com/cwbudde/algo-spectral/spectrum"
)

func ExampleFind() {
	s, _ := spectrum.New(
		[]float64{1, 2, 3, 4, 5},
		[]float64{0.0, -0.1, -0.4, -0.1, 0.0},
	)
	d, _ := dip.Find(s)
	fmt.Printf("center=%.1f prominence=%.1f\n", d.Center, d.Prominence)

	// Output:
	// center=3.0 prominence=0.4
}
