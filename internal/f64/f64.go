// Package f64 contains the float64 vector kernels used by regret matching
// and belief updates.
package f64

// ScalUnitary is
//  for i := range x {
//  	x[i] *= alpha
//  }
func ScalUnitary(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}

// Sum is
//  var sum float64
//  for i := range x {
//      sum += x[i]
//  }
//
// Elements are added in index order.
func Sum(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum
}

// Fill sets every element of x to alpha.
func Fill(alpha float64, x []float64) {
	for i := range x {
		x[i] = alpha
	}
}

// PositivePartTo is
//  for i, v := range x {
//  	dst[i] = max(v, 0)
//  }
func PositivePartTo(dst, x []float64) {
	for i, v := range x {
		if v > 0 {
			dst[i] = v
		} else {
			dst[i] = 0
		}
	}
}

// Normalize scales x to sum to 1 and returns the original sum. If the sum
// is not positive, x is set to the uniform distribution.
func Normalize(x []float64) float64 {
	total := Sum(x)
	if total > 0 {
		ScalUnitary(1.0/total, x)
	} else {
		Fill(1.0/float64(len(x)), x)
	}

	return total
}
