package dynamo

import "math"

// NumStocks is the number of integrated quantities in the world model.
const NumStocks = 10

// Vector is the flat stock vector handed to integrators.
type Vector [NumStocks]float64

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func (v Vector) Add(other Vector) Vector {
	var result Vector
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

func (v Vector) Scale(factor float64) Vector {
	var result Vector
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

// AddScaled returns v + other*factor.
func (v Vector) AddScaled(other Vector, factor float64) Vector {
	var result Vector
	for i := range v {
		result[i] = v[i] + other[i]*factor
	}
	return result
}
