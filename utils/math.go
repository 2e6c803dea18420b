package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func Clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// input in radians
func RadiansToDegreesV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(180.0 / math.Pi)
}

// input in degrees
func DegreesToRadiansV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(math.Pi / 180.0)
}

// RoundCenti rounds to 2 decimal places
func RoundCenti(v float32) float32 {
	return float32(math.Round(float64(v)*100.0) / 100.0)
}

func FloatArray32to64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
