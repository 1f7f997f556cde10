package util

func FloatPointer(f float64) *float64 {
	return &f
}
