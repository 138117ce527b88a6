package ops

import "math"

// ReLU applies Rectified Linear Unit activation
// f(x) = max(0, x)
func ReLU(x float32) float32 {
    if x > 0 {
        return x
    }
    return 0
}

// Softmax applies softmax activation to a slice
// Numerically stable implementation using the log-sum-exp trick
func Softmax(input []float32) []float32 {
    if len(input) == 0 {
        return []float32{}
    }

    result := make([]float32, len(input))

    // Find maximum for numerical stability
    maxVal := input[0]
    for _, val := range input[1:] {
        if val > maxVal {
            maxVal = val
        }
    }

    // Compute exponentials and sum
    var sum float32
    for i, val := range input {
        exp := float32(math.Exp(float64(val - maxVal)))
        result[i] = exp
        sum += exp
    }

    // Normalize to get probabilities
    if sum > 0 {
        for i := range result {
            result[i] /= sum
        }
    }

    return result
}
