package ops

import (
    "testing"

    "github.com/chewxy/math32"
)

func TestReLU(t *testing.T) {
    testCases := []struct {
        input    float32
        expected float32
    }{
        {-1.0, 0.0},
        {0.0, 0.0},
        {1.0, 1.0},
        {5.5, 5.5},
        {-100.0, 0.0},
    }

    for _, tc := range testCases {
        result := ReLU(tc.input)
        if result != tc.expected {
            t.Errorf("ReLU(%f) = %f, expected %f", tc.input, result, tc.expected)
        }
    }
}

func sum(vs []float32) float32 {
    var s float32
    for _, v := range vs {
        s += v
    }
    return s
}

func TestSoftmax(t *testing.T) {
    input := []float32{1.0, 2.0, 3.0}
    result := Softmax(input)

    // Check that probabilities sum to 1
    s := sum(result)
    if math32.Abs(s-1.0) > 1e-6 {
        t.Errorf("Softmax probabilities don't sum to 1: %f", s)
    }

    // Check that all probabilities are positive
    for i, prob := range result {
        if prob <= 0 {
            t.Errorf("Softmax probability %d is not positive: %f", i, prob)
        }
    }

    // Check that larger inputs have larger probabilities
    if result[2] <= result[1] || result[1] <= result[0] {
        t.Error("Softmax doesn't preserve order")
    }
}

func TestSoftmaxNumericalStability(t *testing.T) {
    // Test with large values that could cause overflow
    input := []float32{1000.0, 1001.0, 1002.0}
    result := Softmax(input)

    // Should not contain NaN or Inf
    for i, val := range result {
        if math32.IsNaN(val) || math32.IsInf(val, 0) {
            t.Errorf("Softmax result contains NaN/Inf at index %d: %f", i, val)
        }
    }

    // Should still sum to 1
    s := sum(result)
    if math32.Abs(s-1.0) > 1e-6 {
        t.Errorf("Softmax with large inputs doesn't sum to 1: %f", s)
    }
}

func BenchmarkReLU(b *testing.B) {
    for i := 0; i < b.N; i++ {
        _ = ReLU(float32(i) - float32(b.N/2))
    }
}

func BenchmarkSoftmax(b *testing.B) {
    input := make([]float32, 10)
    for i := range input {
        input[i] = float32(i)
    }

    b.ResetTimer()
    for i := 0; i < b.N; i++ {
        _ = Softmax(input)
    }
}
