package numerology

import "math"

// masterNumbers survive ReduceToSingleDigitOrMaster.
var masterNumbers = [...]int{11, 22, 33}

// IsMasterNumber reports whether n is 11, 22 or 33.
func IsMasterNumber(n int) bool {
	for _, m := range masterNumbers {
		if n == m {
			return true
		}
	}
	return false
}

// digitSum adds the decimal digits of n, ignoring its sign.
func digitSum(n int) int {
	sum := 0
	for n != 0 {
		d := n % 10
		if d < 0 {
			d = -d
		}
		sum += d
		n /= 10
	}
	return sum
}

// magnitude returns |n|. math.MinInt has no positive counterpart, so it is
// replaced by its digit sum, the value every reduction passes through next.
func magnitude(n int) int {
	switch {
	case n == math.MinInt:
		return digitSum(n)
	case n < 0:
		return -n
	}
	return n
}

// ReduceToSingleDigit sums decimal digits until one digit remains.
// Negative input is treated as its absolute value.
func ReduceToSingleDigit(n int) int {
	n = magnitude(n)
	for n > 9 {
		n = digitSum(n)
	}
	return n
}

// ReduceToSingleDigitOrMaster reduces like ReduceToSingleDigit but stops as soon
// as the running value is a master number: 29 -> 11, while 9999 -> 36 -> 9.
func ReduceToSingleDigitOrMaster(n int) int {
	n = magnitude(n)
	for n > 9 {
		if IsMasterNumber(n) {
			return n
		}
		n = digitSum(n)
	}
	return n
}
