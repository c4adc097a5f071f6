package numerology

// LifePathNumber reduces day, month and year independently, then reduces their
// sum keeping master numbers.
func LifePathNumber(day, month, year int) int {
	sum := ReduceToSingleDigit(day) + ReduceToSingleDigit(month) + ReduceToSingleDigit(year)
	return ReduceToSingleDigitOrMaster(sum)
}

// PersonalYearNumber combines the birth day and month with the evaluation year.
// The result is always a single digit; master numbers are never kept.
func PersonalYearNumber(day, month, evaluationYear int) int {
	sum := ReduceToSingleDigit(day) + ReduceToSingleDigit(month) + ReduceToSingleDigit(evaluationYear)
	return ReduceToSingleDigit(sum)
}
