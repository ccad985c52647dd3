// euring.go EURING age code tables used by the age resolver
package breeding

// EURING-style age codes as recorded in the raw data. Odd codes from 3 up
// are exact year classes, even codes from 2 up are minimum ages for birds
// whose hatch year is unknown.
const (
	AgePullus          = 1 // nest-bound chick, not yet fledged
	AgeFullGrown       = 2 // full-grown, hatch year unknown
	AgeFirstYear       = 3 // hatched this calendar year
	AgeAfterFirstYear  = 4 // hatched before this calendar year, exact year unknown
	AgeSecondYear      = 5 // hatched last calendar year
	AgeAfterSecondYear = 6
	AgeThirdYear       = 7
	AgeAfterThirdYear  = 8
	AgeFourthYear      = 9
)

// nextAgeCode maps an age code to the code the same bird carries one breeding
// season later. Exact-age codes advance along the odd chain and plateau at
// AgeFourthYear, minimum-age codes advance along the even chain and plateau
// at AgeAfterThirdYear. The coding scheme stops distinguishing year classes
// beyond those ceilings.
var nextAgeCode = map[int]int{
	AgePullus:     AgeSecondYear,
	AgeFirstYear:  AgeSecondYear,
	AgeSecondYear: AgeThirdYear,
	AgeThirdYear:  AgeFourthYear,
	AgeFourthYear: AgeFourthYear,

	AgeFullGrown:       AgeAfterFirstYear,
	AgeAfterFirstYear:  AgeAfterSecondYear,
	AgeAfterSecondYear: AgeAfterThirdYear,
	AgeAfterThirdYear:  AgeAfterThirdYear,
}

// prevAgeCode maps an age code to the code the same bird carried one breeding
// season earlier. Codes with no earlier-season equivalent (a first-year bird
// did not exist the season before, an unaged full-grown bird may not have
// been full grown) are absent, projection through them yields unresolved.
// Backward steps from a plateaued ceiling code are approximate in the same
// way the ceiling itself is.
var prevAgeCode = map[int]int{
	AgeSecondYear: AgeFirstYear,
	AgeThirdYear:  AgeSecondYear,
	AgeFourthYear: AgeThirdYear,

	AgeAfterFirstYear:  AgeFullGrown,
	AgeAfterSecondYear: AgeAfterFirstYear,
	AgeAfterThirdYear:  AgeAfterSecondYear,
}

// KnownAgeCode reports whether code is one the resolver can project from.
func KnownAgeCode(code int) bool {
	_, ok := nextAgeCode[code]
	return ok
}
