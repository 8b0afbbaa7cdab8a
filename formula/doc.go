// Package formula parses Wilkinson-Rogers model formulas such as
//
//	rt ~ gender
//	y ~ a * b
//	cbind(y1, y2) ~ 0 + x + g
//
// into an ordered list of terms.
//
// Operators, loosest binding first:
//
//	+   include a term
//	-   remove a term; "-1" removes the intercept
//	*   a*b is a + b + a:b
//	/   a/b is a + a:b (nesting)
//	:   interaction only
//	^   (a+b+c)^2 crosses the terms up to order two
//
// The literals 0 and 1 suppress and request the intercept; '.' stands for
// every non-response column of the table and is resolved by Formula.Expand.
// Names with unusual characters may be back-quoted. Random-effect bars and
// function calls are rejected with ErrInvalidFormula.
//
// Expansion keeps formula order with the first occurrence of a term winning;
// Formula.OrderByDegree gives the main-effects-first order instead.
package formula
