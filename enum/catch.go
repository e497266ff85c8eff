package enum

import (
	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/iter"
)

// EnumCatch resolves the §9 Open Question on enumCatch/inumCatch
// visibility by scoping the guard to a single Onum invocation: since
// calling an Onum fully resolves before it returns, "lexically inside"
// is naturally the call boundary — a failure produced while e is
// driving it is caught; a failure from a LATER enumerator Cat'd after e
// is not, because it happens in a separate call to e's successor.
// Only enumerator failures (EnumOFail/EnumIFail) reach handler; an
// iteratee's own failure (IterFail) passes through unchanged.
func EnumCatch[T chunk.Data[T], A any, E error](e Onum[T, A], handler func(exc E, failing iter.Iter[T, A]) iter.Iter[T, A]) Onum[T, A] {
	return func(it iter.Iter[T, A]) iter.Iter[T, A] {
		return iter.CatchI(e(it), func(exc E, failing iter.Iter[T, A]) iter.Iter[T, A] {
			if failing.Kind() == iter.KindIterFail {
				return failing
			}
			return handler(exc, failing)
		})
	}
}

// InumCatch wraps an Inum the same way, and additionally re-installs
// the same guard on the Out-typed Iter it pops back out — so a failure
// from a fusion stage applied to that popped Iter AFTER this Inum
// returns is still caught, matching how a lexical try/catch around an
// expression also covers what that expression's result later flows
// into on the same side of |$.
func InumCatch[In chunk.Data[In], Out chunk.Data[Out], A any, E error](i Inum[In, Out, A], handler func(exc E, failing iter.Iter[Out, A]) iter.Iter[Out, A]) Inum[In, Out, A] {
	enumOnly := func(exc E, failing iter.Iter[Out, A]) iter.Iter[Out, A] {
		if failing.Kind() == iter.KindIterFail {
			return failing
		}
		return handler(exc, failing)
	}
	return func(it iter.Iter[Out, A]) iter.Iter[In, iter.Iter[Out, A]] {
		driven := i(it)
		caught := iter.CatchI(driven, func(exc E, failing iter.Iter[In, iter.Iter[Out, A]]) iter.Iter[In, iter.Iter[Out, A]] {
			if inner := failing.Inner(); inner != nil {
				return iter.Map(*inner, func(popped iter.Iter[Out, A]) iter.Iter[Out, A] {
					return handler(exc, iter.WrapEnumIFail[Out, A](exc, popped))
				})
			}
			return failing
		})
		return iter.Map(caught, func(popped iter.Iter[Out, A]) iter.Iter[Out, A] {
			return iter.CatchI(popped, enumOnly)
		})
	}
}
