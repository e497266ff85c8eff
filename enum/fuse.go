package enum

import (
	"errors"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ctl"
	"github.com/everyday-items/iterio/ierrors"
	"github.com/everyday-items/iterio/iter"
)

// ErrInnerExhausted reports that an Inum's upstream input was fully
// consumed (a real end-of-file was driven through it) while the
// downstream iteratee it fed was still NeedInput — i.e. the pipeline
// ran out of data before the consumer had enough to finish.
var ErrInnerExhausted = errors.New("iterio: inner enumerator exhausted before downstream iteratee finished")

// Flatten collapses a doubly-nested Iter — one that consumes In-chunks
// and, once Done, hands back an Iter over Mid-chunks carrying the real
// result A — into a single Iter[In, A]. This is the `join` used by
// `inner ..| iter` and (instantiated at A = Iter[Out,A]) by `i1 ..|.. i2`.
//
// Unlike joinOuter, running dry here (the popped Iter is still
// NeedInput once the In-side is exhausted) is a genuine failure: there
// is no further enumerator waiting in the wings to keep feeding it.
func Flatten[In chunk.Data[In], Mid chunk.Data[Mid], A any](x iter.Iter[In, iter.Iter[Mid, A]]) iter.Iter[In, A] {
	switch x.Kind() {
	case iter.KindNeedInput:
		captured := x
		return iter.NeedInput(func(c chunk.Chunk[In]) iter.Iter[In, A] {
			return Flatten[In, Mid, A](iter.Step(captured, c))
		})
	case iter.KindDone:
		popped := x.Value()
		switch popped.Kind() {
		case iter.KindDone:
			return iter.DoneWith[In, A](popped.Value(), x.Residual())
		case iter.KindNeedInput:
			return iter.Throw[In, A](ierrors.WrapEOF(ErrInnerExhausted))
		default:
			return iter.Throw[In, A](popped.Err())
		}
	case iter.KindIterFail:
		return iter.Throw[In, A](x.Err())
	default: // EnumOFail / EnumIFail on the In side
		return iter.Throw[In, A](x.Err())
	}
}

// joinOuter collapses the result of driving `outer(inner(it))` back into
// an Iter[Out,A] — the `join` used by `outer |.. inner` (§4.3).
//
//   - Done(popped, _): popped IS the new Out-typed state; return it.
//   - NeedInput: outer's source ran dry before inner produced anything
//     new — per Onum discipline this is normal exhaustion, not failure,
//     so the ORIGINAL iter (unchanged) is handed back, exactly as a
//     plain Onum would when it runs out of data early.
//   - failure: translate into an EnumOFail wrapping the original Out
//     iter (fusion "now owns" the combined failure, per §7).
func joinOuter[In chunk.Data[In], Out chunk.Data[Out], A any](driven iter.Iter[In, iter.Iter[Out, A]], original iter.Iter[Out, A]) iter.Iter[Out, A] {
	switch driven.Kind() {
	case iter.KindDone:
		return driven.Value()
	case iter.KindNeedInput:
		return original
	default:
		return iter.WrapEnumOFail(driven.Err(), original)
	}
}

// FuseOuter is `outer |.. inner` (infixl 4): fuses an Onum of the
// transformer's input type with an Inum, producing a new Onum of the
// transformer's OUTPUT type.
//
// outerChain/innerChain are the two operands' own control chains (nil
// if either has none); when chain is non-nil, it is wired per §4.7 so
// a request dispatched against it is tried against innerChain first
// (the stage closer to the terminal iteratee) and falls through to
// outerChain — the same "travels outward through any number of
// enumerators" rule FuseInnerInner/FuseInnerIter apply one level down.
func FuseOuter[In chunk.Data[In], Out chunk.Data[Out], A any](outer Onum[In, iter.Iter[Out, A]], outerChain *ctl.Chain, inner Inum[In, Out, A], innerChain *ctl.Chain, chain *ctl.Chain) Onum[Out, A] {
	if chain != nil {
		chain.Forward(innerChain)
		chain.Forward(outerChain)
	}
	return func(it iter.Iter[Out, A]) iter.Iter[Out, A] {
		driven := outer(inner(it))
		return joinOuter(driven, it)
	}
}

// FuseInnerInner is `i1 ..|.. i2` (infixl 5): fuses two transformers
// into one. i1 must already be instantiated with its result type equal
// to Iter[Out,A] — Go generics have no rank-2 polymorphism, so Inum
// *builders* are written as generic functions and instantiated at each
// fusion site rather than stored as already-polymorphic values (see
// DESIGN.md).
//
// i1Chain/i2Chain/chain follow FuseOuter's propagation contract: i2 is
// the stage nearer the terminal iteratee (it is applied to it first),
// so chain tries i2Chain before falling through to i1Chain.
func FuseInnerInner[In chunk.Data[In], Mid chunk.Data[Mid], Out chunk.Data[Out], A any](i1 Inum[In, Mid, iter.Iter[Out, A]], i1Chain *ctl.Chain, i2 Inum[Mid, Out, A], i2Chain *ctl.Chain, chain *ctl.Chain) Inum[In, Out, A] {
	if chain != nil {
		chain.Forward(i2Chain)
		chain.Forward(i1Chain)
	}
	return func(it iter.Iter[Out, A]) iter.Iter[In, iter.Iter[Out, A]] {
		fed := i2(it)
		driven := i1(fed)
		return Flatten[In, Mid, iter.Iter[Out, A]](driven)
	}
}

// FuseInnerIter is `inner ..| iter` (infixr 4): fuses a transformer into
// a terminal iteratee, yielding an Iter of the transformer's INPUT type.
//
// A terminal Iter has no control chain of its own — only enumerators
// answer control requests — so the only chain to propagate is inner's:
// if both innerChain and chain are non-nil, chain forwards to it.
func FuseInnerIter[In chunk.Data[In], Out chunk.Data[Out], A any](inner Inum[In, Out, A], innerChain *ctl.Chain, it iter.Iter[Out, A], chain *ctl.Chain) iter.Iter[In, A] {
	if chain != nil {
		chain.Forward(innerChain)
	}
	return Flatten[In, Out, A](inner(it))
}
