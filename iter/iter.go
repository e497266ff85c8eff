// Package iter 实现规格 C2/C3：四态的 Iter 消费者与它的单子组合。
//
// Iter[T, A] 恰好处于四种状态之一：
//
//   - NeedInput: 还需要更多输入，持有一个 Chunk -> Iter 的延续闭包；
//   - Done: 已经产出结果 A，并携带未消费完的残余输入；
//   - IterFail: 消费者自身失败；
//   - EnumFail (细分为 EnumOFail / EnumIFail): 包裹该 Iter 的枚举器失败了，
//     但内部仍保留一个可能还活着（Done 或 NeedInput）的 inner Iter。
//
// Go 没有和类层级对应的 sum type，这里用一个内部 kind 标签 + 按需填充的
// 字段来模拟，对外只暴露访问器，不暴露字段本身。
package iter

import (
	"errors"
	"fmt"
	"io"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ierrors"
)

// Kind 标识 Iter 当前所处的四态（EnumFail 再细分为两种）。
type Kind int

const (
	KindNeedInput Kind = iota
	KindDone
	KindIterFail
	KindEnumOFail
	KindEnumIFail
)

func (k Kind) String() string {
	switch k {
	case KindNeedInput:
		return "NeedInput"
	case KindDone:
		return "Done"
	case KindIterFail:
		return "IterFail"
	case KindEnumOFail:
		return "EnumOFail"
	case KindEnumIFail:
		return "EnumIFail"
	default:
		return "Unknown"
	}
}

// Iter 是 T 上、产出结果类型 A 的四态消费者。零值不是一个合法的 Iter;
// 总是通过本包的构造函数获得。
type Iter[T chunk.Data[T], A any] struct {
	kind     Kind
	next     func(chunk.Chunk[T]) Iter[T, A]
	result   A
	residual chunk.Chunk[T]
	err      error
	inner    *Iter[T, A]
}

// NeedInput 构造一个等待更多输入的 Iter。
func NeedInput[T chunk.Data[T], A any](f func(chunk.Chunk[T]) Iter[T, A]) Iter[T, A] {
	return Iter[T, A]{kind: KindNeedInput, next: f}
}

// DoneWith 构造一个已完成、携带显式残余输入的 Iter。
func DoneWith[T chunk.Data[T], A any](a A, residual chunk.Chunk[T]) Iter[T, A] {
	return Iter[T, A]{kind: KindDone, result: a, residual: residual}
}

// Return 是单子的 pure：Done(a, 空块)。满足 `Return(a) >>= k ≡ k a`。
func Return[T chunk.Data[T], A any](a A) Iter[T, A] {
	return DoneWith[T, A](a, chunk.Empty[T]())
}

// Throw 构造一个 IterFail，对应 throwI(e)。
func Throw[T chunk.Data[T], A any](err error) Iter[T, A] {
	return Iter[T, A]{kind: KindIterFail, err: err}
}

// Fail 是 throw 的便捷形式：Fail(msg) = IterFail(generic_error(msg))。
func Fail[T chunk.Data[T], A any](msg string) Iter[T, A] {
	return Throw[T, A](ierrors.NewGeneric(msg))
}

// WrapEnumOFail 构造一个外层枚举器失败：inner（通常未被触碰）原样保留。
func WrapEnumOFail[T chunk.Data[T], A any](err error, inner Iter[T, A]) Iter[T, A] {
	innerCopy := inner
	return Iter[T, A]{kind: KindEnumOFail, err: err, inner: &innerCopy}
}

// WrapEnumIFail 构造一个内层枚举器失败：inner 是正在被驱动的下游 Iter。
func WrapEnumIFail[T chunk.Data[T], A any](err error, inner Iter[T, A]) Iter[T, A] {
	innerCopy := inner
	return Iter[T, A]{kind: KindEnumIFail, err: err, inner: &innerCopy}
}

// Kind 返回该 Iter 当前所处的四态。
func (it Iter[T, A]) Kind() Kind { return it.kind }

// IsNeedInput/IsDone/IsFailure 是便于调用方判断状态的谓词。
func (it Iter[T, A]) IsNeedInput() bool { return it.kind == KindNeedInput }
func (it Iter[T, A]) IsDone() bool      { return it.kind == KindDone }
func (it Iter[T, A]) IsFailure() bool {
	return it.kind == KindIterFail || it.kind == KindEnumOFail || it.kind == KindEnumIFail
}

// Err 在失败态下返回底层错误，其余状态下返回 nil。
func (it Iter[T, A]) Err() error { return it.err }

// Value 在 Done 态下返回结果值，其余状态下返回 A 的零值。
func (it Iter[T, A]) Value() A { return it.result }

// Residual 在 Done 态下返回未消费的残余输入。
func (it Iter[T, A]) Residual() chunk.Chunk[T] { return it.residual }

// Inner 在 EnumOFail/EnumIFail 态下返回仍然存活的内层 Iter，其余状态返回 nil。
// 这正是 catchI 处理器用来"取回还活着的内层迭代器"的途径。
func (it Iter[T, A]) Inner() *Iter[T, A] { return it.inner }

// Step 是驱动一次输入的底层原语：step(iter, chunk) -> iter'。
//
// 强制执行 §3 中驱动器必须遵守的 EOF 纪律：
//   - 喂入 eof=true 的块之后，结果不得仍是 NeedInput；
//   - 喂入 eof=false 的块时，Done 态不得擅自把残余标成 eof=true；
//   - 若步进时喂入的是 eof=true 而结果是 Done，驱动器把 eof 传播进残余。
func Step[T chunk.Data[T], A any](it Iter[T, A], c chunk.Chunk[T]) Iter[T, A] {
	switch it.kind {
	case KindNeedInput:
		next := it.next(c)
		if c.EOF {
			if next.kind == KindNeedInput {
				panic("iterio: NeedInput must not persist after an EOF chunk")
			}
			if next.kind == KindDone && !next.residual.EOF {
				next.residual.EOF = true
			}
		} else if next.kind == KindDone && next.residual.EOF {
			panic("iterio: Done must not unilaterally mark its residual EOF on non-EOF input")
		}
		return next
	case KindDone:
		return DoneWith[T, A](it.result, chunk.Append(it.residual, c))
	default:
		return it
	}
}

// Bind 是单子的 >>=：按 §4.2 的规则，在 it 结算为 Done 时立即把残余输入
// 喂给 k(a)；在 it 仍是 NeedInput 时,包一层延续等待更多输入；失败态直接
// 提升为新结果类型上的 IterFail/EnumOFail/EnumIFail。
func Bind[T chunk.Data[T], A, B any](it Iter[T, A], k func(A) Iter[T, B]) Iter[T, B] {
	switch it.kind {
	case KindDone:
		return Step(k(it.result), it.residual)
	case KindIterFail:
		return Iter[T, B]{kind: KindIterFail, err: it.err}
	case KindEnumOFail:
		nextInner := Bind(*it.inner, k)
		return Iter[T, B]{kind: KindEnumOFail, err: it.err, inner: &nextInner}
	case KindEnumIFail:
		nextInner := Bind(*it.inner, k)
		return Iter[T, B]{kind: KindEnumIFail, err: it.err, inner: &nextInner}
	default: // KindNeedInput
		captured := it
		return NeedInput(func(c chunk.Chunk[T]) Iter[T, B] {
			return Bind(Step(captured, c), k)
		})
	}
}

// Then 按顺序运行 it，丢弃其结果，再运行 next。
func Then[T chunk.Data[T], A, B any](it Iter[T, A], next Iter[T, B]) Iter[T, B] {
	return Bind(it, func(A) Iter[T, B] { return next })
}

// Map 把 A 上的结果用纯函数 f 转换成 B，不引入额外的挂起点。
func Map[T chunk.Data[T], A, B any](it Iter[T, A], f func(A) B) Iter[T, B] {
	return Bind(it, func(a A) Iter[T, B] { return Return[T, B](f(a)) })
}

// Lift 把一个可能失败的宿主副作用提升进 Iter。
//
// 对应 §4.2 "lift(m) = NeedInput(λc. bind_M(m, λa. Done(a,c)))"：
// 只有在真正被步进时才会执行副作用一次；同步异常（这里是 panic）
// 与匹配 EOF 判定的错误都会被转换成 IterFail，EOF 错误额外包装成
// ierrors.EOF，使解析组合子可以统一处理。
func Lift[T chunk.Data[T], A any](fn func() (A, error)) Iter[T, A] {
	return NeedInput(func(c chunk.Chunk[T]) (out Iter[T, A]) {
		defer func() {
			if r := recover(); r != nil {
				out = Throw[T, A](fmt.Errorf("iterio: panic in lifted action: %v", r))
			}
		}()
		a, err := fn()
		if err != nil {
			return Throw[T, A](classifyLiftErr(err))
		}
		return Step(Return[T, A](a), c)
	})
}

// classifyLiftErr wraps an error that signals end-of-file (io.EOF or
// io.ErrUnexpectedEOF) as ierrors.EOF so parse combinators treat it
// uniformly; any other error passes through unchanged.
func classifyLiftErr(err error) error {
	if ierrors.IsEOFErr(err) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ierrors.WrapEOF(err)
	}
	return err
}

// Run 反复用 EOF 块步进 it 直到它离开 NeedInput，然后把最终状态折叠成
// (A, error)。失败态在重新抛给宿主之前会被剥去 IterEOF 包装（§4.2/§7）。
func Run[T chunk.Data[T], A any](it Iter[T, A]) (A, error) {
	cur := it
	for cur.kind == KindNeedInput {
		cur = Step(cur, chunk.EOFChunk[T]())
	}
	if cur.kind == KindDone {
		return cur.result, nil
	}
	var zero A
	return zero, ierrors.UnwrapEOF(cur.err)
}
