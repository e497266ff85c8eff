// Package enum 实现 C4/C5：Onum/Inum 枚举器代数与通用构造器。
//
// Onum 把数据喂给一个 Iter 直到它不再是 NeedInput 或者数据耗尽；
// Inum 既是上游数据的消费者，又是下游数据的生产者，通过 pop/re-fuse
// 把自己和别的枚举器粘合起来。
package enum

import (
	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/iter"
)

// Onum 是一个外层枚举器：反复喂数据块（从不喂 EOF）直到迭代器完成或
// 数据源耗尽为止。
type Onum[T chunk.Data[T], A any] func(iter.Iter[T, A]) iter.Iter[T, A]

// Inum 是一个内层枚举器（转换器）：作为 T_in 上的迭代器运行，
// 返回下游迭代器的最新状态，以便上层把它"弹出"并重新融合。
type Inum[In chunk.Data[In], Out chunk.Data[Out], A any] func(iter.Iter[Out, A]) iter.Iter[In, iter.Iter[Out, A]]

// Run 是 `enum |$ iter`：把 enum 驱动到底,返回最终结果。
// 按 §4.2 的 wrap 规则，下游迭代器一侧产生的 EnumFail 会被重新归类成
// IterFail,这样外层用来捕获 enum 本身失败的 catch 组合子不会误捕下游失败。
func Run[T chunk.Data[T], A any](e Onum[T, A], it iter.Iter[T, A]) (A, error) {
	wrapped := wrapDownstreamFailures(it)
	return iter.Run(e(wrapped))
}

// wrapDownstreamFailures 把 it 在运行过程中产生的任何 EnumFail 都重新
// 包装成 IterFail，对应 §4.2 "wrap 重新分类下游的 EnumFail"。
func wrapDownstreamFailures[T chunk.Data[T], A any](it iter.Iter[T, A]) iter.Iter[T, A] {
	switch it.Kind() {
	case iter.KindEnumOFail, iter.KindEnumIFail:
		return iter.Throw[T, A](it.Err())
	case iter.KindNeedInput:
		return iter.NeedInput(func(c chunk.Chunk[T]) iter.Iter[T, A] {
			return wrapDownstreamFailures(iter.Step(it, c))
		})
	default:
		return it
	}
}

// Cat 是外层枚举器的拼接 `a ⌢ b`：先跑 a；如果 a 跑完之后迭代器依然是
// NeedInput（数据没耗尽迭代器本身也没完成）就转交给 b；否则（a 已经让
// 迭代器完成或失败）b 完全不会运行——a 的全部动作必须先于 b 的任何动作,
// 这正是按顺序调用 a 再条件性调用 b 自然保证的。
func Cat[T chunk.Data[T], A any](a, b Onum[T, A]) Onum[T, A] {
	return func(it iter.Iter[T, A]) iter.Iter[T, A] {
		after := a(it)
		if after.Kind() != iter.KindNeedInput {
			return after
		}
		return b(after)
	}
}

// CatInum 拼接两个内层枚举器：先跑 a 再跑 b,作用在同一个下游迭代器上,
// 并保留"弹出再融合"的语义。
func CatInum[In chunk.Data[In], Out chunk.Data[Out], A any](a, b Inum[In, Out, A]) Inum[In, Out, A] {
	return func(downstream iter.Iter[Out, A]) iter.Iter[In, iter.Iter[Out, A]] {
		return iter.Bind(a(downstream), func(popped iter.Iter[Out, A]) iter.Iter[In, iter.Iter[Out, A]] {
			return b(popped)
		})
	}
}
