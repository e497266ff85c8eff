// Package chunk 定义流式管道中传递的数据块模型。
//
// 一个 Chunk 是一段数据加上一个 EOF 标记；相邻 Chunk 之间满足结合律的拼接，
// 且 EOF 具有"粘性"：一旦某个 Chunk 携带了 EOF，再往后拼接新数据即是违反契约。
package chunk

import "errors"

// ErrAfterTerminal 在已经携带非空数据的 EOF 块之后，再追加非空数据时返回/panic 的内部错误。
// 这不是面向用户的失败（不对应 IterFail 家族），而是调用方违反了 Chunk 的契约。
var ErrAfterTerminal = errors.New("chunk: append of non-empty data after a terminal EOF chunk")

// Data 约束了可以塞进 Chunk 的载荷类型：必须是幺半群（提供结合的 Append），
// 并能判断自身是否为幺元（空）。
//
// T 以自引用的方式声明约束（Append 的参数与返回值都是 T 自身），
// 这是 Go 泛型里表达"同类型可结合"的惯用写法。
type Data[T any] interface {
	// Append 返回 "本体 接在 other 前面" 拼接后的结果,不修改接收者。
	Append(other T) T
	// Null 报告该值是否等价于幺元（空数据）。
	Null() bool
}

// Chunk 是 (data, eof) 对。
type Chunk[T Data[T]] struct {
	Data T
	EOF  bool
}

// Empty 构造一个非 EOF 的空块——幺半群的幺元。
func Empty[T Data[T]]() Chunk[T] {
	var zero T
	return Chunk[T]{Data: zero, EOF: false}
}

// EOFChunk 构造 "EOF 块"：空数据、EOF=true。
func EOFChunk[T Data[T]]() Chunk[T] {
	var zero T
	return Chunk[T]{Data: zero, EOF: true}
}

// Of 把一段数据包装成非 EOF 的块。
func Of[T Data[T]](data T) Chunk[T] {
	return Chunk[T]{Data: data}
}

// OfEOF 把最后一段数据包装成 EOF 块。
func OfEOF[T Data[T]](data T) Chunk[T] {
	return Chunk[T]{Data: data, EOF: true}
}

// IsEOF 报告该块是否携带 EOF 标记。
func IsEOF[T Data[T]](c Chunk[T]) bool { return c.EOF }

// Null 报告该块的数据部分是否为空（不考虑 EOF 标记）。
func Null[T Data[T]](c Chunk[T]) bool { return c.Data.Null() }

// Append 实现 §4.1 的拼接规则：
//
//	(a,false) ⧺ (b,e)                   = (a·b, e)
//	(∅,true)  ⧺ b                       = (∅,true)            (EOF 块吸收一切)
//	(non-∅,true) ⧺ (∅,e)                = (non-∅,true)         (空块之后的追加是无操作)
//	(non-∅,true) ⧺ (non-∅,_)            = panic(ErrAfterTerminal)
func Append[T Data[T]](a, b Chunk[T]) Chunk[T] {
	if !a.EOF {
		return Chunk[T]{Data: a.Data.Append(b.Data), EOF: b.EOF}
	}
	if a.Data.Null() {
		return a
	}
	if !b.Data.Null() {
		panic(ErrAfterTerminal)
	}
	return a
}
