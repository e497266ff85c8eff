// Package ierrors 实现 §7 描述的错误分类体系。
//
// Haskell 版本用类型类层级区分 IterEOF / IterExpected / IterMiscParseErr /
// IterNoParse / IterGeneric；Go 没有类层级，这里改用 errors.Is/errors.As
// 可识别的哨兵 + 包装类型来表达同样的"is-a"关系（IterEOF 和 IterExpected
// 都"是一种" IterNoParse）。
package ierrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoParse 是所有解析失败的共同祖先，catchBI/ifParse/multiParse 用
// errors.Is(err, ErrNoParse) 来判断"这是一次可以回溯重试的失败"。
var ErrNoParse = errors.New("iterio: no parse")

// EOF 包装一个"消费不足就遇到输入结束"的错误。它是 IterNoParse 的子类。
type EOF struct {
	Cause error
}

func (e *EOF) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("iterio: unexpected EOF: %v", e.Cause)
	}
	return "iterio: unexpected EOF"
}

func (e *EOF) Unwrap() []error { return []error{ErrNoParse, e.Cause} }

// WrapEOF 把一个宿主 I/O 层面的 "已到达末尾" 错误包装成 EOF，使得
// 解析组合子可以统一处理它。Run 在向宿主重新抛出之前会把这层包装剥掉。
func WrapEOF(cause error) error {
	if cause == nil {
		return &EOF{}
	}
	var already *EOF
	if errors.As(cause, &already) {
		return cause
	}
	return &EOF{Cause: cause}
}

// UnwrapEOF 剥去 EOF 包装，恢复原始宿主错误；非 EOF 错误原样返回。
// 对应 §4.2 "run strips the IterEOF wrapping before re-raising".
func UnwrapEOF(err error) error {
	var e *EOF
	if errors.As(err, &e) && e.Cause != nil {
		return e.Cause
	}
	return err
}

// Expected 表示"解析器期望若干候选 token 之一，但没有任何一个匹配"。
// 它是 IterNoParse 的子类；mapExceptionI 通过 Merge 把后续解析阶段
// 积累的期望集合拼起来，形成 "expected one of {x, y, z}" 式诊断。
type Expected struct {
	Tokens []string
	Pos    int // 失败发生时已消费的字节/元素偏移量，便于诊断定位
}

func (e *Expected) Error() string {
	toks := append([]string(nil), e.Tokens...)
	sort.Strings(toks)
	return fmt.Sprintf("iterio: expected one of {%s} at offset %d", strings.Join(toks, ", "), e.Pos)
}

func (e *Expected) Unwrap() error { return ErrNoParse }

// Merge 合并两个 Expected 的 token 集合，用于 ifParse 在 k_fail 自身
// 也抛出 "expected token" 错误时，把两者的期望集合拼接起来。
func (e *Expected) Merge(other *Expected) *Expected {
	if other == nil {
		return e
	}
	seen := make(map[string]struct{}, len(e.Tokens)+len(other.Tokens))
	merged := make([]string, 0, len(e.Tokens)+len(other.Tokens))
	for _, t := range append(append([]string(nil), e.Tokens...), other.Tokens...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	pos := e.Pos
	if other.Pos > pos {
		pos = other.Pos
	}
	return &Expected{Tokens: merged, Pos: pos}
}

// MiscParse 是不属于 EOF 或 Expected 的其它解析失败，同样是 IterNoParse 的子类。
type MiscParse struct {
	Msg string
}

func (e *MiscParse) Error() string { return "iterio: parse error: " + e.Msg }
func (e *MiscParse) Unwrap() error { return ErrNoParse }

// Generic 包装 fail/throwI 产生的一般性错误，不属于 IterNoParse 家族。
type Generic struct {
	Msg   string
	Cause error
}

func (e *Generic) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}
func (e *Generic) Unwrap() error { return e.Cause }

// NewGeneric 构造一个 IterGeneric 错误，对应 §3 的 "Fail(msg) = IterFail(generic_error(msg))"。
func NewGeneric(msg string) error { return &Generic{Msg: msg} }

// IsNoParse 报告 err 是否属于 IterNoParse 家族（EOF / Expected / MiscParse 及其包装）。
func IsNoParse(err error) bool { return errors.Is(err, ErrNoParse) }

// IsEOFErr 报告 err 是否（或包装了）一个 EOF 错误。
func IsEOFErr(err error) bool {
	var e *EOF
	return errors.As(err, &e)
}
