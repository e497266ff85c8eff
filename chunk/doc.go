// Package chunk 是流水线的最底层：数据块模型（C1）。
//
// 上层的 iter/enum/parse 包都只依赖 Data[T] 约束和 Chunk[T] 本身，
// 不关心 T 具体是字节、行还是数据库行批次。
package chunk
